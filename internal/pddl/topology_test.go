package pddl

import "testing"

func TestGetRobotInfo(t *testing.T) {
	_, store := newTestFixture(t)

	info, err := getRobotInfo(store)
	if err != nil {
		t.Fatalf("getRobotInfo failed: %v", err)
	}
	if info == nil {
		t.Fatal("getRobotInfo() = nil, want a robot")
	}
	if info.RobotID != "robot1" {
		t.Errorf("RobotID = %q, want robot1", info.RobotID)
	}
	if info.Location != "kitchen" {
		t.Errorf("Location = %q, want kitchen", info.Location)
	}
	if len(info.Hands) != 1 || info.Hands[0] != "left_hand" {
		t.Errorf("Hands = %v, want [left_hand]", info.Hands)
	}
}

func TestSpatialAnchorDirect(t *testing.T) {
	_, store := newTestFixture(t)

	space, chain, err := spatialAnchor("table_1", store, 0)
	if err != nil {
		t.Fatalf("spatialAnchor failed: %v", err)
	}
	if space != "kitchen" {
		t.Errorf("space = %q, want kitchen", space)
	}
	if len(chain) != 0 {
		t.Errorf("chain = %v, want empty", chain)
	}
}

func TestSpatialAnchorThroughContainerChain(t *testing.T) {
	_, store := newTestFixture(t)

	// mug_1 is isOntopOf table_1, which is isInSpace kitchen.
	space, chain, err := spatialAnchor("mug_1", store, 0)
	if err != nil {
		t.Fatalf("spatialAnchor failed: %v", err)
	}
	if space != "kitchen" {
		t.Errorf("space = %q, want kitchen", space)
	}
	if len(chain) != 1 || chain[0] != "table_1" {
		t.Errorf("chain = %v, want [table_1]", chain)
	}
}

func TestExpandPathsFindsDistanceThroughDoor(t *testing.T) {
	_, store := newTestFixture(t)

	topo, err := expandPaths([]string{"kitchen", "bedroom"}, store)
	if err != nil {
		t.Fatalf("expandPaths failed: %v", err)
	}
	if _, ok := topo.Distances[pairOf("kitchen", "bedroom")]; !ok {
		t.Fatalf("expected a kitchen<->bedroom distance entry, got %v", topo.Distances)
	}
	if d := topo.Distances[pairOf("kitchen", "bedroom")]; d != 2 {
		t.Errorf("kitchen<->bedroom distance = %d, want 2 (via door_1)", d)
	}
	foundDoor := false
	for _, l := range topo.Locations {
		if l == "door_1" {
			foundDoor = true
		}
	}
	if !foundDoor {
		t.Errorf("expected door_1 to be harvested into the location set, got %v", topo.Locations)
	}
}
