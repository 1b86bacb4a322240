package pddl

import "testing"

func TestGetArtifactLocations(t *testing.T) {
	_, store := newTestFixture(t)

	locs, err := getArtifactLocations([]string{"table_1", "mug_1"}, store)
	if err != nil {
		t.Fatalf("getArtifactLocations failed: %v", err)
	}
	if locs["table_1"]["isInSpace"] != "kitchen" {
		t.Errorf("table_1 isInSpace = %q, want kitchen", locs["table_1"]["isInSpace"])
	}
	if locs["mug_1"]["isOntopOf"] != "table_1" {
		t.Errorf("mug_1 isOntopOf = %q, want table_1", locs["mug_1"]["isOntopOf"])
	}
}

func TestGetAffordances(t *testing.T) {
	_, store := newTestFixture(t)

	affs, err := getAffordances([]string{"mug_1", "table_1"}, store)
	if err != nil {
		t.Fatalf("getAffordances failed: %v", err)
	}
	if len(affs["mug_1"]) != 1 || affs["mug_1"][0] != "Affordance_Pickup" {
		t.Errorf("mug_1 affordances = %v, want [Affordance_Pickup]", affs["mug_1"])
	}
	if _, ok := affs["table_1"]; ok {
		t.Errorf("table_1 should have no affordances, got %v", affs["table_1"])
	}
}

func TestGetDoorStates(t *testing.T) {
	_, store := newTestFixture(t)

	states, err := getDoorStates([]string{"door_1", "kitchen"}, map[string]string{"door_1": "Door", "kitchen": "Space"}, store)
	if err != nil {
		t.Fatalf("getDoorStates failed: %v", err)
	}
	if !states["door_1"] {
		t.Errorf("door_1 state = %v, want true (open)", states["door_1"])
	}
	if _, ok := states["kitchen"]; ok {
		t.Errorf("kitchen is not a Door, should not appear in door states")
	}
}

func TestAsBoolHandlesNativeAndStringRepresentations(t *testing.T) {
	cases := []struct {
		in   interface{}
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{"false", false},
		{"1", true},
		{42, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := asBool(c.in); got != c.want {
			t.Errorf("asBool(%#v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGetKeySafeRelationships(t *testing.T) {
	_, store := newTestFixture(t)

	rel, err := getKeySafeRelationships([]string{"key_1", "safe_1"}, store)
	if err != nil {
		t.Fatalf("getKeySafeRelationships failed: %v", err)
	}
	if len(rel.Unlocks["key_1"]) != 1 || rel.Unlocks["key_1"][0] != "safe_1" {
		t.Errorf("Unlocks[key_1] = %v, want [safe_1]", rel.Unlocks["key_1"])
	}
	if len(rel.RequiresKey["safe_1"]) != 1 || rel.RequiresKey["safe_1"][0] != "key_1" {
		t.Errorf("RequiresKey[safe_1] = %v, want [key_1]", rel.RequiresKey["safe_1"])
	}
}

func TestExtraObjectsFromKeySafe(t *testing.T) {
	rel := &keySafeRelationships{
		Unlocks:     map[string][]string{"key_1": {"safe_1"}},
		RequiresKey: map[string][]string{"safe_1": {"key_1"}},
	}
	extra := extraObjectsFromKeySafe([]string{"safe_1"}, rel)
	if len(extra) != 1 || extra[0] != "key_1" {
		t.Errorf("extraObjectsFromKeySafe() = %v, want [key_1]", extra)
	}
}

func TestValidateGoalAffordancesWarnsOnMissingAffordance(t *testing.T) {
	warnings := validateGoalAffordances("(isON lamp_1)", map[string][]string{"lamp_1": {"Affordance_Open"}})
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestValidateGoalAffordancesSilentWhenSatisfied(t *testing.T) {
	warnings := validateGoalAffordances("(isON lamp_1)", map[string][]string{"lamp_1": {"Affordance_Power"}})
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
