package pddl

import "testing"

func TestClassifyObjectsPartitionsArtifactsAndLocations(t *testing.T) {
	dom, store := newTestFixture(t)

	c, err := classifyObjects([]string{"mug_1", "kitchen"}, "(artifactIsInSpace mug_1 kitchen)", dom, store)
	if err != nil {
		t.Fatalf("classifyObjects failed: %v", err)
	}
	if c.Types["mug_1"] != "Artifact" {
		t.Errorf("mug_1 type = %q, want Artifact", c.Types["mug_1"])
	}
	if c.Types["kitchen"] != "Space" {
		t.Errorf("kitchen type = %q, want Space", c.Types["kitchen"])
	}
	if len(c.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", c.Warnings)
	}
}

func TestClassifyObjectsResolvesHandFromGoalContext(t *testing.T) {
	dom, store := newTestFixture(t)

	c, err := classifyObjects([]string{"mug_1", "left_hand"}, "(isHeldBy mug_1 left_hand)", dom, store)
	if err != nil {
		t.Fatalf("classifyObjects failed: %v", err)
	}
	if c.Types["left_hand"] != "Hand" {
		t.Errorf("left_hand type = %q, want Hand", c.Types["left_hand"])
	}
}

func TestClassifyObjectsUnknownIdIsHardError(t *testing.T) {
	dom, store := newTestFixture(t)

	_, err := classifyObjects([]string{"nope_99"}, "(isON nope_99)", dom, store)
	if _, ok := err.(*MissingGoalObjectError); !ok {
		t.Fatalf("classifyObjects err = %v, want *MissingGoalObjectError", err)
	}
}
