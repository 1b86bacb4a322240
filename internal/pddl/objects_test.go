package pddl

import "testing"

func TestExtractGoalObjectsResolvesKnownIds(t *testing.T) {
	dom, store := newTestFixture(t)

	ids, err := ExtractGoalObjects("(artifactIsInSpace mug_1 kitchen)", dom, store)
	if err != nil {
		t.Fatalf("ExtractGoalObjects failed: %v", err)
	}
	want := map[string]bool{"mug_1": true, "kitchen": true}
	if len(ids) != len(want) {
		t.Fatalf("ExtractGoalObjects() = %v, want ids matching %v", ids, want)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected id %q in result", id)
		}
	}
}

func TestExtractGoalObjectsExcludesPredicateNames(t *testing.T) {
	dom, store := newTestFixture(t)

	ids, err := ExtractGoalObjects("(and (artifactIsInSpace mug_1 kitchen) (isOpenDoor door_1))", dom, store)
	if err != nil {
		t.Fatalf("ExtractGoalObjects failed: %v", err)
	}
	for _, id := range ids {
		if id == "and" || id == "artifactIsInSpace" || id == "isOpenDoor" {
			t.Errorf("predicate/keyword token %q leaked into object set", id)
		}
	}
}

func TestExtractGoalObjectsUnbalancedParens(t *testing.T) {
	dom, store := newTestFixture(t)

	_, err := ExtractGoalObjects("(artifactIsInSpace mug_1 kitchen", dom, store)
	if _, ok := err.(*InvalidGoalError); !ok {
		t.Fatalf("ExtractGoalObjects() err = %v, want *InvalidGoalError", err)
	}
}

func TestExtractGoalObjectsUnknownObject(t *testing.T) {
	dom, store := newTestFixture(t)

	_, err := ExtractGoalObjects("(artifactIsInSpace teapot_99 kitchen)", dom, store)
	missing, ok := err.(*MissingGoalObjectError)
	if !ok {
		t.Fatalf("ExtractGoalObjects() err = %v, want *MissingGoalObjectError", err)
	}
	if missing.ID != "teapot_99" {
		t.Errorf("MissingGoalObjectError.ID = %q, want teapot_99", missing.ID)
	}
}
