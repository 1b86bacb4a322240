package pddl

import "testing"

func TestNormalizeGoalRewritesLegacyPredicates(t *testing.T) {
	got := NormalizeGoal("(isInSpace mug_1 kitchen)")
	want := "(artifactIsInSpace mug_1 kitchen)"
	if got != want {
		t.Fatalf("NormalizeGoal() = %q, want %q", got, want)
	}
}

func TestNormalizeGoalRewritesOnTopOf(t *testing.T) {
	got := NormalizeGoal("(isOnTopOf mug_1 table_1)")
	want := "(isOntopOf mug_1 table_1)"
	if got != want {
		t.Fatalf("NormalizeGoal() = %q, want %q", got, want)
	}
}

func TestNormalizeGoalConvertsIsClosed(t *testing.T) {
	got := NormalizeGoal("(isClosed door_1)")
	want := "(not (isOpen door_1))"
	if got != want {
		t.Fatalf("NormalizeGoal() = %q, want %q", got, want)
	}
}

func TestNormalizeGoalWrapsBareNot(t *testing.T) {
	got := NormalizeGoal("and not (isOpen door_1) (isON lamp_1)")
	want := "and (not (isOpen door_1)) (isON lamp_1)"
	if got != want {
		t.Fatalf("NormalizeGoal() = %q, want %q", got, want)
	}
}

func TestNormalizeGoalLeavesCanonicalFormAlone(t *testing.T) {
	goal := "(and (artifactIsInSpace mug_1 kitchen) (isOpen door_1))"
	if got := NormalizeGoal(goal); got != goal {
		t.Fatalf("NormalizeGoal() = %q, want unchanged %q", got, goal)
	}
}
