package pddl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleProblem() *Problem {
	return &Problem{
		ProblemName: "test-problem",
		DomainName:  "robot-planning",
		Types: map[string]string{
			"mug_1":   "Artifact",
			"kitchen": "Space",
			"robot1":  "Robot",
		},
		Topology: &topology{
			Locations:   []string{"kitchen"},
			Connections: nil,
			Distances:   map[locationPair]int{},
		},
		Robot: &robotInfo{RobotID: "robot1", Hands: []string{"left_hand"}, Location: "kitchen"},
		ArtifactLoc: map[string]artifactLocation{
			"mug_1": {"isInSpace": "kitchen"},
		},
		Affordances: map[string][]string{"mug_1": {"Affordance_Pickup"}},
		DoorStates:  map[string]bool{},
		KeySafe:     &keySafeRelationships{},
		Goal:        "(artifactIsInSpace mug_1 kitchen)",
	}
}

func TestRenderIncludesDefineHeader(t *testing.T) {
	out := sampleProblem().Render()
	if !strings.Contains(out, "(define (problem test-problem)") {
		t.Errorf("Render() missing problem header:\n%s", out)
	}
	if !strings.Contains(out, "(:domain robot-planning)") {
		t.Errorf("Render() missing domain clause:\n%s", out)
	}
}

func TestRenderGroupsObjectsByType(t *testing.T) {
	out := sampleProblem().Render()
	if !strings.Contains(out, "mug_1 - Artifact") {
		t.Errorf("Render() missing artifact object line:\n%s", out)
	}
	if !strings.Contains(out, "kitchen - Space") {
		t.Errorf("Render() missing space object line:\n%s", out)
	}
}

func TestRenderIncludesArtifactLocationFact(t *testing.T) {
	out := sampleProblem().Render()
	if !strings.Contains(out, "(artifactIsOnFloorOf mug_1 kitchen)") {
		t.Errorf("Render() missing artifact location fact:\n%s", out)
	}
}

func TestRenderIncludesRobotHandAndLocation(t *testing.T) {
	out := sampleProblem().Render()
	if !strings.Contains(out, "(hasHand robot1 left_hand)") {
		t.Errorf("Render() missing hand fact:\n%s", out)
	}
	if !strings.Contains(out, "(robotIsInSpace robot1 kitchen)") {
		t.Errorf("Render() missing robot location fact:\n%s", out)
	}
}

func TestRenderIncludesGoalAndMetric(t *testing.T) {
	out := sampleProblem().Render()
	if !strings.Contains(out, "(:goal") {
		t.Errorf("Render() missing :goal section:\n%s", out)
	}
	if !strings.Contains(out, "artifactIsInSpace mug_1 kitchen") {
		t.Errorf("Render() missing goal body:\n%s", out)
	}
	if !strings.Contains(out, "(:metric minimize (total-cost))") {
		t.Errorf("Render() missing metric clause:\n%s", out)
	}
}

func TestRenderObjectsSectionGolden(t *testing.T) {
	got := sampleProblem().renderObjects()
	want := strings.Join([]string{
		"  (:objects",
		"    ; Artifact",
		"    mug_1 - Artifact",
		"",
		"    ; Robot",
		"    robot1 - Robot",
		"",
		"    ; Space",
		"    kitchen - Space",
		"  )",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("renderObjects() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOmitsEmptyDoorAndKeySafeSections(t *testing.T) {
	out := sampleProblem().Render()
	if strings.Contains(out, "DOOR STATES") {
		t.Errorf("Render() should omit door states section when empty:\n%s", out)
	}
	if strings.Contains(out, "KEY-SAFE RELATIONSHIPS") {
		t.Errorf("Render() should omit key-safe section when empty:\n%s", out)
	}
}
