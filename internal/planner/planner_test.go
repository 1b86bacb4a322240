package planner

import (
	"context"
	"testing"

	"ontoplan/internal/config"
)

func TestBuildSearchCommand(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.PlannerConfig
		want string
	}{
		{"default lazy_wastar", config.PlannerConfig{Solver: "lazy_wastar", Heuristic: "ff", Weight: 2}, "lazy_wastar([ff()], w=2)"},
		{"astar", config.PlannerConfig{Solver: "astar", Heuristic: "ff"}, "astar(ff())"},
		{"lama ignores heuristic/weight", config.PlannerConfig{Solver: "lama", Heuristic: "ff", Weight: 5}, "lazy(alt([lama_synergy()], boost=1000), preferred=[lama_synergy()])"},
		{"unknown solver falls back", config.PlannerConfig{Solver: "bogus", Heuristic: "cea", Weight: 3}, "lazy_wastar([cea()], w=3)"},
		{"empty solver falls back with defaults", config.PlannerConfig{}, "lazy_wastar([ff()], w=2)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BuildSearchCommand(c.cfg)
			if got != c.want {
				t.Errorf("BuildSearchCommand(%+v) = %q, want %q", c.cfg, got, c.want)
			}
		})
	}
}

func TestRunBinaryNotFound(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.BinaryPath = "/nonexistent/fast-downward.py"

	_, err := Run(context.Background(), cfg, "domain.pddl", "problem.pddl", t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a missing planner binary")
	}
	var notFound *BinaryNotFoundError
	if !isBinaryNotFoundError(err, &notFound) {
		t.Errorf("expected *BinaryNotFoundError, got %T: %v", err, err)
	}
}

func isBinaryNotFoundError(err error, target **BinaryNotFoundError) bool {
	if e, ok := err.(*BinaryNotFoundError); ok {
		*target = e
		return true
	}
	return false
}

func TestErrorMessages(t *testing.T) {
	if (&BinaryNotFoundError{Path: "x"}).Error() == "" {
		t.Error("expected non-empty error message")
	}
	if (&TimeoutError{Timeout: "60s"}).Error() == "" {
		t.Error("expected non-empty error message")
	}
	if (&FailedError{ReturnCode: 1}).Error() == "" {
		t.Error("expected non-empty error message")
	}
}
