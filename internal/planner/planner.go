// Package planner invokes the external PDDL solver as a black-box
// subprocess: the Fast-Downward planner is out of scope to reimplement,
// but `solution.plan` is one of the three outputs the PDDL core promises
// and the subprocess carries a hard 60-second timeout, so something in
// this module has to spawn it, enforce that timeout, and capture its
// stdout/stderr into the debug record. This package is that
// something — grounded on
// original_source/agent/tools/pddl_plan.py's subprocess.run invocation
// and original_source/pddl/run_pddl.py's build_planner_command, and on
// internal/tools/shell/execute.go's context.WithTimeout +
// exec.CommandContext pattern for running an external program under a
// deadline.
package planner

import (
	"fmt"

	"ontoplan/internal/config"
)

// BinaryNotFoundError reports that the configured planner binary does
// not exist on disk. Grounded on run_pddl.py's "ERROR: Fast Downward not
// found: {fd_path}" check.
type BinaryNotFoundError struct {
	Path string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("planner: binary not found: %s", e.Path)
}

// TimeoutError reports that the subprocess did not finish within the
// hard timeout. Grounded on pddl_plan.py's
// except subprocess.TimeoutExpired branch.
type TimeoutError struct {
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("planner: subprocess timed out after %s", e.Timeout)
}

// FailedError reports that the planner ran to completion but returned a
// non-zero exit code, meaning no plan was found (or the problem was
// malformed). Grounded on pddl_plan.py's "PLANNING FAILED" branch.
type FailedError struct {
	ReturnCode int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("planner: solver exited with code %d, no plan found", e.ReturnCode)
}

// BuildSearchCommand composes a Fast-Downward --search argument from a
// solver/heuristic/weight triple. Grounded verbatim on
// pddl_plan.py's build_planner_command (and run_pddl.py's identical
// copy): lazy_wastar and astar compose the named heuristic, lama ignores
// heuristic/weight entirely, and anything else falls back to
// lazy_wastar.
func BuildSearchCommand(cfg config.PlannerConfig) string {
	heuristic := cfg.Heuristic
	if heuristic == "" {
		heuristic = "ff"
	}
	weight := cfg.Weight
	if weight == 0 {
		weight = 2
	}

	switch cfg.Solver {
	case "astar":
		return fmt.Sprintf("astar(%s())", heuristic)
	case "lama":
		return "lazy(alt([lama_synergy()], boost=1000), preferred=[lama_synergy()])"
	case "lazy_wastar", "":
		return fmt.Sprintf("lazy_wastar([%s()], w=%d)", heuristic, weight)
	default:
		return fmt.Sprintf("lazy_wastar([%s()], w=%d)", heuristic, weight)
	}
}

// Result is what a subprocess invocation produced: solution.plan's path
// and contents, plus the stdout/stderr that debug.json folds in
// verbatim.
type Result struct {
	Success    bool
	ReturnCode int
	Stdout     string
	Stderr     string
	PlanPath   string
	PlanText   string
}
