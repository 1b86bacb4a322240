// Package pddl is the PDDL synthesizer: a graph walker that turns a goal
// formula into a grounded PDDL problem file. Grounded on
// original_source/pddl/scripts/pddl_generator.py (Neo4j queries
// reimplemented against internal/graph.Store),
// original_source/pddl/scripts/pddl_goal_utils.py (goal identifier
// extraction and domain-type classification),
// original_source/agent/tools/pddl_plan.py's normalize_goal_formula (the
// legacy-predicate rewrite table), and
// original_source/pddl/scripts/pddl_writer.py (the emitted problem file's
// exact textual shape). Invoking the external Fast-Downward planner is
// out of scope for this package: it stops at problem.pddl and a debug
// record.
package pddl

import "fmt"

// InvalidGoalError reports a goal formula that cannot be parsed at all
// (unbalanced parentheses after normalization).
type InvalidGoalError struct {
	Reason string
}

func (e *InvalidGoalError) Error() string { return fmt.Sprintf("invalid goal formula: %s", e.Reason) }

// MissingGoalObjectError reports a goal identifier that, after excluding
// PDDL keywords and known predicate names, does not resolve to any
// individual in the projection. Spec.md §4.7's failure semantics: "missing
// object in the graph for an id that appears in the goal -> hard error".
type MissingGoalObjectError struct {
	ID string
}

func (e *MissingGoalObjectError) Error() string {
	return fmt.Sprintf("goal references unknown object %q", e.ID)
}
