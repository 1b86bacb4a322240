// Package worldupdate applies a single grounded "(move robot from to)"
// action to the versioned TTL snapshot pair, diffs the result, pushes
// the diff through the SPARQL bridge, and writes a JSON action log.
// Grounded on original_source/agent/nodes/world_update.py's world_update
// node (parse_move_action, save_incremental_update_to_ttl,
// extract_changes_with_rdflib, generate_sparql_update,
// send_sparql_update), reworked into an eight-step algorithm: the SPARQL
// UPDATE is applied in-process against the bridge rather than posted to
// an HTTP endpoint, since this module's concurrency model treats the
// ontology, projection, and TTL snapshots as shared in-process state
// behind a single writer lock, not a separate server.
package worldupdate

import (
	"fmt"
	"regexp"
)

// InvalidActionError reports an action string that isn't a recognized
// "(move robot from to)" invocation. Grounded on parse_move_action's
// ValueError("Invalid move action format: ...").
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("worldupdate: invalid move action format: %s", e.Action)
}

// UnsupportedActionError reports a syntactically well-formed action this
// executor does not implement. Grounded on world_update's "only 'move'
// actions are currently implemented" branch; this executor is scoped to
// move actions only.
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("worldupdate: unsupported action type: %s", e.Action)
}

// MissingSnapshotError reports that the previous version's TTL snapshot
// the executor needs as a rewrite base does not exist on disk.
type MissingSnapshotError struct {
	Path string
}

func (e *MissingSnapshotError) Error() string {
	return fmt.Sprintf("worldupdate: original dynamic TTL file not found: %s", e.Path)
}

// MoveAction is a parsed "(move robot from to)" action.
type MoveAction struct {
	Robot        string
	FromLocation string
	ToLocation   string
}

var movePattern = regexp.MustCompile(`^\(move\s+(\w+)\s+(\w+)\s+(\w+)\)$`)

// ParseMoveAction extracts the robot and from/to locations from a move
// action string. Grounded on parse_move_action's regex
// r'\(move\s+(\w+)\s+(\w+)\s+(\w+)\)'.
func ParseMoveAction(action string) (*MoveAction, error) {
	m := movePattern.FindStringSubmatch(action)
	if m == nil {
		return nil, &InvalidActionError{Action: action}
	}
	return &MoveAction{Robot: m[1], FromLocation: m[2], ToLocation: m[3]}, nil
}
