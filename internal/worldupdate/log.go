package worldupdate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ActionDetail describes the executed action within a successful log
// entry. Grounded on world_update.py's log_data["action"] (success case).
type ActionDetail struct {
	Raw          string `json:"raw"`
	Type         string `json:"type"`
	Robot        string `json:"robot"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
}

// ActionError describes the action within a failed log entry. Grounded
// on world_update.py's except-branch log_data["action"] shape.
type ActionError struct {
	Raw   string `json:"raw"`
	Error string `json:"error"`
}

// TTLFileSet names the dynamic/static snapshot pair at one version.
type TTLFileSet struct {
	Dynamic string `json:"dynamic"`
	Static  string `json:"static"`
}

// RobotLocationChange is the one relationship world_update.py's
// log_data["updates"]["relationships"]["changed"] always names: the
// robot's location before and after the move.
type RobotLocationChange struct {
	Robot string `json:"robot"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// RelationshipSummary counts the triples the diff step produced.
type RelationshipSummary struct {
	Removed int                  `json:"removed"`
	Added   int                  `json:"added"`
	Changed RobotLocationChange  `json:"changed"`
}

// Updates is the success log's "updates" object: the TTL file versions
// touched and the relationship delta applied through the Bridge.
type Updates struct {
	TTLFiles      struct {
		Original TTLFileSet `json:"original"`
		Updated  TTLFileSet `json:"updated"`
	} `json:"ttl_files"`
	Relationships  RelationshipSummary `json:"relationships"`
	SparqlEndpoint string              `json:"sparql_endpoint"` // "in-process": applied through the Bridge directly, no HTTP hop
}

// Performance reports the action's wall-clock cost.
type Performance struct {
	ElapsedSeconds  float64 `json:"elapsed_time_seconds"`
	ElapsedFormatted string `json:"elapsed_time_formatted"`
}

// ActionLog is the JSON document written to action/log/<N>.json after
// every ExecuteAction call, success or failure. Grounded on
// world_update.py's log_data / error_log_data shapes.
//
// CorrelationID has no equivalent in world_update.py (which is invoked
// synchronously from a single request handler with nothing else to
// correlate against); it is this module's own addition, since the
// executor is reachable both from the CLI and, once served behind a
// handler, from a concurrent HTTP request whose own trace a support
// engineer will want to line up against this log entry.
type ActionLog struct {
	ActionNumber  int           `json:"action_number"`
	CorrelationID string        `json:"correlation_id"`
	Timestamp     string        `json:"timestamp"`
	Action        *ActionDetail `json:"action,omitempty"`
	ActionErr     *ActionError  `json:"-"`
	Updates       *Updates      `json:"updates,omitempty"`
	Performance   Performance   `json:"performance"`
	Status        string        `json:"status"`
	ErrorType     string        `json:"error_type,omitempty"`
}

// MarshalJSON renders ActionErr under the "action" key in place of
// Action when present, matching world_update.py's single "action" field
// whose shape differs between the success and failure branches.
func (l ActionLog) MarshalJSON() ([]byte, error) {
	type alias struct {
		ActionNumber  int         `json:"action_number"`
		CorrelationID string      `json:"correlation_id"`
		Timestamp     string      `json:"timestamp"`
		Action        interface{} `json:"action,omitempty"`
		Updates       *Updates    `json:"updates,omitempty"`
		Performance   Performance `json:"performance"`
		Status        string      `json:"status"`
		ErrorType     string      `json:"error_type,omitempty"`
	}
	a := alias{
		ActionNumber:  l.ActionNumber,
		CorrelationID: l.CorrelationID,
		Timestamp:     l.Timestamp,
		Updates:       l.Updates,
		Performance:   l.Performance,
		Status:        l.Status,
		ErrorType:     l.ErrorType,
	}
	if l.ActionErr != nil {
		a.Action = l.ActionErr
	} else if l.Action != nil {
		a.Action = l.Action
	}
	return json.Marshal(a)
}

// writeLog serializes log to logDir/<actionNumber>.json.
func writeLog(logDir string, log *ActionLog) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("worldupdate: mkdir %s: %w", logDir, err)
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("worldupdate: marshal action log: %w", err)
	}
	path := filepath.Join(logDir, fmt.Sprintf("%d.json", log.ActionNumber))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("worldupdate: write %s: %w", path, err)
	}
	return nil
}
