package worldupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ontoplan/internal/config"
	"ontoplan/internal/logging"
	"ontoplan/internal/sparql"
	"ontoplan/internal/ttl"
)

// Executor owns the versioned TTL snapshot directory, the action-log
// directory, and the SPARQL bridge that every applied diff is pushed
// through. One Executor serializes its own calls: a world update runs as
// a single suspension-free critical section against the shared
// ontology, projection, and TTL snapshots.
type Executor struct {
	mu sync.Mutex

	bridge  *sparql.Bridge
	mapping *sparql.RelationshipMapping
	baseIRI string

	worldDir string
	logDir   string

	executedCount int
}

// NewExecutor constructs an Executor. executedCount is the number of
// actions already applied (0 if the environment is freshly initialized at
// dynamic_0.ttl/static_0.ttl).
func NewExecutor(bridge *sparql.Bridge, mapping *sparql.RelationshipMapping, paths config.PathsConfig, ontologyCfg config.OntologyConfig, executedCount int) *Executor {
	return &Executor{
		bridge:        bridge,
		mapping:       mapping,
		baseIRI:       ontologyCfg.BaseIRI,
		worldDir:      paths.ActionWorldDir,
		logDir:        paths.ActionLogDir,
		executedCount: executedCount,
	}
}

// ExecutedCount reports how many actions have been successfully applied.
func (e *Executor) ExecutedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executedCount
}

// ExecuteAction runs the eight-step action algorithm for a single
// "(move robot from to)" action: version the TTL snapshot pair, rewrite
// the one changed triple, diff against the previous version, translate
// the diff into a SPARQL UPDATE and apply it through the bridge, then
// write the action log. Only move actions are implemented, matching
// world_update.py's "only 'move' actions are currently implemented" scope
// note.
//
// A failure at any step is logged (status "failed") and returned; the
// executed count is not advanced, and the caller is expected to halt
// rather than dispatch further actions — a failed action leaves the
// snapshot pair and action log in a state the workflow must not build on.
func (e *Executor) ExecuteAction(ctx context.Context, actionRaw string) (*ActionLog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	nextNumber := e.executedCount + 1
	correlationID := uuid.New().String()

	if !strings.HasPrefix(strings.TrimSpace(actionRaw), "(move") {
		err := &UnsupportedActionError{Action: actionRaw}
		e.writeFailureLog(nextNumber, correlationID, start, actionRaw, err)
		return nil, err
	}

	move, err := ParseMoveAction(actionRaw)
	if err != nil {
		e.writeFailureLog(nextNumber, correlationID, start, actionRaw, err)
		return nil, err
	}

	log, err := e.applyMove(ctx, nextNumber, correlationID, start, actionRaw, move)
	if err != nil {
		e.writeFailureLog(nextNumber, correlationID, start, actionRaw, err)
		return nil, err
	}

	e.executedCount = nextNumber
	return log, nil
}

func (e *Executor) applyMove(ctx context.Context, version int, correlationID string, start time.Time, actionRaw string, move *MoveAction) (*ActionLog, error) {
	prevDynamic := e.snapshotPath("dynamic", version-1)
	prevStatic := e.snapshotPath("static", version-1)
	newDynamic := e.snapshotPath("dynamic", version)
	newStatic := e.snapshotPath("static", version)

	if _, err := os.Stat(prevDynamic); err != nil {
		return nil, &MissingSnapshotError{Path: prevDynamic}
	}

	logging.WorldUpdate("applying action %q as version %d", actionRaw, version)

	if err := ttl.ApplyMove(prevDynamic, newDynamic, move.Robot, "robotIsInSpace", move.FromLocation, move.ToLocation); err != nil {
		return nil, fmt.Errorf("worldupdate: rewrite dynamic snapshot: %w", err)
	}

	if _, err := os.Stat(prevStatic); err == nil {
		if err := copyFile(prevStatic, newStatic); err != nil {
			return nil, fmt.Errorf("worldupdate: copy static snapshot: %w", err)
		}
	}

	added, removed, err := ttl.Diff(prevDynamic, newDynamic)
	if err != nil {
		return nil, fmt.Errorf("worldupdate: diff snapshots: %w", err)
	}
	if len(added) == 0 && len(removed) == 0 {
		logging.WorldUpdateWarn("no changes detected between %s and %s", prevDynamic, newDynamic)
	}

	updateText := ttl.SparqlFromDiff(added, removed, e.mapping, e.baseIRI)
	del, ins, err := sparql.ParseUpdate(updateText)
	if err != nil {
		return nil, fmt.Errorf("worldupdate: generated SPARQL UPDATE was unparsable: %w", err)
	}
	if err := e.bridge.ApplyTriples(ctx, del, ins); err != nil {
		return nil, fmt.Errorf("worldupdate: apply update through bridge: %w", err)
	}

	elapsed := time.Since(start).Seconds()
	log := &ActionLog{
		ActionNumber:  version,
		CorrelationID: correlationID,
		Timestamp:     start.Format(time.RFC3339),
		Action: &ActionDetail{
			Raw:          actionRaw,
			Type:         "move",
			Robot:        move.Robot,
			FromLocation: move.FromLocation,
			ToLocation:   move.ToLocation,
		},
		Updates: &Updates{
			SparqlEndpoint: "in-process",
			Relationships: RelationshipSummary{
				Removed: len(removed),
				Added:   len(added),
				Changed: RobotLocationChange{
					Robot: move.Robot,
					From:  move.FromLocation,
					To:    move.ToLocation,
				},
			},
		},
		Performance: Performance{
			ElapsedSeconds:    roundTo3(elapsed),
			ElapsedFormatted:  fmt.Sprintf("%.3fs", elapsed),
		},
		Status: "success",
	}
	log.Updates.TTLFiles.Original = TTLFileSet{Dynamic: filepath.Base(prevDynamic), Static: filepath.Base(prevStatic)}
	log.Updates.TTLFiles.Updated = TTLFileSet{Dynamic: filepath.Base(newDynamic), Static: filepath.Base(newStatic)}

	if err := writeLog(e.logDir, log); err != nil {
		return nil, err
	}
	logging.WorldUpdate("action %d (%s) applied: %s %s -> %s (%d removed, %d added, %.3fs)",
		version, correlationID, move.Robot, move.FromLocation, move.ToLocation, len(removed), len(added), elapsed)
	return log, nil
}

func (e *Executor) writeFailureLog(number int, correlationID string, start time.Time, actionRaw string, cause error) {
	elapsed := time.Since(start).Seconds()
	log := &ActionLog{
		ActionNumber:  number,
		CorrelationID: correlationID,
		Timestamp:     start.Format(time.RFC3339),
		ActionErr:     &ActionError{Raw: actionRaw, Error: cause.Error()},
		Performance: Performance{
			ElapsedSeconds:   roundTo3(elapsed),
			ElapsedFormatted: fmt.Sprintf("%.3fs", elapsed),
		},
		Status:    "failed",
		ErrorType: errorType(cause),
	}
	if err := writeLog(e.logDir, log); err != nil {
		logging.WorldUpdateError("failed to write failure log for action %d (%s): %v", number, correlationID, err)
	}
	logging.WorldUpdateError("action %d (%s) failed: %v", number, correlationID, cause)
}

func (e *Executor) snapshotPath(baseName string, version int) string {
	return filepath.Join(e.worldDir, fmt.Sprintf("%s_%d.ttl", baseName, version))
}

func errorType(err error) string {
	var invalidAction *InvalidActionError
	var unsupportedAction *UnsupportedActionError
	var missingSnapshot *MissingSnapshotError
	var ambiguousRewrite *ttl.TtlRewriteAmbiguousError
	var unsupportedShape *sparql.UnsupportedSparqlShapeError
	switch {
	case errors.As(err, &invalidAction):
		return "InvalidActionError"
	case errors.As(err, &unsupportedAction):
		return "UnsupportedActionError"
	case errors.As(err, &missingSnapshot):
		return "MissingSnapshotError"
	case errors.As(err, &ambiguousRewrite):
		return "TtlRewriteAmbiguousError"
	case errors.As(err, &unsupportedShape):
		return "UnsupportedSparqlShapeError"
	default:
		return "Error"
	}
}

func roundTo3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
