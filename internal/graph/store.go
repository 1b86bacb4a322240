// Package graph is the labeled-property-graph projection the reasoner's
// entailed model is materialized into. Every individual
// becomes a node carrying the full set of indirect classes the reasoner
// derived for it (I2); every entailed object-property tuple becomes an
// edge labeled with the property name (I3). The projection is rebuilt
// wholesale on every Sync — there is no incremental diffing against the
// reasoner's output, matching the full delete-then-recreate discipline
// the knowledge store's Sync operation is specified to follow.
package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"ontoplan/internal/config"
	"ontoplan/internal/logging"
	"ontoplan/internal/ontology"
)

// Node is a projected individual: its stable ID, every indirect class the
// reasoner entailed for it, and its asserted data properties.
type Node struct {
	ID         string
	Classes    []string
	DataProps  map[string]interface{}
}

// Edge is a projected object-property tuple.
type Edge struct {
	Subject  string
	Property string
	Object   string
}

// Store is the SQLite-backed graph projection. One Store owns one
// database file; all methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	db       *sql.DB
	cgo      bool
	vecReady bool
}

// NewStore opens (and, if necessary, creates and migrates) the graph
// database named by cfg. VectorMode selects the SQLite driver: "cgo"
// opens through the mattn/go-sqlite3 cgo driver (paired with the
// sqlite-vec extension when the binary is built with the sqlite_vec
// build tag), "fallback" opens through the pure-Go modernc.org/sqlite
// driver (paired with the in-process vec0 compatibility shim in this
// package's vec_compat.go).
func NewStore(cfg config.GraphConfig) (*Store, error) {
	driverName := "sqlite"
	cgo := false
	switch cfg.VectorMode {
	case "cgo":
		driverName = "sqlite3"
		cgo = true
	case "fallback", "":
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("graph: unknown vector_mode %q", cfg.VectorMode)
	}

	db, err := sql.Open(driverName, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s (driver=%s): %w", cfg.DatabasePath, driverName, err)
	}
	db.SetMaxOpenConns(1) // SQLite: one writer at a time, enforced at the driver boundary too.

	s := &Store{db: db, cgo: cgo}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("graph: migrate %s: %w", cfg.DatabasePath, err)
	}
	logging.Graph("opened graph store %s (driver=%s, vector_mode=%s)", cfg.DatabasePath, driverName, cfg.VectorMode)
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sync implements ontology.Projector: it replaces the entire projection
// with the nodes/edges derived from model in a single transaction, so a
// reader never observes a partially-rebuilt graph.
func (s *Store) Sync(ctx context.Context, model *ontology.ReasonedModel) (ontology.SyncStats, error) {
	timer := logging.StartTimer(logging.CategoryGraph, "Sync")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ontology.SyncStats{}, fmt.Errorf("graph: begin sync tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return ontology.SyncStats{}, fmt.Errorf("graph: clear nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return ontology.SyncStats{}, fmt.Errorf("graph: clear edges: %w", err)
	}

	nodeCount := 0
	for id, classes := range model.Types {
		sorted := append([]string(nil), classes...)
		sort.Strings(sorted)
		classesJSON, err := json.Marshal(sorted)
		if err != nil {
			return ontology.SyncStats{}, fmt.Errorf("graph: marshal classes for %s: %w", id, err)
		}
		dataJSON, err := json.Marshal(model.DataProps[id])
		if err != nil {
			return ontology.SyncStats{}, fmt.Errorf("graph: marshal data props for %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (id, classes, data_props) VALUES (?, ?, ?)`,
			id, string(classesJSON), string(dataJSON),
		); err != nil {
			return ontology.SyncStats{}, fmt.Errorf("graph: insert node %s: %w", id, err)
		}
		nodeCount++
	}

	edgeCount := 0
	for _, rel := range model.Relationships {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (subject, property, object) VALUES (?, ?, ?)`,
			rel.Subject, rel.Property, rel.Object,
		); err != nil {
			return ontology.SyncStats{}, fmt.Errorf("graph: insert edge %s-%s->%s: %w", rel.Subject, rel.Property, rel.Object, err)
		}
		edgeCount++
	}

	if err := tx.Commit(); err != nil {
		return ontology.SyncStats{}, fmt.Errorf("graph: commit sync tx: %w", err)
	}

	logging.Graph("sync complete: nodes=%d edges=%d", nodeCount, edgeCount)
	return ontology.SyncStats{Individuals: nodeCount, Relationships: edgeCount}, nil
}

// GetNode returns a single projected node by ID.
func (s *Store) GetNode(id string) (Node, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var classesJSON, dataJSON string
	err := s.db.QueryRow("SELECT classes, data_props FROM nodes WHERE id = ?", id).Scan(&classesJSON, &dataJSON)
	if err == sql.ErrNoRows {
		return Node{}, false, nil
	}
	if err != nil {
		return Node{}, false, fmt.Errorf("graph: get node %s: %w", id, err)
	}

	n := Node{ID: id}
	if err := json.Unmarshal([]byte(classesJSON), &n.Classes); err != nil {
		logging.GraphWarn("node %s: malformed classes column: %v", id, err)
	}
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &n.DataProps); err != nil {
			logging.GraphWarn("node %s: malformed data_props column: %v", id, err)
		}
	}
	return n, true, nil
}

// NodesWithClass returns every node carrying class among its indirect
// classes, ordered by ID for deterministic iteration.
func (s *Store) NodesWithClass(class string) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, classes, data_props FROM nodes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("graph: scan nodes for class %s: %w", class, err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		var id, classesJSON, dataJSON string
		if err := rows.Scan(&id, &classesJSON, &dataJSON); err != nil {
			continue
		}
		var classes []string
		if err := json.Unmarshal([]byte(classesJSON), &classes); err != nil {
			continue
		}
		if !containsString(classes, class) {
			continue
		}
		n := Node{ID: id, Classes: classes}
		if dataJSON != "" {
			_ = json.Unmarshal([]byte(dataJSON), &n.DataProps)
		}
		out = append(out, n)
	}
	return out, nil
}

// AllNodes returns every projected node, ordered by ID for deterministic
// iteration. Grounded on NodesWithClass, minus its class filter:
// filter_objects needs the unfiltered scan when the caller passes no
// class_name.
func (s *Store) AllNodes() ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, classes, data_props FROM nodes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("graph: scan all nodes: %w", err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		var id, classesJSON, dataJSON string
		if err := rows.Scan(&id, &classesJSON, &dataJSON); err != nil {
			continue
		}
		var classes []string
		if err := json.Unmarshal([]byte(classesJSON), &classes); err != nil {
			continue
		}
		n := Node{ID: id, Classes: classes}
		if dataJSON != "" {
			_ = json.Unmarshal([]byte(dataJSON), &n.DataProps)
		}
		out = append(out, n)
	}
	return out, nil
}

func containsString(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
