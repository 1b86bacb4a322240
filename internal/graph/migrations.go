package graph

import (
	"fmt"

	"ontoplan/internal/logging"
)

// Schema versions:
// v1: nodes/edges tables (classes JSON, data_props JSON, subject/property/object)
// v2: vec_index virtual table for embedding similarity search (I7)
const currentSchemaVersion = 2

// runMigrations creates the schema if absent and advances an existing
// database forward one version at a time, recording progress in
// schema_versions so a partially-migrated database resumes correctly.
func (s *Store) runMigrations() error {
	logging.GraphDebug("running graph schema migrations")

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	version := s.schemaVersion()
	for version < currentSchemaVersion {
		next := version + 1
		if err := s.migrateTo(next); err != nil {
			return fmt.Errorf("migrate to v%d: %w", next, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_versions (version) VALUES (?)", next); err != nil {
			return fmt.Errorf("record schema version %d: %w", next, err)
		}
		logging.Graph("graph schema migrated to v%d", next)
		version = next
	}
	return nil
}

func (s *Store) schemaVersion() int {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_versions ORDER BY applied_at DESC LIMIT 1").Scan(&version)
	if err != nil {
		return 0
	}
	return version
}

func (s *Store) migrateTo(version int) error {
	switch version {
	case 1:
		return s.migrateV0ToV1()
	case 2:
		return s.migrateV1ToV2()
	default:
		return fmt.Errorf("no migration defined for v%d", version)
	}
}

func (s *Store) migrateV0ToV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			classes TEXT NOT NULL,
			data_props TEXT NOT NULL DEFAULT '{}'
		);
		CREATE TABLE IF NOT EXISTS edges (
			subject  TEXT NOT NULL,
			property TEXT NOT NULL,
			object   TEXT NOT NULL,
			PRIMARY KEY (subject, property, object)
		);
		CREATE INDEX IF NOT EXISTS idx_edges_subject ON edges(subject);
		CREATE INDEX IF NOT EXISTS idx_edges_object ON edges(object);
		CREATE INDEX IF NOT EXISTS idx_edges_property ON edges(property);
	`)
	return err
}

// migrateV1ToV2 adds the vec0 virtual table embeddings are indexed into
// (internal/embedding.Attach populates it; see vec_compat.go/init_vec.go
// for the two registrations this table name resolves against depending
// on vector_mode). The dimension is unknown at migration time, so table
// creation is deferred to the first EnsureVectorIndex call rather than
// done here.
func (s *Store) migrateV1ToV2() error {
	return nil
}

// EnsureVectorIndex creates (or, if the embedding dimension changed,
// recreates) the vec0-backed similarity index. Safe to call repeatedly;
// a dimension change drops and rebuilds the index rather than leaving
// stale lower/higher-dimensional rows behind.
func (s *Store) EnsureVectorIndex(dim int) error {
	if dim <= 0 {
		return fmt.Errorf("graph: invalid embedding dimension %d", dim)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existingDim int
	err := s.db.QueryRow("SELECT dim FROM vec_index_meta LIMIT 1").Scan(&existingDim)
	if err == nil && existingDim == dim {
		return nil
	}
	if err == nil && existingDim != dim {
		logging.GraphWarn("embedding dimension changed (%d -> %d), rebuilding vector index", existingDim, dim)
		if _, err := s.db.Exec("DROP TABLE IF EXISTS vec_index"); err != nil {
			return fmt.Errorf("drop stale vec_index: %w", err)
		}
	}

	stmt := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS vec_index USING vec0(embedding float[%d], content TEXT, metadata TEXT)", dim)
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create vec_index(dim=%d): %w", dim, err)
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS vec_index_meta (dim INTEGER NOT NULL);
		DELETE FROM vec_index_meta;
	`); err != nil {
		return fmt.Errorf("record vec_index dimension: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO vec_index_meta (dim) VALUES (?)", dim); err != nil {
		return fmt.Errorf("record vec_index dimension: %w", err)
	}

	s.vecReady = true
	logging.Graph("vector index ready (dim=%d)", dim)
	return nil
}
