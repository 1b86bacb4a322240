package graph

import (
	"encoding/json"
	"fmt"

	"ontoplan/internal/logging"
)

// ScoredNode is a single vec_index hit: the individual ID and its cosine
// distance to the query vector (0 = identical, 2 = opposite).
type ScoredNode struct {
	ID       string
	Distance float64
}

// UpsertEmbedding writes (or replaces) an individual's description
// embedding in the vector index. EnsureVectorIndex must have been called
// for this dimension first.
func (s *Store) UpsertEmbedding(id string, vec []float32) error {
	if !s.vecReady {
		return fmt.Errorf("graph: vector index not initialized, call EnsureVectorIndex first")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob := encodeFloat32Slice(vec)
	meta, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("graph: marshal embedding metadata for %s: %w", id, err)
	}

	// vec0 rows are keyed by rowid, not individual ID; delete any prior row
	// for this individual before inserting so re-embedding doesn't duplicate it.
	if _, err := s.db.Exec("DELETE FROM vec_index WHERE content = ?", id); err != nil {
		logging.GraphWarn("failed to clear prior embedding for %s: %v", id, err)
	}
	if _, err := s.db.Exec(
		"INSERT INTO vec_index (embedding, content, metadata) VALUES (?, ?, ?)",
		blob, id, string(meta),
	); err != nil {
		return fmt.Errorf("graph: upsert embedding for %s: %w", id, err)
	}
	return nil
}

// SearchDescription returns the topK individuals whose description
// embedding is nearest to query, ordered nearest-first. Works identically
// whether vector_mode is "cgo" (real sqlite-vec ANN) or "fallback" (this
// package's in-process vec0 shim plus a brute-force cosine scan) — both
// register a vec_distance_cosine scalar function against the vec_index
// virtual table.
func (s *Store) SearchDescription(query []float32, topK int) ([]ScoredNode, error) {
	if !s.vecReady {
		return nil, fmt.Errorf("graph: vector index not initialized")
	}
	if topK <= 0 {
		topK = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	blob := encodeFloat32Slice(query)
	rows, err := s.db.Query(
		"SELECT content, vec_distance_cosine(embedding, ?) AS dist FROM vec_index ORDER BY dist ASC LIMIT ?",
		blob, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("graph: search description embeddings: %w", err)
	}
	defer rows.Close()

	var out []ScoredNode
	for rows.Next() {
		var sn ScoredNode
		if err := rows.Scan(&sn.ID, &sn.Distance); err != nil {
			continue
		}
		out = append(out, sn)
	}
	return out, nil
}
