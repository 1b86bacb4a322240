package graph

import (
	"fmt"

	"ontoplan/internal/logging"
)

// QueryEdges retrieves the edges touching entity. direction is one of
// "outgoing", "incoming", or "both" (the default for any other value).
func (s *Store) QueryEdges(entity string, direction string) ([]Edge, error) {
	timer := logging.StartTimer(logging.CategoryGraph, "QueryEdges")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEdgesLocked(entity, direction)
}

// queryEdgesLocked assumes the caller already holds at least s.mu.RLock().
// TraversePath relies on this to avoid a nested RLock acquisition, which can
// deadlock against a pending writer.
func (s *Store) queryEdgesLocked(entity string, direction string) ([]Edge, error) {
	var query string
	switch direction {
	case "outgoing":
		query = "SELECT subject, property, object FROM edges WHERE subject = ?"
	case "incoming":
		query = "SELECT subject, property, object FROM edges WHERE object = ?"
	default:
		query = "SELECT subject, property, object FROM edges WHERE subject = ? OR object = ?"
	}

	var args []interface{}
	if direction == "outgoing" || direction == "incoming" {
		args = []interface{}{entity}
	} else {
		args = []interface{}{entity, entity}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("graph: query edges for %s: %w", entity, err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.Subject, &e.Property, &e.Object); err != nil {
			logging.GraphWarn("edge row scan failed: %v", err)
			continue
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// TraversePath finds a path between two entities via BFS, optionally
// restricted to edges labeled property (pass "" to follow any edge). PDDL
// problem synthesis uses the property-restricted form to build hasPathTo
// connectivity facts without following unrelated relationships.
func (s *Store) TraversePath(from, to string, maxDepth int, property string) ([]Edge, error) {
	timer := logging.StartTimer(logging.CategoryGraph, "TraversePath")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if maxDepth <= 0 {
		maxDepth = 10
	}

	type queueItem struct {
		entity string
		depth  int
	}

	cameFrom := make(map[string]*Edge)
	queue := []queueItem{{entity: from, depth: 0}}
	cameFrom[from] = nil

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.entity == to {
			path := make([]Edge, current.depth)
			curr := to
			for i := current.depth - 1; i >= 0; i-- {
				edge := cameFrom[curr]
				if edge == nil {
					break
				}
				path[i] = *edge
				curr = edge.Subject
			}
			return path, nil
		}

		if current.depth >= maxDepth {
			continue
		}

		edges, err := s.queryEdgesLocked(current.entity, "outgoing")
		if err != nil {
			continue
		}

		for _, e := range edges {
			if property != "" && e.Property != property {
				continue
			}
			if _, visited := cameFrom[e.Object]; !visited {
				edgeCopy := e
				cameFrom[e.Object] = &edgeCopy
				queue = append(queue, queueItem{entity: e.Object, depth: current.depth + 1})
			}
		}
	}

	return nil, fmt.Errorf("no path found from %s to %s", from, to)
}

// DeleteEdgesBetween removes every edge, in either direction and under any
// property label, between a and b. Used by the SPARQL bridge to
// proactively clear a stale edge before the reasoner runs, since the
// reasoner only adds entailments to the projection, it never retracts
// one.
func (s *Store) DeleteEdgesBetween(a, b string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM edges WHERE (subject = ? AND object = ?) OR (subject = ? AND object = ?)`,
		a, b, b, a,
	)
	if err != nil {
		return 0, fmt.Errorf("graph: delete edges between %s and %s: %w", a, b, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Reachable returns every node reachable from start by following only
// edges labeled property, up to maxDepth hops (start included).
func (s *Store) Reachable(start string, property string, maxDepth int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if maxDepth <= 0 {
		maxDepth = 10
	}

	visited := map[string]bool{start: true}
	queue := []struct {
		entity string
		depth  int
	}{{start, 0}}
	order := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth >= maxDepth {
			continue
		}
		edges, err := s.queryEdgesLocked(current.entity, "outgoing")
		if err != nil {
			continue
		}
		for _, e := range edges {
			if e.Property != property || visited[e.Object] {
				continue
			}
			visited[e.Object] = true
			order = append(order, e.Object)
			queue = append(queue, struct {
				entity string
				depth  int
			}{e.Object, current.depth + 1})
		}
	}
	return order, nil
}
