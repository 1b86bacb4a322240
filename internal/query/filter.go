package query

import (
	"fmt"

	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
)

// Filter narrows filter_objects' candidate set. Every non-empty field is a
// conjunctive constraint, mirroring GraphTools.filter_objects' dynamically
// built Cypher WHERE/MATCH clauses: ClassName selects on labels(obj),
// Category on obj.category, DataProperties on obj.<key>, and Relationships
// requires a matching outgoing edge of each named type to the given target
// id.
type Filter struct {
	ClassName      string
	Category       string
	DataProperties map[string]interface{}
	Relationships  map[string]string
}

// FilterObjects returns every node in store satisfying f, ordered by ID
// (matching filter_objects' `ORDER BY obj.id`).
func FilterObjects(store *graph.Store, f Filter) ([]*ObjectInfo, error) {
	timer := logging.StartTimer(logging.CategoryQuery, "FilterObjects")
	defer timer.Stop()

	var candidates []graph.Node
	var err error
	if f.ClassName != "" {
		candidates, err = store.NodesWithClass(f.ClassName)
	} else {
		candidates, err = store.AllNodes()
	}
	if err != nil {
		return nil, fmt.Errorf("query: filter_objects: %w", err)
	}

	out := make([]*ObjectInfo, 0, len(candidates))
	for _, node := range candidates {
		if f.Category != "" {
			cat, ok := node.DataProps["category"].(string)
			if !ok || cat != f.Category {
				continue
			}
		}
		if !matchesDataProperties(node, f.DataProperties) {
			continue
		}
		matched, err := matchesRelationships(store, node.ID, f.Relationships)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		edges, err := store.QueryEdges(node.ID, "outgoing")
		if err != nil {
			return nil, fmt.Errorf("query: filter_objects relationships for %s: %w", node.ID, err)
		}
		out = append(out, buildObjectInfo(node, edges))
	}
	logging.QueryDebug("filter_objects: %d candidates, %d matched", len(candidates), len(out))
	return out, nil
}

func matchesDataProperties(node graph.Node, want map[string]interface{}) bool {
	for key, wantVal := range want {
		got, ok := node.DataProps[key]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", wantVal) {
			return false
		}
	}
	return true
}

// matchesRelationships reports whether node has, for every entry in want
// (relationship type -> required target id), at least one matching
// outgoing edge. Grounded on filter_objects' per-relationship
// `MATCH (obj)-[:<rel_type>]->(n:Individual {id: $rel_<rel_type>})` clause.
func matchesRelationships(store *graph.Store, id string, want map[string]string) (bool, error) {
	if len(want) == 0 {
		return true, nil
	}
	edges, err := store.QueryEdges(id, "outgoing")
	if err != nil {
		return false, fmt.Errorf("query: filter_objects relationship check for %s: %w", id, err)
	}
	for relType, target := range want {
		found := false
		for _, e := range edges {
			if e.Property == relType && e.Object == target {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}
