package query

import (
	"fmt"

	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
)

// spaceLocatingRelationships are the outgoing edges FindPath follows to
// resolve a non-Space id (an Artifact or a Robot) to the Space that
// contains it, mirroring get_object_info's isInSpace-family normalization
// applied in reverse.
var spaceLocatingRelationships = []string{"objectIsInSpace", "robotIsInSpace", "isInSpace"}

// PathStep is one hop of a found path: its position and the entity id
// reached at that position.
type PathStep struct {
	Index int
	ID    string
}

// PathResult is find_path's result shape: the full node sequence from
// origin to destination, the hop count, and the node count. Grounded on
// GraphTools.find_path's `{"path": [...], "cost": ..., "num_nodes": ...}`.
type PathResult struct {
	Path     []PathStep
	Cost     int
	NumNodes int
}

// NoPathError reports that from and to are not connected in the
// hasPathTo-labeled spatial subgraph, or that either endpoint is missing
// from the projection or has no known location, matching find_path's
// "no path found" None return collapsed into an explicit error.
type NoPathError struct {
	From, To string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("query: no path found from %s to %s", e.From, e.To)
}

// FindPath resolves fromID/toID to their containing Space (if either names
// an Artifact or Robot rather than a Space/Door directly) and returns the
// shortest hasPathTo route between the two spaces, each hop counted at
// unit weight (the spatialGraph GDS projection's uniform weight 1.0).
func FindPath(store *graph.Store, fromID, toID string) (*PathResult, error) {
	timer := logging.StartTimer(logging.CategoryQuery, "FindPath")
	defer timer.Stop()

	fromSpace, err := resolveSpace(store, fromID)
	if err != nil {
		return nil, err
	}
	toSpace, err := resolveSpace(store, toID)
	if err != nil {
		return nil, err
	}
	if fromSpace == "" || toSpace == "" {
		return nil, &NoPathError{From: fromID, To: toID}
	}

	edges, err := store.TraversePath(fromSpace, toSpace, 0, "hasPathTo")
	if err != nil {
		logging.QueryWarn("find_path: no route from %s (%s) to %s (%s)", fromID, fromSpace, toID, toSpace)
		return nil, &NoPathError{From: fromID, To: toID}
	}

	path := make([]PathStep, 0, len(edges)+1)
	path = append(path, PathStep{Index: 0, ID: fromSpace})
	for i, e := range edges {
		path = append(path, PathStep{Index: i + 1, ID: e.Object})
	}

	return &PathResult{
		Path:     path,
		Cost:     len(edges),
		NumNodes: len(path),
	}, nil
}

// resolveSpace returns id unchanged if it already names a Space or Door,
// otherwise follows its isInSpace-family outgoing edge to find the space
// containing it. It returns "" with a nil error when id is not in the
// projection or has no such edge.
func resolveSpace(store *graph.Store, id string) (string, error) {
	node, ok, err := store.GetNode(id)
	if err != nil {
		return "", fmt.Errorf("query: find_path resolve %s: %w", id, err)
	}
	if !ok {
		logging.QueryWarn("find_path: %s not found in projection", id)
		return "", nil
	}
	for _, class := range node.Classes {
		if class == "Space" || class == "Door" {
			return id, nil
		}
	}

	edges, err := store.QueryEdges(id, "outgoing")
	if err != nil {
		return "", fmt.Errorf("query: find_path locate %s: %w", id, err)
	}
	for _, e := range edges {
		for _, rel := range spaceLocatingRelationships {
			if e.Property == rel {
				return e.Object, nil
			}
		}
	}
	logging.QueryWarn("find_path: %s has no known location", id)
	return "", nil
}
