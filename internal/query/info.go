package query

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
)

// excludedDataProps never appear in an ObjectInfo's DataProperties: uri and
// name are projection bookkeeping, not ontology content, and the embedding
// vectors are binary payloads nobody reading object info wants to see.
// Grounded on GraphTools.get_object_info's
// `{k: v for k, v in properties(obj).items() if k not in ["uri", "name", "category_embedding", "description_embedding"]}`.
var excludedDataProps = map[string]bool{
	"uri":  true,
	"name": true,

	"category_embedding":    true,
	"description_embedding": true,
}

// ObjectInfo is one projected individual's normalized view: its asserted
// data properties plus its outgoing relationships, collapsed the way
// GraphTools.get_object_info collapses a Cypher result row's relationship
// list into a dict (a repeated relationship type becomes a list of
// targets; a single occurrence stays a bare string).
type ObjectInfo struct {
	ID             string
	Classes        []string
	DataProperties map[string]interface{}
	Relationships  map[string]interface{}
}

// GetObjectInfo returns the normalized info for every id present in the
// projection, in the order given. An id absent from the projection is
// simply omitted from the result, matching get_object_info's per-id
// "None if not found" behavior folded into a slice instead of a
// single-vs-list union type.
//
// Per-id lookups are independent reads against the same store, so they
// run concurrently through an errgroup rather than one at a time; each
// result is written to its own slot so the output preserves the order
// ids were given in regardless of which goroutine finishes first.
func GetObjectInfo(store *graph.Store, ids []string) ([]*ObjectInfo, error) {
	timer := logging.StartTimer(logging.CategoryQuery, "GetObjectInfo")
	defer timer.Stop()

	slots := make([]*ObjectInfo, len(ids))
	var eg errgroup.Group
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			info, err := objectInfoFor(store, id)
			if err != nil {
				return err
			}
			slots[i] = info
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]*ObjectInfo, 0, len(ids))
	for i, info := range slots {
		if info == nil {
			logging.QueryDebug("get_object_info: %s not found in projection", ids[i])
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func objectInfoFor(store *graph.Store, id string) (*ObjectInfo, error) {
	node, ok, err := store.GetNode(id)
	if err != nil {
		return nil, fmt.Errorf("query: get object info for %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}

	edges, err := store.QueryEdges(id, "outgoing")
	if err != nil {
		return nil, fmt.Errorf("query: get relationships for %s: %w", id, err)
	}

	return buildObjectInfo(node, edges), nil
}

// buildObjectInfo assembles one ObjectInfo from a node and its outgoing
// edges, applying the exclusion/rename/collapse rules shared by
// get_object_info, filter_objects, and description search.
func buildObjectInfo(node graph.Node, edges []graph.Edge) *ObjectInfo {
	info := &ObjectInfo{
		ID:             node.ID,
		Classes:        node.Classes,
		DataProperties: make(map[string]interface{}),
		Relationships:  make(map[string]interface{}),
	}
	for k, v := range node.DataProps {
		if excludedDataProps[k] {
			continue
		}
		info.DataProperties[k] = v
	}
	for _, e := range edges {
		name, keep := normalizeRelationship(e.Property)
		if !keep {
			continue
		}
		addRelationship(info.Relationships, name, e.Object)
	}
	return info
}

// addRelationship inserts target under name, promoting a prior scalar
// value to a one-element list on the second write and appending to an
// existing list on subsequent writes, mirroring get_object_info's
// "if rel_type in relationships: ... turn into a list" logic. A target
// already recorded under name is not added twice: the reasoner entails a
// sub-property's edge under its super-property as well (e.g. isInSpace
// under objectIsInSpace), and both normalize to the same exposed name, so
// without this check every such edge would appear to repeat.
func addRelationship(relationships map[string]interface{}, name, target string) {
	existing, ok := relationships[name]
	if !ok {
		relationships[name] = target
		return
	}
	switch v := existing.(type) {
	case string:
		if v == target {
			return
		}
		relationships[name] = []string{v, target}
	case []string:
		for _, have := range v {
			if have == target {
				return
			}
		}
		relationships[name] = append(v, target)
	}
}
