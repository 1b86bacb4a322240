// Package query holds the read-only lookups over the graph projection
// and the embedding binder that never touch the OWL world or the
// reasoner. Grounded on
// original_source/ontology_server/tools/graph_tools.py's GraphTools
// (get_object_info/filter_objects/find_path) and
// original_source/ontology_server/tools/semantic_tool.py's SemanticTool
// (search), reimplemented against internal/graph.Store instead of Neo4j
// Cypher/GDS and internal/embedding instead of a Neo4j vector index plus
// local numpy cosine. Every operation here may run concurrently with
// every other read and is excluded from the single writer lock that
// serializes mutating operations.
package query

import "fmt"

// UnknownSearchTypeError reports a Search call whose searchType isn't
// "category" or "description". Grounded on SemanticTool.search's
// ValueError("Invalid search_type: ...").
type UnknownSearchTypeError struct {
	SearchType string
}

func (e *UnknownSearchTypeError) Error() string {
	return fmt.Sprintf("query: unknown search_type %q, want \"category\" or \"description\"", e.SearchType)
}

// IndexMissingError reports a semantic_search call whose backing index
// (the in-memory category cache, or the graph projection's description
// vector index) hasn't been populated yet. Grounded on SemanticTool
// .search's "Category embeddings not loaded" ValueError.
type IndexMissingError struct {
	SearchType string
}

func (e *IndexMissingError) Error() string {
	return fmt.Sprintf("query: no %s embeddings attached, run the embedding binder first", e.SearchType)
}

// relationshipAliases renames a handful of projection predicates to the
// ontology-facing names callers expect, collapsing the Space/Robot split
// get_object_info.cypher papers over at the Cypher layer.
var relationshipAliases = map[string]string{
	"objectIsInSpace":    "isInSpace",
	"robotIsInSpace":     "isInSpace",
	"roomIsInStorey":     "isInStorey",
	"corridorIsInStorey": "isInStorey",
}

// normalizeRelationship maps a raw projection edge label to the name
// get_object_info/filter_objects/search return it under, or reports
// ok=false when the edge should be dropped entirely (affordance edges
// are excluded from the relationship list callers see).
func normalizeRelationship(predicate string) (name string, ok bool) {
	if predicate == "affords" {
		return "", false
	}
	if alias, found := relationshipAliases[predicate]; found {
		return alias, true
	}
	return predicate, true
}
