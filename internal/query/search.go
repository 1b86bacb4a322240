package query

import (
	"context"
	"fmt"

	"ontoplan/internal/embedding"
	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
)

// CategoryResult is one hit from a "category" search: the matched category
// string and its cosine similarity to the query. Grounded on
// SemanticTool.search's category branch, which returns bare category name
// strings rather than full objects.
type CategoryResult struct {
	Category   string
	Similarity float64
}

// DescriptionResult is one hit from a "description" search: the matched
// object's normalized info plus its similarity score. Grounded on
// SemanticTool.search's description branch, which attaches a "similarity"
// field to each returned relationship dict.
type DescriptionResult struct {
	*ObjectInfo
	Similarity float64
}

// Searcher answers semantic_search requests. It needs an embedding
// engine to embed the raw query text, a binder for the in-process
// category index, and the graph store for the description vector index
// and relationship lookups.
type Searcher struct {
	engine embedding.EmbeddingEngine
	binder *embedding.Binder
	store  *graph.Store
}

// NewSearcher constructs a Searcher. binder may be nil if category search
// will never be used; store may be nil if description search will never
// be used.
func NewSearcher(engine embedding.EmbeddingEngine, binder *embedding.Binder, store *graph.Store) *Searcher {
	return &Searcher{engine: engine, binder: binder, store: store}
}

// SearchCategory returns the topK categories whose embedding is nearest
// the query, most similar first.
func (s *Searcher) SearchCategory(ctx context.Context, query string, topK int) ([]CategoryResult, error) {
	timer := logging.StartTimer(logging.CategoryQuery, "SearchCategory")
	defer timer.Stop()

	if s.binder == nil {
		return nil, &IndexMissingError{SearchType: "category"}
	}
	matches, err := s.binder.SearchCategory(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("query: search category: %w", err)
	}
	out := make([]CategoryResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, CategoryResult{Category: m.Category, Similarity: m.Similarity})
	}
	logging.QueryDebug("semantic_search(category): %d matches for top_k=%d", len(out), topK)
	return out, nil
}

// SearchDescription returns the topK objects whose description embedding
// is nearest the query, most similar first. Cosine distance (0=identical,
// 2=opposite) is converted to a [0,1] similarity score via 1 - distance/2;
// the vector index's ascending-distance ordering already corresponds to
// descending similarity, so no additional sort is needed.
func (s *Searcher) SearchDescription(ctx context.Context, query string, topK int) ([]DescriptionResult, error) {
	timer := logging.StartTimer(logging.CategoryQuery, "SearchDescription")
	defer timer.Stop()

	if s.store == nil {
		return nil, &IndexMissingError{SearchType: "description"}
	}
	queryVec, err := embedding.EmbedForRole(ctx, s.engine, embedding.RoleSearchQuery, query)
	if err != nil {
		return nil, fmt.Errorf("query: embed description query: %w", err)
	}

	scored, err := s.store.SearchDescription(queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("query: search description: %w", err)
	}

	out := make([]DescriptionResult, 0, len(scored))
	for _, sn := range scored {
		info, err := objectInfoFor(s.store, sn.ID)
		if err != nil {
			return nil, err
		}
		if info == nil {
			continue
		}
		out = append(out, DescriptionResult{
			ObjectInfo: info,
			Similarity: 1 - sn.Distance/2,
		})
	}
	logging.QueryDebug("semantic_search(description): %d matches for top_k=%d", len(out), topK)
	return out, nil
}

// Search dispatches to SearchCategory or SearchDescription by searchType,
// matching SemanticTool.search's single entry point. Since the two search
// types return different shapes (category names vs. scored objects), the
// result is returned as two possibly-nil slices; callers switch on
// searchType to know which one is populated.
func (s *Searcher) Search(ctx context.Context, query string, topK int, searchType string) ([]CategoryResult, []DescriptionResult, error) {
	switch searchType {
	case "category":
		results, err := s.SearchCategory(ctx, query, topK)
		return results, nil, err
	case "description":
		results, err := s.SearchDescription(ctx, query, topK)
		return nil, results, err
	default:
		return nil, nil, &UnknownSearchTypeError{SearchType: searchType}
	}
}
