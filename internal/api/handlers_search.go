package api

import (
	"net/http"

	"ontoplan/internal/logging"
)

type semanticSearchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	SearchType string `json:"search_type"`
}

type semanticSearchResult struct {
	ID          string                 `json:"id,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Classes     []string               `json:"types,omitempty"`
	Description map[string]interface{} `json:"description,omitempty"`
	Score       float64                `json:"score"`
}

type semanticSearchResponse struct {
	Status     string                 `json:"status"`
	Query      string                 `json:"query"`
	SearchType string                 `json:"search_type"`
	Count      int                    `json:"count"`
	Results    []semanticSearchResult `json:"results"`
}

// handleSemanticSearch implements POST /semantic_search, the original
// FastAPI router's one query endpoint. Grounded on api.py's
// semantic_search, which selects a category or description vector index
// by search_type and runs the similarity query. Each result's type list is
// the node's Classes exactly as the projection stores them; projection
// nodes carry no "Individual" label, so nothing is stripped.
func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticSearchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}
	if req.SearchType == "" {
		req.SearchType = "description"
	}

	categories, objects, err := s.searcher.Search(r.Context(), req.Query, req.TopK, req.SearchType)
	if err != nil {
		logging.APIWarn("semantic_search failed: %v", err)
		writeError(w, statusForError(err), err)
		return
	}

	var results []semanticSearchResult
	switch req.SearchType {
	case "category":
		for _, c := range categories {
			results = append(results, semanticSearchResult{Category: c.Category, Score: c.Similarity})
		}
	case "description":
		for _, o := range objects {
			category, _ := o.DataProperties["category"].(string)
			results = append(results, semanticSearchResult{
				ID:          o.ID,
				Category:    category,
				Classes:     o.Classes,
				Description: o.DataProperties,
				Score:       o.Similarity,
			})
		}
	}

	writeJSON(w, http.StatusOK, semanticSearchResponse{
		Status:     "success",
		Query:      req.Query,
		SearchType: req.SearchType,
		Count:      len(results),
		Results:    results,
	})
}
