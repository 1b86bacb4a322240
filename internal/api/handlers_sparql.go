package api

import (
	"net/http"

	"ontoplan/internal/logging"
	"ontoplan/internal/ontology"
)

type sparqlSelectRequest struct {
	Query string `json:"query"`
}

var cellKindNames = map[ontology.CellKind]string{
	ontology.CellLiteral:    "literal",
	ontology.CellIndividual: "individual",
	ontology.CellIRI:        "iri",
}

type sparqlCell struct {
	Kind  string `json:"type"`
	Value string `json:"value"`
}

type sparqlSelectResponse struct {
	Status  string                   `json:"status"`
	Count   int                      `json:"count"`
	Results []map[string]sparqlCell `json:"results"`
}

// handleSparqlSelect implements POST /sparql: a SELECT query, each result
// cell tagged individual/iri/literal. Grounded on api.py's sparql_query,
// which runs the query against the live ontology and classifies every
// cell the same way.
func (s *Server) handleSparqlSelect(w http.ResponseWriter, r *http.Request) {
	var req sparqlSelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rows, err := s.onto.ExecuteSparqlSelect(r.Context(), req.Query)
	if err != nil {
		logging.APIWarn("sparql select failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]map[string]sparqlCell, 0, len(rows))
	for _, row := range rows {
		conv := make(map[string]sparqlCell, len(row))
		for k, cell := range row {
			conv[k] = sparqlCell{Kind: cellKindNames[cell.Kind], Value: cell.Value}
		}
		out = append(out, conv)
	}
	writeJSON(w, http.StatusOK, sparqlSelectResponse{Status: "success", Count: len(out), Results: out})
}

type sparqlUpdateRequest struct {
	Update string `json:"update"`
}

// handleSparqlUpdate implements POST /sparql/update: parse and apply a
// DELETE/INSERT/WHERE block via the SPARQL bridge, which itself deletes
// the stale projection edges, reruns the reasoner, and re-projects —
// retracting an asserted fact can strand inferred edges that depended on
// it, so the whole projection is rebuilt rather than patched in place.
// Grounded on api.py's sparql_update — the most elaborate handler in the
// Python original, reduced here to a single Bridge.Apply call since the
// bridge already does the line-scanning, graph-store cleanup, and
// reasoner-rerun work api.py did inline.
func (s *Server) handleSparqlUpdate(w http.ResponseWriter, r *http.Request) {
	var req sparqlUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.bridge.Apply(r.Context(), req.Update); err != nil {
		logging.APIWarn("sparql update failed: %v", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Status: "success", Message: "update applied"})
}
