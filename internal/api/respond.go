package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ontoplan/internal/ontology"
	"ontoplan/internal/query"
	"ontoplan/internal/sparql"
	"ontoplan/internal/ttl"

	"ontoplan/internal/logging"
)

// errFilePathRequired is returned by handleLoadTTL when the request body
// omits file_path, matching api.py's 400 "file_path is required".
var errFilePathRequired = errors.New("file_path is required")

// errorResponse is the JSON shape every failed request gets, mirroring
// api.py's HTTPException(status_code, detail) body of {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.APIError("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

// statusForError classifies err by kind and returns the HTTP status
// api.py uses for the equivalent condition: 400 for a rejected/malformed
// request, 404 for a missing individual, 500 for a reasoner or
// projection failure.
func statusForError(err error) int {
	var (
		dup        *ontology.DuplicateIndividualError
		unknownCls *ontology.UnknownClassError
		notFound   *ontology.NotFoundError
		badShape   *sparql.UnsupportedSparqlShapeError
		ambiguous  *ttl.TtlRewriteAmbiguousError
		noIndex    *query.IndexMissingError
		badSearch  *query.UnknownSearchTypeError
		noPath     *query.NoPathError
	)
	switch {
	case errors.As(err, &dup), errors.As(err, &unknownCls), errors.As(err, &badShape),
		errors.As(err, &ambiguous), errors.As(err, &badSearch):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &noPath):
		return http.StatusNotFound
	case errors.As(err, &noIndex):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody JSON-decodes r's body into v, reporting a 400-worthy error
// on malformed JSON rather than letting the handler panic or fall
// through with a zero-valued request.
func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
