package api

import (
	"net/http"

	"ontoplan/internal/logging"
	"ontoplan/internal/ttl"
)

type loadTTLRequest struct {
	FilePath string `json:"file_path"`
}

// handleLoadTTL implements POST /load_ttl: bulk-add every individual
// asserted in the given TTL file, one reasoning pass for the whole file.
// Grounded on api.py's load_ttl, which 400s when file_path is missing and
// surfaces a parse failure as a 400 rather than a 500: a malformed input
// file fails the operation outright and leaves the store unchanged.
func (s *Server) handleLoadTTL(w http.ResponseWriter, r *http.Request) {
	var req loadTTLRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, errFilePathRequired)
		return
	}

	items, err := ttl.ToIndividuals(req.FilePath)
	if err != nil {
		logging.APIWarn("load_ttl %s: parse failed: %v", req.FilePath, err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	added, failed, err := s.onto.LoadFromTTL(r.Context(), req.FilePath, items)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Status: "success", Added: added, Failed: failed})
}

// handleSync implements POST /sync: force a reasoner pass plus a full
// projection/embedding resync, outside the automatic post-mutation sync
// every add/update/delete/sparql-update already triggers. Grounded on
// api.py's sync_ontology.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	stats, err := s.onto.Sync(r.Context(), false)
	if err != nil {
		logging.APIError("manual sync failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Status:        "success",
		Individuals:   stats.Individuals,
		Relationships: stats.Relationships,
	})
}

type syncResponse struct {
	Status        string `json:"status"`
	Individuals   int    `json:"individuals_count"`
	Relationships int    `json:"relationships_count"`
}
