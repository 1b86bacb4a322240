package api

import (
	"net/http"

	"ontoplan/internal/query"
)

// These three handlers expose the read-only query operations
// (get_object_info, filter_objects, find_path) over HTTP, alongside the
// semantic_search endpoint the original FastAPI router names explicitly.
// Those three have no Python FastAPI counterpart, only a CLI tool
// (ontology_server/cli/query_tools.py); DESIGN.md records the decision to
// add them anyway, under their own paths, rather than leave them
// reachable only in-process.

type objectInfoRequest struct {
	IDs []string `json:"ids"`
}

type objectInfoResult struct {
	ID             string                 `json:"id"`
	Classes        []string               `json:"types"`
	DataProperties map[string]interface{} `json:"data_properties"`
	Relationships  map[string]interface{} `json:"relationships"`
}

func toObjectInfoResult(info *query.ObjectInfo) objectInfoResult {
	return objectInfoResult{
		ID:             info.ID,
		Classes:        info.Classes,
		DataProperties: info.DataProperties,
		Relationships:  info.Relationships,
	}
}

// handleObjectInfo exposes get_object_info(ids).
func (s *Server) handleObjectInfo(w http.ResponseWriter, r *http.Request) {
	var req objectInfoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	infos, err := query.GetObjectInfo(s.store, req.IDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]objectInfoResult, 0, len(infos))
	for _, info := range infos {
		out = append(out, toObjectInfoResult(info))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "count": len(out), "results": out})
}

type filterObjectsRequest struct {
	ClassName      string                 `json:"class_name"`
	Category       string                 `json:"category"`
	DataProperties map[string]interface{} `json:"data_properties"`
	Relationships  map[string]string      `json:"relationships"`
}

// handleFilterObjects exposes filter_objects(class, category,
// relationships, data_properties).
func (s *Server) handleFilterObjects(w http.ResponseWriter, r *http.Request) {
	var req filterObjectsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	infos, err := query.FilterObjects(s.store, query.Filter{
		ClassName:      req.ClassName,
		Category:       req.Category,
		DataProperties: req.DataProperties,
		Relationships:  req.Relationships,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]objectInfoResult, 0, len(infos))
	for _, info := range infos {
		out = append(out, toObjectInfoResult(info))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "count": len(out), "results": out})
}

type pathStepResult struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
}

type pathResponse struct {
	Status   string           `json:"status"`
	Path     []pathStepResult `json:"path"`
	Cost     int              `json:"cost"`
	NumNodes int              `json:"num_nodes"`
}

// handleFindPath exposes find_path(from_id, to_id) as
// GET /find_path?from=...&to=....
func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	result, err := query.FindPath(s.store, from, to)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	steps := make([]pathStepResult, 0, len(result.Path))
	for _, step := range result.Path {
		steps = append(steps, pathStepResult{Index: step.Index, ID: step.ID})
	}
	writeJSON(w, http.StatusOK, pathResponse{Status: "success", Path: steps, Cost: result.Cost, NumNodes: result.NumNodes})
}
