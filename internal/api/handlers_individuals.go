package api

import (
	"net/http"

	"ontoplan/internal/logging"
	"ontoplan/internal/ontology"
)

// individualRequest is the wire shape of one POST /individuals body,
// matching api.py's Pydantic IndividualCreate model.
type individualRequest struct {
	ID               string                 `json:"id"`
	Class            string                 `json:"class"`
	DataProperties   map[string]interface{} `json:"data_properties"`
	ObjectProperties map[string][]string    `json:"object_properties"`
}

func (r individualRequest) toIndividualData() ontology.IndividualData {
	return ontology.IndividualData{
		ID:               r.ID,
		Class:            r.Class,
		DataProperties:   r.DataProperties,
		ObjectProperties: r.ObjectProperties,
	}
}

type operationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Added   int    `json:"added,omitempty"`
	Failed  int    `json:"failed,omitempty"`
}

// handleAddIndividual implements POST /individuals: add single, one
// reasoning pass. Grounded on api.py's add_individual.
func (s *Server) handleAddIndividual(w http.ResponseWriter, r *http.Request) {
	var req individualRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.onto.AddIndividual(r.Context(), req.toIndividualData()); err != nil {
		logging.APIWarn("add_individual %s failed: %v", req.ID, err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Status: "success", Message: "individual added"})
}

// handleAddIndividualsBatch implements POST /individuals/batch: add many,
// exactly one reasoning pass for the whole batch. Grounded on api.py's
// add_individuals_batch; batch loads report per-item counts and never
// abort on the first failure.
func (s *Server) handleAddIndividualsBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []individualRequest
	if err := decodeBody(r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]ontology.IndividualData, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, req.toIndividualData())
	}

	added, failed, err := s.onto.AddIndividualsBatch(r.Context(), items)
	if err != nil {
		logging.APIWarn("add_individuals_batch failed: %v", err)
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Status: "success", Added: added, Failed: failed})
}

// handleUpdateIndividual implements PUT /individuals/{id}: a partial
// property merge. Grounded on api.py's update_individual, which 404s on
// an unknown id.
func (s *Server) handleUpdateIndividual(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req individualRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.onto.UpdateIndividual(r.Context(), id, req.toIndividualData()); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Status: "success", Message: "individual updated"})
}

// handleDeleteIndividual implements DELETE /individuals/{id}. Grounded on
// api.py's delete_individual, which 404s on an unknown id.
func (s *Server) handleDeleteIndividual(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.onto.DeleteIndividual(r.Context(), id); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, operationResponse{Status: "success", Message: "individual deleted"})
}
