package api

import "net/http"

type statusResponse struct {
	Status             string `json:"status"`
	EnvID              string `json:"env_id,omitempty"`
	IndividualsCount   int    `json:"individuals_count"`
	RelationshipsCount int    `json:"relationships_count"`
}

// handleStatus implements GET /status: current counts and env id.
// Grounded on api.py's get_status, which reports manager.get_status()
// plus env_id/env_name when an environment is active; this module serves
// exactly one environment, configured at startup, so envID is always set
// once the server exists.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.onto.Stats()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:             "ready",
		EnvID:              s.envID,
		IndividualsCount:   stats.Individuals,
		RelationshipsCount: stats.Relationships,
	})
}

type healthResponse struct {
	Status       string `json:"status"`
	ManagerReady bool   `json:"manager_ready"`
}

// handleHealth implements GET /health. Grounded on api.py's health_check;
// a Server that exists and has a non-nil ontology facade is always ready
// in this single-process design, so manager_ready is always true once the
// handler runs at all.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", ManagerReady: s.onto != nil})
}
