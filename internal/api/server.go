// Package api is the HTTP surface: a thin JSON-in/JSON-out layer
// translating the external interface table onto the already-serialized
// ontology facade, SPARQL bridge, and query tools. Grounded on
// original_source/ontology_server/core/api.py's FastAPI router for
// request/response shapes and status-code choices, and on
// internal/auth/antigravity/server.go for the stdlib net/http bootstrap
// (ServeMux + http.Server + context-driven graceful shutdown) this module
// uses instead of a web framework.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ontoplan/internal/embedding"
	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
	"ontoplan/internal/ontology"
	"ontoplan/internal/query"
	"ontoplan/internal/sparql"
)

// Server holds every component a handler needs to reach. All mutating
// endpoints simply call through to the ontology facade or SPARQL bridge,
// which already serialize under their own lock — the HTTP layer itself
// holds no additional lock and may dispatch handlers concurrently.
type Server struct {
	onto     *ontology.Ontology
	store    *graph.Store
	bridge   *sparql.Bridge
	searcher *query.Searcher
	envID    string

	httpServer *http.Server
}

// Config collects the wiring a Server needs beyond the bare components:
// the env id reported by GET /status and the listen address/timeouts the
// HTTP surface is configured with (config.HTTPConfig).
type Config struct {
	EnvID        string
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer builds a Server and registers every route in the external
// interface table, plus the query-tools endpoints enriching that table
// (see DESIGN.md's Open Question decision): the original FastAPI router
// only names semantic_search explicitly, but
// get_object_info/filter_objects/find_path are exposed too, under their
// own paths, for parity with the full set of query operations.
func NewServer(onto *ontology.Ontology, store *graph.Store, bridge *sparql.Bridge, engine embedding.EmbeddingEngine, binder *embedding.Binder, cfg Config) *Server {
	s := &Server{
		onto:     onto,
		store:    store,
		bridge:   bridge,
		searcher: query.NewSearcher(engine, binder, store),
		envID:    cfg.EnvID,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8090"
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: orDefault(cfg.WriteTimeout, 15*time.Second),
	}
	return s
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /individuals", s.handleAddIndividual)
	mux.HandleFunc("POST /individuals/batch", s.handleAddIndividualsBatch)
	mux.HandleFunc("PUT /individuals/{id}", s.handleUpdateIndividual)
	mux.HandleFunc("DELETE /individuals/{id}", s.handleDeleteIndividual)

	mux.HandleFunc("POST /load_ttl", s.handleLoadTTL)
	mux.HandleFunc("POST /sync", s.handleSync)

	mux.HandleFunc("POST /sparql", s.handleSparqlSelect)
	mux.HandleFunc("POST /sparql/update", s.handleSparqlUpdate)

	mux.HandleFunc("POST /semantic_search", s.handleSemanticSearch)

	mux.HandleFunc("POST /object_info", s.handleObjectInfo)
	mux.HandleFunc("POST /filter_objects", s.handleFilterObjects)
	mux.HandleFunc("GET /find_path", s.handleFindPath)
}

// ListenAndServe starts the HTTP surface; it blocks until the server
// stops (via Shutdown or a fatal listener error), matching
// StartCallbackServer's goroutine-plus-blocking-wait shape but without
// the OAuth-specific channel handshake — callers that want non-blocking
// start should call it in its own goroutine, as cmd/ontoplan's serve
// subcommand does.
func (s *Server) ListenAndServe() error {
	logging.API("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: serve: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests before closing the
// listener, grounded on StartCallbackServer's server.Shutdown(shutdownCtx)
// call on success.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
