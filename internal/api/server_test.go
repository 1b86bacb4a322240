package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ontoplan/internal/config"
	"ontoplan/internal/embedding"
	"ontoplan/internal/graph"
	"ontoplan/internal/mangle"
	"ontoplan/internal/ontology"
	"ontoplan/internal/sparql"
)

type fakeEngine struct{ dims int }

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, f.dims)
	for i, r := range text {
		vec[i%f.dims] += float32(r % 97)
	}
	return vec, nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := f.Embed(ctx, t)
		out[i] = v
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return f.dims }
func (f *fakeEngine) Name() string    { return "fake" }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	schema, err := ontology.LoadSchemaSpec("../ontology/testdata/schema.yaml")
	if err != nil {
		t.Fatalf("LoadSchemaSpec failed: %v", err)
	}
	engine, err := mangle.NewEngine(mangle.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	store, err := graph.NewStore(config.GraphConfig{DatabasePath: ":memory:", VectorMode: "fallback"})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	embedEngine := &fakeEngine{dims: 8}
	binder := embedding.NewBinder(embedEngine, store, embedding.BinderConfig{Generate: true})

	onto, err := ontology.New(engine, schema, store, binder)
	if err != nil {
		t.Fatalf("ontology.New failed: %v", err)
	}

	ctx := context.Background()
	items := []ontology.IndividualData{
		{ID: "kitchen", Class: "Space"},
		{ID: "bedroom", Class: "Space"},
		{ID: "mug_1", Class: "Artifact", DataProperties: map[string]interface{}{"category": "mug", "description": "a ceramic mug"},
			ObjectProperties: map[string][]string{"isInSpace": {"kitchen"}}},
		{ID: "robot1", Class: "Robot", ObjectProperties: map[string][]string{"robotIsInSpace": {"kitchen"}}},
	}
	if _, _, err := onto.AddIndividualsBatch(ctx, items); err != nil {
		t.Fatalf("AddIndividualsBatch failed: %v", err)
	}

	bridge := sparql.NewBridge(onto, store, &sparql.RelationshipMapping{})

	return NewServer(onto, store, bridge, embedEngine, binder, Config{EnvID: "test-env"})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleStatusReportsCounts(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IndividualsCount < 4 {
		t.Errorf("expected individuals_count >= 4, got %d", resp.IndividualsCount)
	}
	if resp.EnvID != "test-env" {
		t.Errorf("expected env_id test-env, got %q", resp.EnvID)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.ManagerReady {
		t.Errorf("expected manager_ready=true")
	}
}

func TestHandleAddIndividual(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/individuals", individualRequest{
		ID: "chair_1", Class: "Artifact",
		DataProperties:   map[string]interface{}{"category": "chair"},
		ObjectProperties: map[string][]string{"isInSpace": {"kitchen"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleAddIndividualUnknownClassIs400(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/individuals", individualRequest{ID: "x", Class: "NotAClass"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleDeleteIndividualNotFoundIs404(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodDelete, "/individuals/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSparqlSelect(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/sparql", sparqlSelectRequest{
		Query: "SELECT ?o WHERE { ?s robotIsInSpace ?o . FILTER(?s = robot1) }",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSparqlUpdateMovesRobot(t *testing.T) {
	s := newTestServer(t)
	const base = "http://ontoplan.local/env#"
	update := "DELETE {\n<" + base + "robot1> <" + base + "robotIsInSpace> <" + base + "kitchen> .\n}\n" +
		"INSERT {\n<" + base + "robot1> <" + base + "robotIsInSpace> <" + base + "bedroom> .\n}\n" +
		"WHERE { }"
	rec := doJSON(t, s, http.MethodPost, "/sparql/update", sparqlUpdateRequest{Update: update})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	edges, err := s.store.QueryEdges("robot1", "outgoing")
	if err != nil {
		t.Fatalf("QueryEdges failed: %v", err)
	}
	foundBedroom := false
	for _, e := range edges {
		if e.Property == "robotIsInSpace" && e.Object == "bedroom" {
			foundBedroom = true
		}
	}
	if !foundBedroom {
		t.Errorf("expected robot1 -robotIsInSpace-> bedroom after update, got %+v", edges)
	}
}

func TestHandleSparqlUpdateRejectsUnsupportedShape(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/sparql/update", sparqlUpdateRequest{Update: "not a sparql update"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSemanticSearchDescription(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/semantic_search", semanticSearchRequest{
		Query: "a ceramic mug", TopK: 2, SearchType: "description",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp semanticSearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count == 0 {
		t.Errorf("expected at least one description search result")
	}
}

func TestHandleSemanticSearchUnknownTypeIs400(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/semantic_search", semanticSearchRequest{
		Query: "x", TopK: 1, SearchType: "bogus",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleObjectInfo(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/object_info", objectInfoRequest{IDs: []string{"mug_1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleFilterObjects(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/filter_objects", filterObjectsRequest{ClassName: "Artifact", Category: "mug"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleFindPathNotFoundIs404(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/find_path?from=kitchen&to=nowhere", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unresolvable location, got %d: %s", rec.Code, rec.Body.String())
	}
}
