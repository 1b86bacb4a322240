package query

import (
	"context"
	"testing"

	"ontoplan/internal/config"
	"ontoplan/internal/embedding"
	"ontoplan/internal/graph"
	"ontoplan/internal/mangle"
	"ontoplan/internal/ontology"
)

// fakeEngine deterministically hashes text into a small vector, enough to
// make near-duplicate queries score higher than unrelated ones without
// depending on a real embedding backend.
type fakeEngine struct {
	dims int
}

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, f.dims)
	for i, r := range text {
		vec[i%f.dims] += float32(r)
	}
	return vec, nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, _ := f.Embed(ctx, t)
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return f.dims }
func (f *fakeEngine) Name() string    { return "fake-test-engine" }

// newTestFixture builds a small house: two spaces joined by a door, a
// robot, a mug and a chair in the kitchen (distinct categories/
// descriptions for filter/search coverage), and a safe in the bedroom.
// Grounded on internal/pddl/pddl_test.go's newTestFixture.
func newTestFixture(t *testing.T) (*graph.Store, *embedding.Binder) {
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

	fake := &fakeEngine{dims: 8}
	binder := embedding.NewBinder(fake, store, embedding.BinderConfig{Generate: true})

	onto, err := ontology.New(engine, schema, store, binder)
	if err != nil {
		t.Fatalf("ontology.New failed: %v", err)
	}

	ctx := context.Background()
	items := []ontology.IndividualData{
		{ID: "kitchen", Class: "Space", ObjectProperties: map[string][]string{"hasPathTo": {"door_1"}}},
		{ID: "bedroom", Class: "Space", ObjectProperties: map[string][]string{"hasPathTo": {"door_1"}}},
		{ID: "door_1", Class: "Door",
			ObjectProperties: map[string][]string{"hasPathTo": {"kitchen", "bedroom"}}},
		{ID: "mug_1", Class: "Artifact",
			DataProperties: map[string]interface{}{
				"category":    "mug",
				"description": "a ceramic coffee mug",
			},
			ObjectProperties: map[string][]string{
				"isInSpace": {"kitchen"},
				"affords":   {"Affordance_Pickup"},
			}},
		{ID: "chair_1", Class: "Artifact",
			DataProperties: map[string]interface{}{
				"category":    "chair",
				"description": "a wooden dining chair",
			},
			ObjectProperties: map[string][]string{"isInSpace": {"kitchen"}}},
		{ID: "safe_1", Class: "Artifact",
			DataProperties: map[string]interface{}{"isLocked": true, "category": "safe"},
			ObjectProperties: map[string][]string{"isInSpace": {"bedroom"}}},
		{ID: "left_hand", Class: "Hand"},
		{ID: "robot1", Class: "Robot", ObjectProperties: map[string][]string{
			"robotIsInSpace": {"kitchen"},
			"hasHand":        {"left_hand"},
		}},
	}
	if _, _, err := onto.AddIndividualsBatch(ctx, items); err != nil {
		t.Fatalf("AddIndividualsBatch failed: %v", err)
	}
	if _, err := onto.Sync(ctx, false); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	return store, binder
}

func TestGetObjectInfoCollapsesRelationshipsAndDropsAffordances(t *testing.T) {
	store, _ := newTestFixture(t)

	infos, err := GetObjectInfo(store, []string{"mug_1"})
	if err != nil {
		t.Fatalf("GetObjectInfo failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("GetObjectInfo returned %d results, want 1", len(infos))
	}
	mug := infos[0]

	if _, ok := mug.Relationships["affords"]; ok {
		t.Errorf("expected affords relationship to be dropped, got %+v", mug.Relationships)
	}
	if got := mug.Relationships["isInSpace"]; got != "kitchen" {
		t.Errorf("mug.Relationships[isInSpace] = %v, want kitchen", got)
	}
	if mug.DataProperties["category"] != "mug" {
		t.Errorf("mug.DataProperties[category] = %v, want mug", mug.DataProperties["category"])
	}
}

func TestGetObjectInfoUnknownIDOmitted(t *testing.T) {
	store, _ := newTestFixture(t)

	infos, err := GetObjectInfo(store, []string{"mug_1", "does_not_exist"})
	if err != nil {
		t.Fatalf("GetObjectInfo failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("GetObjectInfo returned %d results, want 1 (unknown id omitted)", len(infos))
	}
}

func TestGetObjectInfoCollapsesRepeatedRelationshipIntoList(t *testing.T) {
	store, _ := newTestFixture(t)

	infos, err := GetObjectInfo(store, []string{"door_1"})
	if err != nil {
		t.Fatalf("GetObjectInfo failed: %v", err)
	}
	door := infos[0]
	targets, ok := door.Relationships["hasPathTo"].([]string)
	if !ok {
		t.Fatalf("door.Relationships[hasPathTo] = %#v (%T), want []string", door.Relationships["hasPathTo"], door.Relationships["hasPathTo"])
	}
	if len(targets) != 2 {
		t.Errorf("door.Relationships[hasPathTo] has %d targets, want 2", len(targets))
	}
}

func TestFilterObjectsByClassAndCategory(t *testing.T) {
	store, _ := newTestFixture(t)

	results, err := FilterObjects(store, Filter{ClassName: "Artifact", Category: "mug"})
	if err != nil {
		t.Fatalf("FilterObjects failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "mug_1" {
		t.Fatalf("FilterObjects(class=Artifact, category=mug) = %+v, want [mug_1]", results)
	}
}

func TestFilterObjectsByRelationship(t *testing.T) {
	store, _ := newTestFixture(t)

	results, err := FilterObjects(store, Filter{
		ClassName:     "Artifact",
		Relationships: map[string]string{"isInSpace": "kitchen"},
	})
	if err != nil {
		t.Fatalf("FilterObjects failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("FilterObjects(isInSpace=kitchen) = %+v, want 2 results", results)
	}
}

func TestFilterObjectsNoClassScansEverything(t *testing.T) {
	store, _ := newTestFixture(t)

	results, err := FilterObjects(store, Filter{DataProperties: map[string]interface{}{"isLocked": true}})
	if err != nil {
		t.Fatalf("FilterObjects failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "safe_1" {
		t.Fatalf("FilterObjects(isLocked=true) = %+v, want [safe_1]", results)
	}
}

func TestFindPathResolvesArtifactsToSpacesAndRoutes(t *testing.T) {
	store, _ := newTestFixture(t)

	result, err := FindPath(store, "mug_1", "safe_1")
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if result.NumNodes != 3 {
		t.Errorf("result.NumNodes = %d, want 3 (kitchen -> door_1 -> bedroom)", result.NumNodes)
	}
	if result.Path[0].ID != "kitchen" || result.Path[len(result.Path)-1].ID != "bedroom" {
		t.Errorf("result.Path = %+v, want to start at kitchen and end at bedroom", result.Path)
	}
}

func TestFindPathNoRouteReturnsNoPathError(t *testing.T) {
	store, _ := newTestFixture(t)

	_, err := FindPath(store, "robot1", "left_hand")
	if _, ok := err.(*NoPathError); !ok {
		t.Fatalf("FindPath(robot1, left_hand) err = %v, want *NoPathError (left_hand has no location)", err)
	}
}

func TestSearchCategoryReturnsTopMatch(t *testing.T) {
	store, binder := newTestFixture(t)
	searcher := NewSearcher(&fakeEngine{dims: 8}, binder, store)

	results, err := searcher.SearchCategory(context.Background(), "mug", 2)
	if err != nil {
		t.Fatalf("SearchCategory failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("SearchCategory returned no results")
	}
	if results[0].Category != "mug" {
		t.Errorf("top category match = %q, want mug (identical query)", results[0].Category)
	}
	if results[0].Similarity < results[len(results)-1].Similarity {
		t.Errorf("results not sorted descending by similarity: %+v", results)
	}
}

func TestSearchDescriptionReturnsScoredObjects(t *testing.T) {
	store, binder := newTestFixture(t)
	searcher := NewSearcher(&fakeEngine{dims: 8}, binder, store)

	results, err := searcher.SearchDescription(context.Background(), "a ceramic coffee mug", 3)
	if err != nil {
		t.Fatalf("SearchDescription failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("SearchDescription returned no results")
	}
	if results[0].ID != "mug_1" {
		t.Errorf("top description match = %q, want mug_1 (identical query)", results[0].ID)
	}
	if results[0].Similarity < 0 || results[0].Similarity > 1 {
		t.Errorf("results[0].Similarity = %v, want in [0,1]", results[0].Similarity)
	}
}

func TestSearchUnknownTypeReturnsError(t *testing.T) {
	store, binder := newTestFixture(t)
	searcher := NewSearcher(&fakeEngine{dims: 8}, binder, store)

	_, _, err := searcher.Search(context.Background(), "mug", 3, "bogus")
	if _, ok := err.(*UnknownSearchTypeError); !ok {
		t.Fatalf("Search err = %v, want *UnknownSearchTypeError", err)
	}
}
