package pddl

import (
	"context"
	"testing"

	"ontoplan/internal/config"
	"ontoplan/internal/domain"
	"ontoplan/internal/graph"
	"ontoplan/internal/mangle"
	"ontoplan/internal/ontology"
)

// newTestFixture builds a small house: two spaces joined by a door, a robot
// with one hand, a mug on a table, and a locked safe behind a key. Grounded
// on internal/sparql/bridge_test.go's newTestBridge fixture pattern.
func newTestFixture(t *testing.T) (*domain.Domain, *graph.Store) {
	t.Helper()

	dom, err := domain.ParseDomainFile("testdata/domain.pddl")
	if err != nil {
		t.Fatalf("ParseDomainFile failed: %v", err)
	}

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

	onto, err := ontology.New(engine, schema, store, nil)
	if err != nil {
		t.Fatalf("ontology.New failed: %v", err)
	}

	ctx := context.Background()
	items := []ontology.IndividualData{
		{ID: "kitchen", Class: "Space", ObjectProperties: map[string][]string{"hasPathTo": {"door_1"}}},
		{ID: "bedroom", Class: "Space", ObjectProperties: map[string][]string{"hasPathTo": {"door_1"}}},
		{ID: "door_1", Class: "Door", DataProperties: map[string]interface{}{"isOpenDoor": true},
			ObjectProperties: map[string][]string{"hasPathTo": {"kitchen", "bedroom"}}},
		{ID: "table_1", Class: "Artifact", ObjectProperties: map[string][]string{"isInSpace": {"kitchen"}}},
		{ID: "Affordance_Pickup", Class: "Thing"},
		{ID: "mug_1", Class: "Artifact", ObjectProperties: map[string][]string{"isOntopOf": {"table_1"}, "affords": {"Affordance_Pickup"}}},
		{ID: "safe_1", Class: "Artifact", DataProperties: map[string]interface{}{"isLocked": true},
			ObjectProperties: map[string][]string{"isInSpace": {"bedroom"}, "requiresKey": {"key_1"}}},
		{ID: "key_1", Class: "Artifact", ObjectProperties: map[string][]string{"isInSpace": {"kitchen"}, "unlocks": {"safe_1"}}},
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

	return dom, store
}
