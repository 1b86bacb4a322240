package ttl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ontoplan/internal/sparql"
)

const sampleDynamic = `@prefix : <http://ontoplan.local/env#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

:mug_1 rdf:type :Artifact ;
    :category "mug" ;
    :description "a ceramic coffee mug" ;
    :objectIsInSpace :kitchen .

:left_hand rdf:type :Hand .

:robot1 rdf:type :Robot ;
    :robotIsInSpace :kitchen ;
    :hasHand :left_hand .
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestNextVersion(t *testing.T) {
	dir := t.TempDir()
	n, err := NextVersion(dir, "dynamic")
	if err != nil || n != 1 {
		t.Fatalf("expected version 1 on empty dir, got %d, %v", n, err)
	}

	writeFile(t, dir, "dynamic_1.ttl", "")
	writeFile(t, dir, "dynamic_2.ttl", "")
	n, err = NextVersion(dir, "dynamic")
	if err != nil || n != 3 {
		t.Fatalf("expected version 3, got %d, %v", n, err)
	}
}

func TestParseExtractsExpectedTriples(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dynamic.ttl", sampleDynamic)

	triples, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := sparql.Triple{Subject: "robot1", Predicate: "robotIsInSpace", Object: "kitchen"}
	found := false
	for _, tr := range triples {
		if tr == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %+v among parsed triples, got %+v", want, triples)
	}

	for _, tr := range triples {
		if tr.Subject == "mug_1" && tr.Predicate == "category" {
			if !tr.ObjectLiteral || tr.Object != "mug" {
				t.Errorf("expected literal category=mug, got %+v", tr)
			}
		}
	}
}

func TestApplyMoveRewritesSingleLine(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "dynamic_1.ttl", sampleDynamic)
	next := filepath.Join(dir, "dynamic_2.ttl")

	if err := ApplyMove(prev, next, "robot1", "robotIsInSpace", "kitchen", "bedroom"); err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	triples, err := Parse(next)
	if err != nil {
		t.Fatalf("Parse(next) failed: %v", err)
	}
	wantMoved := sparql.Triple{Subject: "robot1", Predicate: "robotIsInSpace", Object: "bedroom"}
	wantGone := sparql.Triple{Subject: "robot1", Predicate: "robotIsInSpace", Object: "kitchen"}
	foundMoved, foundStale := false, false
	for _, tr := range triples {
		if tr == wantMoved {
			foundMoved = true
		}
		if tr == wantGone {
			foundStale = true
		}
	}
	if !foundMoved {
		t.Errorf("expected robot1 to be in bedroom after move, got %+v", triples)
	}
	if foundStale {
		t.Errorf("expected stale kitchen triple to be gone, got %+v", triples)
	}

	// mug_1's own :objectIsInSpace :kitchen must be untouched.
	wantMugUnchanged := sparql.Triple{Subject: "mug_1", Predicate: "objectIsInSpace", Object: "kitchen"}
	foundMug := false
	for _, tr := range triples {
		if tr == wantMugUnchanged {
			foundMug = true
		}
	}
	if !foundMug {
		t.Errorf("expected mug_1's own kitchen relation to survive the rewrite, got %+v", triples)
	}
}

func TestApplyMoveAmbiguousWhenTargetAppearsTwice(t *testing.T) {
	dir := t.TempDir()
	content := `:robot1 rdf:type :Robot ;
    :robotIsInSpace :kitchen ;
    :robotIsInSpace :kitchen .
`
	prev := writeFile(t, dir, "dynamic_1.ttl", content)
	next := filepath.Join(dir, "dynamic_2.ttl")

	err := ApplyMove(prev, next, "robot1", "robotIsInSpace", "kitchen", "bedroom")
	if _, ok := err.(*TtlRewriteAmbiguousError); !ok {
		t.Fatalf("expected *TtlRewriteAmbiguousError, got %T: %v", err, err)
	}
}

func TestDiffAndSparqlFromDiff(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "dynamic_1.ttl", sampleDynamic)
	next := filepath.Join(dir, "dynamic_2.ttl")
	if err := ApplyMove(prev, next, "robot1", "robotIsInSpace", "kitchen", "bedroom"); err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	added, removed, err := Diff(prev, next)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(added) != 1 || added[0].Object != "bedroom" {
		t.Fatalf("expected one added triple to bedroom, got %+v", added)
	}
	if len(removed) != 1 || removed[0].Object != "kitchen" {
		t.Fatalf("expected one removed triple from kitchen, got %+v", removed)
	}

	var mapping sparql.RelationshipMapping
	mappingJSON := `{
		"mappings": {
			"robotIsInSpace": {
				"inferred_relationships": [
					{"relationship": "locatedInStorey", "type": "property_chain"}
				]
			}
		}
	}`
	if err := json.Unmarshal([]byte(mappingJSON), &mapping); err != nil {
		t.Fatalf("unmarshal mapping fixture: %v", err)
	}

	update := SparqlFromDiff(added, removed, &mapping, "http://ontoplan.local/env#")
	del, ins, err := sparql.ParseUpdate(update)
	if err != nil {
		t.Fatalf("generated update did not parse: %v\n%s", err, update)
	}
	if len(ins) != 1 || ins[0].Object != "bedroom" {
		t.Errorf("unexpected insert set: %+v", ins)
	}
	if len(del) != 2 {
		t.Fatalf("expected the asserted delete plus its inferred companion, got %+v", del)
	}
}

func TestToIndividualsGroupsBySubject(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dynamic.ttl", sampleDynamic)

	items, err := ToIndividuals(path)
	if err != nil {
		t.Fatalf("ToIndividuals failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 individuals, got %d", len(items))
	}

	// Sorted by subject id: left_hand, mug_1, robot1.
	if items[0].ID != "left_hand" || items[0].Class != "Hand" {
		t.Errorf("unexpected first individual: %+v", items[0])
	}

	mug := items[1]
	if mug.ID != "mug_1" || mug.Class != "Artifact" {
		t.Fatalf("unexpected mug individual: %+v", mug)
	}
	if mug.DataProperties["category"] != "mug" {
		t.Errorf("expected category=mug, got %+v", mug.DataProperties)
	}
	if got := mug.ObjectProperties["objectIsInSpace"]; len(got) != 1 || got[0] != "kitchen" {
		t.Errorf("expected objectIsInSpace=[kitchen], got %+v", got)
	}

	robot := items[2]
	if robot.ID != "robot1" || robot.Class != "Robot" {
		t.Fatalf("unexpected robot individual: %+v", robot)
	}
	if got := robot.ObjectProperties["robotIsInSpace"]; len(got) != 1 || got[0] != "kitchen" {
		t.Errorf("expected robotIsInSpace=[kitchen], got %+v", got)
	}
}

func TestSparqlFromDiffInsertOnlyGolden(t *testing.T) {
	added := []sparql.Triple{{Subject: "robot1", Predicate: "robotIsInSpace", Object: "kitchen"}}
	got := SparqlFromDiff(added, nil, &sparql.RelationshipMapping{}, "http://example.org/")

	want := "INSERT DATA {\n" +
		"<http://example.org/robot1> <http://example.org/robotIsInSpace> <http://example.org/kitchen> .\n" +
		"}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SparqlFromDiff() mismatch (-want +got):\n%s", diff)
	}
}

func TestSparqlFromDiffDeleteInsertGolden(t *testing.T) {
	removed := []sparql.Triple{{Subject: "robot1", Predicate: "robotIsInSpace", Object: "bedroom"}}
	added := []sparql.Triple{{Subject: "robot1", Predicate: "robotIsInSpace", Object: "kitchen"}}
	got := SparqlFromDiff(added, removed, &sparql.RelationshipMapping{}, "http://example.org/")

	want := "DELETE {\n" +
		"<http://example.org/robot1> <http://example.org/robotIsInSpace> <http://example.org/bedroom> .\n" +
		"}\nINSERT {\n" +
		"<http://example.org/robot1> <http://example.org/robotIsInSpace> <http://example.org/kitchen> .\n" +
		"}\nWHERE { }"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SparqlFromDiff() mismatch (-want +got):\n%s", diff)
	}
}
