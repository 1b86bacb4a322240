package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
	"ontoplan/internal/ontology"
)

// InferredRelationship names one entailed edge that must be deleted
// alongside an asserted triple of a given predicate, and how it was
// entailed. Grounded on world_update.py's relationship_mapping.json
// shape, the external relationship-mapping JSON file this bridge loads.
type InferredRelationship struct {
	Relationship string `json:"relationship"`
	Type         string `json:"type"` // "subproperty" | "inverse_inference" | "property_chain"
}

type mappingEntry struct {
	InferredRelationships []InferredRelationship `json:"inferred_relationships"`
}

// RelationshipMapping is the declarative asserted-predicate ->
// inferred-relationship table, loaded from relationship_mapping.json.
type RelationshipMapping struct {
	Mappings map[string]mappingEntry `json:"mappings"`
}

// LoadRelationshipMapping reads a relationship_mapping.json file.
func LoadRelationshipMapping(path string) (*RelationshipMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sparql: read relationship mapping %s: %w", path, err)
	}
	var m RelationshipMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sparql: parse relationship mapping %s: %w", path, err)
	}
	return &m, nil
}

// InferredRelationshipsFor looks up the inferred companions of an asserted
// predicate, or nil if the predicate has none.
func (m *RelationshipMapping) InferredRelationshipsFor(predicate string) []InferredRelationship {
	if m == nil {
		return nil
	}
	return m.Mappings[predicate].InferredRelationships
}

// robotLocationPredicates is the fixed predicate set the world update
// executor names for the proactive stale-edge delete this bridge runs
// before reasoning.
var robotLocationPredicates = map[string]bool{
	"robotIsInSpace":    true,
	"artifactIsInSpace": true,
	"isInsideOf":        true,
	"isOntopOf":         true,
	"carries":           true,
	"spaceIsInStorey":   true,
}

// Bridge applies a DELETE/INSERT update against the ontology facade's
// asserted model and the graph projection, in six steps: parse, retract
// asserted triples, delete stale projection edges, insert new triples,
// rerun the reasoner, and re-project.
type Bridge struct {
	ontology *ontology.Ontology
	store    *graph.Store
	mapping  *RelationshipMapping
}

// NewBridge constructs a Bridge. mapping may be nil; it is stored but
// ApplyTriples does not consult it. The stale-edge delete always uses the
// fixed set of location predicates above.
func NewBridge(onto *ontology.Ontology, store *graph.Store, mapping *RelationshipMapping) *Bridge {
	return &Bridge{ontology: onto, store: store, mapping: mapping}
}

// Apply parses updateText and applies it. A parse failure leaves the
// asserted model untouched: no mutation is applied until the update has
// parsed successfully in full.
func (b *Bridge) Apply(ctx context.Context, updateText string) error {
	del, ins, err := ParseUpdate(updateText)
	if err != nil {
		return err
	}
	return b.ApplyTriples(ctx, del, ins)
}

// ApplyTriples runs the six-step algorithm directly against already
// parsed triple sets, so in-process callers (the action executor)
// need not round-trip through SPARQL wire text at all.
func (b *Bridge) ApplyTriples(ctx context.Context, del, ins []Triple) error {
	timer := logging.StartTimer(logging.CategorySparql, "ApplyTriples")
	defer timer.Stop()

	removed, skipped := 0, 0
	for _, t := range del {
		if t.ObjectLiteral {
			logging.SparqlDebug("skipping data-property delete %s %s (object properties only)", t.Subject, t.Predicate)
			continue
		}
		if !b.ontology.HasIndividual(t.Subject) {
			logging.SparqlWarn("delete triple %s references unknown individual, skipped", t.Subject)
			skipped++
			continue
		}
		if err := b.ontology.RetractProperty(t.Subject, t.Predicate, t.Object); err != nil {
			return fmt.Errorf("sparql: retract %s %s %s: %w", t.Subject, t.Predicate, t.Object, err)
		}
		removed++
	}

	if b.store != nil {
		for _, t := range append(append([]Triple{}, del...), ins...) {
			if t.ObjectLiteral || !robotLocationPredicates[t.Predicate] {
				continue
			}
			if _, err := b.store.DeleteEdgesBetween(t.Subject, t.Object); err != nil {
				return fmt.Errorf("sparql: clear stale projection edges between %s and %s: %w", t.Subject, t.Object, err)
			}
		}
	}

	added := 0
	for _, t := range ins {
		if t.ObjectLiteral {
			logging.SparqlDebug("skipping data-property insert %s %s (object properties only)", t.Subject, t.Predicate)
			continue
		}
		if !b.ontology.HasIndividual(t.Subject) {
			logging.SparqlWarn("insert triple %s references unknown individual, skipped", t.Subject)
			skipped++
			continue
		}
		if err := b.ontology.AssertProperty(t.Subject, t.Predicate, t.Object); err != nil {
			return fmt.Errorf("sparql: assert %s %s %s: %w", t.Subject, t.Predicate, t.Object, err)
		}
		added++
	}

	if err := b.ontology.Reason(ctx); err != nil {
		// The asserted model (the delete/insert steps above) is left
		// mutated; the caller treats this as fatal.
		return fmt.Errorf("sparql: reasoner pass failed after applying update: %w", err)
	}

	if _, err := b.ontology.Sync(ctx, true); err != nil {
		return fmt.Errorf("sparql: sync projection after update: %w", err)
	}

	logging.Sparql("applied update: removed=%d added=%d skipped=%d", removed, added, skipped)
	return nil
}
