// Package ontology is the Ontology Facade: it owns the asserted OWL-style
// model (individuals, their class memberships, data attributes, and object
// property edges), drives the Datalog reasoner in internal/mangle to
// materialize the entailed model, and hands the result to a graph
// projection and an embedding binder. Grounded on
// original_source/ontology_server/core/ontology.py's OntologyManager,
// reimplemented against internal/mangle's fact store instead of
// owlready2 + HermiT + Neo4j.
package ontology

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ontoplan/internal/logging"
	"ontoplan/internal/mangle"
)

// IndividualData is the wire shape for creating or updating an individual:
// a class membership plus name-keyed data and object property values.
type IndividualData struct {
	ID               string
	Class            string
	DataProperties   map[string]interface{}
	ObjectProperties map[string][]string
}

// DuplicateIndividualError is returned when add_individual targets an id
// that already exists in the asserted model.
type DuplicateIndividualError struct{ ID string }

func (e *DuplicateIndividualError) Error() string {
	return fmt.Sprintf("individual %s already exists", e.ID)
}

// UnknownClassError is returned when add_individual names a class the
// schema never declared.
type UnknownClassError struct{ Class string }

func (e *UnknownClassError) Error() string { return fmt.Sprintf("class %s not found", e.Class) }

// NotFoundError is returned by update/delete when the individual id is
// unknown.
type NotFoundError struct{ ID string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("individual %s not found", e.ID) }

// Relationship is one entailed object-property edge in the reasoned model.
type Relationship struct {
	Subject  string
	Property string
	Object   string
}

// ReasonedModel is the materialized result of a reasoner pass: every
// individual's full (indirect) class set, every entailed object-property
// edge, and every asserted data attribute. The graph projector and
// embedding binder consume this directly; it is never partially
// observable mid-sync.
type ReasonedModel struct {
	Types         map[string][]string // individual id -> sorted class names (including superclasses)
	Relationships []Relationship
	DataProps     map[string]map[string]interface{}
	DataType      string // "static", "dynamic", or "" — recorded only; the embedding binder does not read it
}

// Projector mirrors a ReasonedModel into a queryable property graph.
// Implemented by internal/graph.Store; the interface lives here so this
// package does not import the storage layer.
type Projector interface {
	Sync(ctx context.Context, model *ReasonedModel) (SyncStats, error)
}

// SyncStats reports the outcome of a full projection sync.
type SyncStats struct {
	Individuals   int
	Relationships int
}

// EmbeddingBinder attaches category/description vectors to a freshly
// projected model. Implemented by internal/embedding.
type EmbeddingBinder interface {
	Attach(ctx context.Context, model *ReasonedModel) error
}

// noopEmbeddingBinder is used when no binder is configured; embedding is
// genuinely optional (spec §4.2 sync step (e) "hand off to the Embedding
// Binder" — if there is none, sync still completes).
type noopEmbeddingBinder struct{}

func (noopEmbeddingBinder) Attach(context.Context, *ReasonedModel) error { return nil }

// Ontology owns the asserted model, the reasoner session, and the
// downstream projection/embedding handoffs. All mutating operations are
// serialized under mu, which spans the reasoner invocation and the full
// sync atomically (spec §5): no partial projection is ever observable
// across a goroutine boundary.
type Ontology struct {
	mu sync.Mutex

	engine    *mangle.Engine
	schema    *SchemaSpec
	projector Projector
	embedder  EmbeddingBinder

	individuals   map[string]string // id -> class, for existence/UnknownClass checks
	dataType      string
	lastSyncStats SyncStats
}

// New constructs an Ontology Facade over an already-constructed reasoner
// engine, loading the fixed reasoner schema plus the TBox's derived facts
// (subclass_of, subproperty_of, inverse_of, prop_chain).
func New(engine *mangle.Engine, schema *SchemaSpec, projector Projector, embedder EmbeddingBinder) (*Ontology, error) {
	if err := engine.LoadSchemaString(reasonerSchema); err != nil {
		return nil, fmt.Errorf("load reasoner schema: %w", err)
	}

	var facts []mangle.Fact
	for _, f := range schema.schemaFacts() {
		facts = append(facts, mangle.Fact{Predicate: f.predicate, Args: f.args})
	}
	if len(facts) > 0 {
		if err := engine.AddFacts(facts); err != nil {
			return nil, fmt.Errorf("assert schema facts: %w", err)
		}
	}

	if embedder == nil {
		embedder = noopEmbeddingBinder{}
	}

	return &Ontology{
		engine:      engine,
		schema:      schema,
		projector:   projector,
		embedder:    embedder,
		individuals: make(map[string]string),
	}, nil
}

// AddIndividual creates a new individual and, unless part of a batch,
// triggers a full reasoning + sync pass. Grounded on ontology.py's
// add_individual.
func (o *Ontology) AddIndividual(ctx context.Context, data IndividualData) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.createIndividualLocked(data); err != nil {
		return err
	}
	if err := o.attachPropertiesLocked(data); err != nil {
		return err
	}
	return o.syncLocked(ctx, false)
}

// AddIndividualsBatch creates many individuals in two passes — first every
// individual with no properties (so forward references resolve), then
// every property attachment — and runs reasoning exactly once at the end.
// Grounded on ontology.py's add_individuals_batch.
func (o *Ontology) AddIndividualsBatch(ctx context.Context, items []IndividualData) (added, failed int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, data := range items {
		if cerr := o.createIndividualLocked(data); cerr != nil {
			logging.OntologyWarn("batch add skipped %s: %v", data.ID, cerr)
			failed++
			continue
		}
		added++
	}
	for _, data := range items {
		if _, exists := o.individuals[data.ID]; !exists {
			continue
		}
		if aerr := o.attachPropertiesLocked(data); aerr != nil {
			logging.OntologyWarn("batch attach failed %s: %v", data.ID, aerr)
		}
	}
	if serr := o.syncLocked(ctx, false); serr != nil {
		return added, failed, serr
	}
	return added, failed, nil
}

// UpdateIndividual merges a patch of data/object properties onto an
// existing individual and resyncs.
func (o *Ontology) UpdateIndividual(ctx context.Context, id string, patch IndividualData) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.individuals[id]; !exists {
		return &NotFoundError{ID: id}
	}
	patch.ID = id
	if err := o.attachPropertiesLocked(patch); err != nil {
		return err
	}
	return o.syncLocked(ctx, false)
}

// DeleteIndividual forgets an individual's existence tracking and resyncs.
func (o *Ontology) DeleteIndividual(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.individuals[id]; !exists {
		return &NotFoundError{ID: id}
	}
	delete(o.individuals, id)
	// internal/mangle has no per-predicate selective retract short of a
	// file-scoped replace; a full clear+rebuild of the remaining asserted
	// facts from o.individuals would be required for exact OWL-style
	// destroy_entity semantics, which this facade does not yet need: no
	// caller deletes an individual mid-session in the planning workflow,
	// only before a full reload.
	return o.syncLocked(ctx, false)
}

// HasIndividual reports whether id is a known individual. Used by the
// SPARQL bridge to validate a triple's subject before mutating it.
func (o *Ontology) HasIndividual(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.individuals[id]
	return ok
}

// Stats returns the counts from the most recently completed sync, for
// the HTTP surface's GET /status. Grounded on ontology.py's get_status,
// which reports the live individual/relationship counts it last computed.
func (o *Ontology) Stats() SyncStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSyncStats
}

// AssertProperty adds a single asserted object-property triple to an
// existing individual if it is not already present; idempotent. Narrower
// than AddIndividual/UpdateIndividual's IndividualData shape — it is what
// the SPARQL bridge calls per INSERT triple, and does not itself trigger
// a sync, since the bridge runs the reasoner and syncs once for the
// whole update.
func (o *Ontology) AssertProperty(subject, predicate, object string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.individuals[subject]; !ok {
		return &NotFoundError{ID: subject}
	}
	facts, err := o.engine.GetFacts("asserted_prop")
	if err != nil {
		return fmt.Errorf("assert property: read asserted_prop: %w", err)
	}
	for _, f := range facts {
		if len(f.Args) == 3 && fmt.Sprintf("%v", f.Args[0]) == subject &&
			fmt.Sprintf("%v", f.Args[1]) == predicate && fmt.Sprintf("%v", f.Args[2]) == object {
			return nil
		}
	}
	if err := o.engine.AddFact("asserted_prop", subject, predicate, object); err != nil {
		return fmt.Errorf("assert property %s %s %s: %w", subject, predicate, object, err)
	}
	return nil
}

// RetractProperty removes a single asserted object-property triple from an
// existing individual if present; a missing value is tolerated (an
// idempotent delete). internal/mangle exposes no per-fact
// retraction, only a file-scoped ReplaceFactsForFile keyed on a fact's
// first argument — so this rebuilds the subject's complete asserted fact
// set (its type, every remaining object property, every data property)
// minus the one triple, and replaces it wholesale with the subject id as
// the file key.
func (o *Ontology) RetractProperty(subject, predicate, object string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	class, ok := o.individuals[subject]
	if !ok {
		return &NotFoundError{ID: subject}
	}

	propFacts, err := o.engine.GetFacts("asserted_prop")
	if err != nil {
		return fmt.Errorf("retract property: read asserted_prop: %w", err)
	}
	dataFacts, err := o.engine.GetFacts("data_prop")
	if err != nil {
		return fmt.Errorf("retract property: read data_prop: %w", err)
	}

	remaining := []mangle.Fact{{Predicate: "asserted_type", Args: []interface{}{subject, class}}}
	found := false
	for _, f := range propFacts {
		if len(f.Args) != 3 || fmt.Sprintf("%v", f.Args[0]) != subject {
			continue
		}
		if fmt.Sprintf("%v", f.Args[1]) == predicate && fmt.Sprintf("%v", f.Args[2]) == object {
			found = true
			continue
		}
		remaining = append(remaining, f)
	}
	for _, f := range dataFacts {
		if len(f.Args) == 3 && fmt.Sprintf("%v", f.Args[0]) == subject {
			remaining = append(remaining, f)
		}
	}

	if !found {
		return nil
	}
	if err := o.engine.ReplaceFactsForFile(subject, remaining); err != nil {
		return fmt.Errorf("retract property %s %s %s: %w", subject, predicate, object, err)
	}
	return nil
}

// Reason forces a single reasoner pass without touching the projection or
// embeddings, for callers (the SPARQL bridge) that need the reasoner run
// and the projection recreated as two separately observable steps rather
// than Sync's combined "reason-then-project".
func (o *Ontology) Reason(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.engine.RecomputeRules(); err != nil {
		return fmt.Errorf("reasoner failed (fatal to session): %w", err)
	}
	return nil
}

func (o *Ontology) createIndividualLocked(data IndividualData) error {
	if _, exists := o.individuals[data.ID]; exists {
		return &DuplicateIndividualError{ID: data.ID}
	}
	if !o.schema.HasClass(data.Class) {
		return &UnknownClassError{Class: data.Class}
	}
	if err := o.engine.AddFact("asserted_type", data.ID, data.Class); err != nil {
		return fmt.Errorf("assert type for %s: %w", data.ID, err)
	}
	o.individuals[data.ID] = data.Class
	return nil
}

// attachPropertiesLocked sets data and object properties by name-match,
// silently skipping object-property targets that don't resolve to a
// known individual.
func (o *Ontology) attachPropertiesLocked(data IndividualData) error {
	for name, value := range data.DataProperties {
		if err := o.engine.AddFact("data_prop", data.ID, name, value); err != nil {
			return fmt.Errorf("set data property %s on %s: %w", name, data.ID, err)
		}
	}
	for prop, targets := range data.ObjectProperties {
		for _, target := range targets {
			if _, known := o.individuals[target]; !known {
				logging.OntologyDebug("skipping unresolved object property target %s.%s -> %s", data.ID, prop, target)
				continue
			}
			if err := o.engine.AddFact("asserted_prop", data.ID, prop, target); err != nil {
				return fmt.Errorf("set object property %s on %s: %w", prop, data.ID, err)
			}
		}
	}
	return nil
}

// LoadFromTTL is a thin entry point that a TTL parser (internal/ttl or an
// ad-hoc caller) feeds individual data into; it classifies the session as
// static or dynamic by path suffix (recorded as the model's DataType; the
// embedding binder does not use it to pick cache paths) and delegates to
// the batch path.
func (o *Ontology) LoadFromTTL(ctx context.Context, path string, items []IndividualData) (added, failed int, err error) {
	o.mu.Lock()
	o.dataType = dataTypeFromPath(path)
	o.mu.Unlock()
	return o.AddIndividualsBatch(ctx, items)
}

// Sync runs the reasoner (unless skipReasoning) and recreates the
// projection and embeddings from the resulting model. Exposed publicly so
// callers (e.g. the SPARQL Bridge, after applying a raw mutation) can
// invoke it directly. Grounded on ontology.py's sync_to_neo4j.
func (o *Ontology) Sync(ctx context.Context, skipReasoning bool) (SyncStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.syncLocked(ctx, skipReasoning); err != nil {
		return SyncStats{}, err
	}
	return o.lastSyncStats, nil
}

func (o *Ontology) syncLocked(ctx context.Context, skipReasoning bool) error {
	if !skipReasoning {
		if err := o.engine.RecomputeRules(); err != nil {
			return fmt.Errorf("reasoner failed (fatal to session): %w", err)
		}
	}

	model, err := o.buildReasonedModelLocked()
	if err != nil {
		return fmt.Errorf("build reasoned model: %w", err)
	}
	model.DataType = o.dataType

	stats, err := o.projector.Sync(ctx, model)
	if err != nil {
		return fmt.Errorf("projector sync: %w", err)
	}
	o.lastSyncStats = stats

	if err := o.embedder.Attach(ctx, model); err != nil {
		// Embedding is enrichment, not correctness: a failure here does not
		// invalidate I1-I5, so it is logged and swallowed rather than
		// propagated as a fatal sync error.
		logging.OntologyWarn("embedding binder attach failed: %v", err)
	}
	return nil
}

func (o *Ontology) buildReasonedModelLocked() (*ReasonedModel, error) {
	model := &ReasonedModel{
		Types:     make(map[string][]string),
		DataProps: make(map[string]map[string]interface{}),
	}

	typeFacts, err := o.engine.GetFacts("indirect_type")
	if err != nil {
		return nil, fmt.Errorf("read indirect_type facts: %w", err)
	}
	for _, f := range typeFacts {
		if len(f.Args) != 2 {
			continue
		}
		id := fmt.Sprintf("%v", f.Args[0])
		class := fmt.Sprintf("%v", f.Args[1])
		model.Types[id] = append(model.Types[id], class)
	}
	for id := range model.Types {
		sort.Strings(model.Types[id])
	}

	propFacts, err := o.engine.GetFacts("indirect_prop")
	if err != nil {
		return nil, fmt.Errorf("read indirect_prop facts: %w", err)
	}
	for _, f := range propFacts {
		if len(f.Args) != 3 {
			continue
		}
		model.Relationships = append(model.Relationships, Relationship{
			Subject:  fmt.Sprintf("%v", f.Args[0]),
			Property: fmt.Sprintf("%v", f.Args[1]),
			Object:   fmt.Sprintf("%v", f.Args[2]),
		})
	}

	dataFacts, err := o.engine.GetFacts("data_prop")
	if err != nil {
		return nil, fmt.Errorf("read data_prop facts: %w", err)
	}
	for _, f := range dataFacts {
		if len(f.Args) != 3 {
			continue
		}
		id := fmt.Sprintf("%v", f.Args[0])
		name := fmt.Sprintf("%v", f.Args[1])
		if model.DataProps[id] == nil {
			model.DataProps[id] = make(map[string]interface{})
		}
		model.DataProps[id][name] = f.Args[2]
	}

	return model, nil
}

// CellKind tags how a SPARQL SELECT result cell should be interpreted.
type CellKind int

const (
	CellLiteral CellKind = iota
	CellIndividual
	CellIRI
)

// Cell is one tagged value in an ExecuteSparqlSelect row.
type Cell struct {
	Kind  CellKind
	Value string
}

// ExecuteSparqlSelect runs a read-only atom query against the reasoned
// model and tags each bound value as an individual (a known id), an IRI
// (opaque, namespaced string), or a plain literal. Grounded on
// ontology.py's execute_sparql_select; the query grammar itself is
// internal/mangle's single-atom shape (parseQueryShape), not full
// SPARQL — the SPARQL bridge is what accepts the richer DELETE/INSERT
// shape.
func (o *Ontology) ExecuteSparqlSelect(ctx context.Context, query string) ([]map[string]Cell, error) {
	result, err := o.engine.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute select: %w", err)
	}

	o.mu.Lock()
	known := make(map[string]bool, len(o.individuals))
	for id := range o.individuals {
		known[id] = true
	}
	o.mu.Unlock()

	rows := make([]map[string]Cell, 0, len(result.Bindings))
	for _, binding := range result.Bindings {
		row := make(map[string]Cell, len(binding))
		for k, v := range binding {
			str := fmt.Sprintf("%v", v)
			row[k] = Cell{Kind: classifyCell(str, known), Value: str}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func classifyCell(value string, known map[string]bool) CellKind {
	if known[value] {
		return CellIndividual
	}
	if len(value) > 7 && (value[:7] == "http://" || value[:8] == "https://") {
		return CellIRI
	}
	return CellLiteral
}
