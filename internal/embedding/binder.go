package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
	"ontoplan/internal/ontology"
)

// EmbeddingCacheMismatchError is returned in generate=false mode when the
// on-disk cache's metadata block disagrees with the configured model or
// dimensionality. Fatal in that mode: there is no way to tell whether the
// cached vectors correspond to the configuration currently running.
type EmbeddingCacheMismatchError struct {
	CachePath       string
	CachedModel     string
	ConfiguredModel string
	CachedDims      int
	ConfiguredDims  int
}

func (e *EmbeddingCacheMismatchError) Error() string {
	return fmt.Sprintf("embedding cache mismatch in %s: cached(model=%s, dims=%d) != configured(model=%s, dims=%d)",
		e.CachePath, e.CachedModel, e.CachedDims, e.ConfiguredModel, e.ConfiguredDims)
}

// cacheMetadata names the model and dimensionality the vectors in a cache
// file were produced with, so a later generate=false load can refuse to
// trust vectors produced by a different model.
type cacheMetadata struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// categoryCache is the category-embedding cache file: one vector per
// distinct category string (e.g. "chair"), shared by every individual
// with that category.
type categoryCache struct {
	Metadata cacheMetadata        `json:"metadata"`
	Vectors  map[string][]float32 `json:"vectors"`
}

// descriptionCacheEntry is one individual's description embedding.
type descriptionCacheEntry struct {
	ID        string    `json:"id"`
	Embedding []float32 `json:"embedding"`
}

// descriptionCache is the description-embedding cache file: a flat list
// keyed by individual ID, since descriptions (unlike categories) are
// rarely shared between individuals.
type descriptionCache struct {
	Metadata cacheMetadata           `json:"metadata"`
	Entries  []descriptionCacheEntry `json:"entries"`
}

// BinderConfig configures the Embedding Binder's two modes (§4.4).
type BinderConfig struct {
	// Generate selects the mode: true calls the embedding engine and
	// writes results to cache; false requires a pre-populated cache and
	// fails closed with EmbeddingCacheMismatchError on any disagreement.
	Generate bool

	CategoryCachePath    string
	DescriptionCachePath string
}

// Binder implements ontology.EmbeddingBinder: it attaches category and
// description embeddings to every Space/Artifact individual in a reasoned
// model, keeping the category space in memory for local cosine search and
// the description space in the graph projection's vector index. Grounded
// on original_source/ontology_server/core/embedding.py's EmbeddingManager
// (the generate/load split, the cache metadata block guarding against
// silently loading stale vectors). Cache files are always the configured
// CategoryCachePath/DescriptionCachePath; the model's static/dynamic
// DataType does not select between them.
type Binder struct {
	mu     sync.Mutex
	engine EmbeddingEngine
	store  *graph.Store
	cfg    BinderConfig

	categoryVectors   map[string][]float32
	descriptionLookup map[string][]float32
	loaded            bool
}

// NewBinder constructs a Binder. store may be nil if only category search
// is needed (description embeddings are then skipped).
func NewBinder(engine EmbeddingEngine, store *graph.Store, cfg BinderConfig) *Binder {
	return &Binder{
		engine:          engine,
		store:           store,
		cfg:             cfg,
		categoryVectors: make(map[string][]float32),
	}
}

// Attach implements ontology.EmbeddingBinder.
func (b *Binder) Attach(ctx context.Context, model *ontology.ReasonedModel) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.cfg.Generate && !b.loaded {
		if err := b.loadCachesLocked(); err != nil {
			return err
		}
	}

	if b.store != nil {
		if err := b.store.EnsureVectorIndex(b.engine.Dimensions()); err != nil {
			return fmt.Errorf("embedding: ensure vector index: %w", err)
		}
	}

	var descriptionsWritten []descriptionCacheEntry
	embedded, skipped := 0, 0

	for id, classes := range model.Types {
		if !isEmbeddable(classes) {
			continue
		}
		props := model.DataProps[id]
		category, hasCategory := stringProp(props, "category")
		description, hasDescription := stringProp(props, "description")
		if !hasCategory && !hasDescription {
			continue
		}

		if hasCategory {
			vec, err := b.categoryVectorLocked(ctx, category)
			if err != nil {
				logging.EmbeddingWarn("skipping category embedding for %s (%q): %v", id, category, err)
				skipped++
			} else {
				b.categoryVectors[category] = vec
			}
		}

		if hasDescription && b.store != nil {
			vec, err := b.descriptionVectorLocked(ctx, description, id)
			if err != nil {
				logging.EmbeddingWarn("skipping description embedding for %s: %v", id, err)
				skipped++
			} else {
				if err := b.store.UpsertEmbedding(id, vec); err != nil {
					return fmt.Errorf("embedding: attach description vector for %s: %w", id, err)
				}
				descriptionsWritten = append(descriptionsWritten, descriptionCacheEntry{ID: id, Embedding: vec})
				embedded++
			}
		}
	}

	if b.cfg.Generate {
		if err := b.saveCategoryCacheLocked(); err != nil {
			return err
		}
		if err := b.saveDescriptionCacheLocked(descriptionsWritten); err != nil {
			return err
		}
	}

	logging.Embedding("embedding attach complete: embedded=%d skipped=%d categories_known=%d", embedded, skipped, len(b.categoryVectors))
	return nil
}

func isEmbeddable(classes []string) bool {
	for _, c := range classes {
		if c == "Space" || c == "Artifact" {
			return true
		}
	}
	return false
}

func stringProp(props map[string]interface{}, key string) (string, bool) {
	if props == nil {
		return "", false
	}
	v, ok := props[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func (b *Binder) categoryVectorLocked(ctx context.Context, category string) ([]float32, error) {
	if !b.cfg.Generate {
		vec, ok := b.categoryVectors[category]
		if !ok {
			return nil, fmt.Errorf("category %q not present in cache", category)
		}
		return vec, nil
	}
	return EmbedForRole(ctx, b.engine, RoleCategoryLabel, category)
}

func (b *Binder) descriptionVectorLocked(ctx context.Context, description, id string) ([]float32, error) {
	if !b.cfg.Generate {
		vec, ok := b.descriptionLookup[id]
		if !ok {
			return nil, fmt.Errorf("description for %s not present in cache", id)
		}
		return vec, nil
	}
	return EmbedForRole(ctx, b.engine, RoleDescription, description)
}

func (b *Binder) loadCachesLocked() error {
	catData, err := os.ReadFile(b.cfg.CategoryCachePath)
	if err != nil {
		return fmt.Errorf("embedding: read category cache %s: %w", b.cfg.CategoryCachePath, err)
	}
	var cat categoryCache
	if err := json.Unmarshal(catData, &cat); err != nil {
		return fmt.Errorf("embedding: parse category cache %s: %w", b.cfg.CategoryCachePath, err)
	}
	if mismatch := b.checkMetadata(b.cfg.CategoryCachePath, cat.Metadata); mismatch != nil {
		return mismatch
	}
	b.categoryVectors = cat.Vectors

	descData, err := os.ReadFile(b.cfg.DescriptionCachePath)
	if err != nil {
		return fmt.Errorf("embedding: read description cache %s: %w", b.cfg.DescriptionCachePath, err)
	}
	var desc descriptionCache
	if err := json.Unmarshal(descData, &desc); err != nil {
		return fmt.Errorf("embedding: parse description cache %s: %w", b.cfg.DescriptionCachePath, err)
	}
	if mismatch := b.checkMetadata(b.cfg.DescriptionCachePath, desc.Metadata); mismatch != nil {
		return mismatch
	}
	b.descriptionLookup = make(map[string][]float32, len(desc.Entries))
	for _, e := range desc.Entries {
		b.descriptionLookup[e.ID] = e.Embedding
	}

	b.loaded = true
	return nil
}

func (b *Binder) checkMetadata(path string, got cacheMetadata) error {
	if got.Model != b.engine.Name() || got.Dimensions != b.engine.Dimensions() {
		return &EmbeddingCacheMismatchError{
			CachePath:       path,
			CachedModel:     got.Model,
			ConfiguredModel: b.engine.Name(),
			CachedDims:      got.Dimensions,
			ConfiguredDims:  b.engine.Dimensions(),
		}
	}
	return nil
}

func (b *Binder) saveCategoryCacheLocked() error {
	cache := categoryCache{
		Metadata: cacheMetadata{Model: b.engine.Name(), Dimensions: b.engine.Dimensions()},
		Vectors:  b.categoryVectors,
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("embedding: marshal category cache: %w", err)
	}
	if err := os.WriteFile(b.cfg.CategoryCachePath, data, 0o644); err != nil {
		return fmt.Errorf("embedding: write category cache %s: %w", b.cfg.CategoryCachePath, err)
	}
	return nil
}

func (b *Binder) saveDescriptionCacheLocked(entries []descriptionCacheEntry) error {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	cache := descriptionCache{
		Metadata: cacheMetadata{Model: b.engine.Name(), Dimensions: b.engine.Dimensions()},
		Entries:  entries,
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("embedding: marshal description cache: %w", err)
	}
	if err := os.WriteFile(b.cfg.DescriptionCachePath, data, 0o644); err != nil {
		return fmt.Errorf("embedding: write description cache %s: %w", b.cfg.DescriptionCachePath, err)
	}
	return nil
}

// CategoryMatch is one hit from SearchCategory: the category string itself
// (not an individual ID — many individuals may share a category) and its
// similarity to the query.
type CategoryMatch struct {
	Category   string
	Similarity float64
}

// SearchCategory performs in-process cosine top-k over the in-memory
// category map, per §4.4's "category is an in-process cosine top-k".
func (b *Binder) SearchCategory(ctx context.Context, query string, topK int) ([]CategoryMatch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queryVec, err := EmbedForRole(ctx, b.engine, RoleCategoryLabel, query)
	if err != nil {
		return nil, fmt.Errorf("embedding: embed category query: %w", err)
	}

	categories := make([]string, 0, len(b.categoryVectors))
	corpus := make([][]float32, 0, len(b.categoryVectors))
	for cat, vec := range b.categoryVectors {
		categories = append(categories, cat)
		corpus = append(corpus, vec)
	}

	results, err := FindTopK(queryVec, corpus, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]CategoryMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, CategoryMatch{Category: categories[r.Index], Similarity: r.Similarity})
	}
	return matches, nil
}
