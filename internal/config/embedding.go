package config

import "ontoplan/internal/embedding"

// EmbeddingConfig configures the embedding binder: provider, backend
// endpoints, the task type used when requesting embeddings, and whether
// the vector cache is generated fresh or loaded from disk.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "ollama" or "genai"
	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`
	GenAIAPIKey    string `yaml:"genai_api_key"`
	GenAIModel     string `yaml:"genai_model"`
	TaskType       string `yaml:"task_type"`

	Generate             bool   `yaml:"generate"` // true: call the embedding service; false: require a matching cache
	CategoryCachePath    string `yaml:"category_cache_path"`
	DescriptionCachePath string `yaml:"description_cache_path"`
}

// ToEngineConfig adapts the on-disk config shape to embedding.Config.
func (e EmbeddingConfig) ToEngineConfig() embedding.Config {
	return embedding.Config{
		Provider:       e.Provider,
		OllamaEndpoint: e.OllamaEndpoint,
		OllamaModel:    e.OllamaModel,
		GenAIAPIKey:    e.GenAIAPIKey,
		GenAIModel:     e.GenAIModel,
		TaskType:       e.TaskType,
	}
}

// ToBinderConfig adapts the on-disk config shape to embedding.BinderConfig.
func (e EmbeddingConfig) ToBinderConfig() embedding.BinderConfig {
	return embedding.BinderConfig{
		Generate:             e.Generate,
		CategoryCachePath:    e.CategoryCachePath,
		DescriptionCachePath: e.DescriptionCachePath,
	}
}
