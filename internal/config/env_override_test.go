package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Embedding(t *testing.T) {
	t.Run("GENAI_API_KEY sets provider if empty", func(t *testing.T) {
		t.Setenv("GENAI_API_KEY", "gen-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gen-key", cfg.Embedding.GenAIAPIKey)
		assert.Equal(t, "genai", cfg.Embedding.Provider)
	})

	t.Run("GENAI_API_KEY sets provider if ollama", func(t *testing.T) {
		t.Setenv("GENAI_API_KEY", "gen-key")

		cfg := &Config{
			Embedding: EmbeddingConfig{Provider: "ollama"},
		}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gen-key", cfg.Embedding.GenAIAPIKey)
		assert.Equal(t, "genai", cfg.Embedding.Provider)
	})

	t.Run("GENAI_API_KEY does not override other providers", func(t *testing.T) {
		t.Setenv("GENAI_API_KEY", "gen-key")

		cfg := &Config{
			Embedding: EmbeddingConfig{Provider: "custom"},
		}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gen-key", cfg.Embedding.GenAIAPIKey)
		assert.Equal(t, "custom", cfg.Embedding.Provider)
	})

	t.Run("Ollama overrides", func(t *testing.T) {
		t.Setenv("OLLAMA_ENDPOINT", "http://custom:11434")
		t.Setenv("OLLAMA_EMBEDDING_MODEL", "custom-model")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://custom:11434", cfg.Embedding.OllamaEndpoint)
		assert.Equal(t, "custom-model", cfg.Embedding.OllamaModel)
	})
}

func TestEnvOverrides_Paths(t *testing.T) {
	t.Run("Graph DB path", func(t *testing.T) {
		t.Setenv("ONTOPLAN_GRAPH_DB", "/tmp/test.db")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/test.db", cfg.Graph.DatabasePath)
	})

	t.Run("Schema path", func(t *testing.T) {
		t.Setenv("ONTOPLAN_SCHEMA_PATH", "/tmp/static.ttl")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/static.ttl", cfg.Ontology.SchemaPath)
	})

	t.Run("Listen addr", func(t *testing.T) {
		t.Setenv("ONTOPLAN_LISTEN_ADDR", ":1234")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, ":1234", cfg.HTTP.ListenAddr)
	})

	t.Run("Environment root", func(t *testing.T) {
		t.Setenv("ONTOPLAN_ENV_ROOT", "/tmp/env")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/env", cfg.Paths.EnvironmentRoot)
	})

	t.Run("Planner binary", func(t *testing.T) {
		t.Setenv("ONTOPLAN_PLANNER_BIN", "/usr/local/bin/fast-downward")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/usr/local/bin/fast-downward", cfg.Planner.BinaryPath)
	})
}
