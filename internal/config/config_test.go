package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "ontoplan" {
		t.Errorf("expected Name=ontoplan, got %s", cfg.Name)
	}
	if cfg.Graph.VectorMode != "fallback" {
		t.Errorf("expected VectorMode=fallback, got %s", cfg.Graph.VectorMode)
	}
	if cfg.Reasoner.FactLimit != 1000000 {
		t.Errorf("expected FactLimit=1000000, got %d", cfg.Reasoner.FactLimit)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("ONTOPLAN_GRAPH_DB", "")
	t.Setenv("ONTOPLAN_SCHEMA_PATH", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Ontology.SchemaPath = "testdata/static.ttl"
	cfg.Graph.DatabasePath = "testdata/graph.db"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Ontology.SchemaPath != "testdata/static.ttl" {
		t.Errorf("expected SchemaPath=testdata/static.ttl, got %s", loaded.Ontology.SchemaPath)
	}
	if loaded.Graph.DatabasePath != "testdata/graph.db" {
		t.Errorf("expected DatabasePath=testdata/graph.db, got %s", loaded.Graph.DatabasePath)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	os.Setenv("ONTOPLAN_GRAPH_DB", "/tmp/env-graph.db")
	defer os.Unsetenv("ONTOPLAN_GRAPH_DB")

	os.Setenv("ONTOPLAN_LISTEN_ADDR", ":9999")
	defer os.Unsetenv("ONTOPLAN_LISTEN_ADDR")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Graph.DatabasePath != "/tmp/env-graph.db" {
		t.Errorf("expected DatabasePath=/tmp/env-graph.db, got %s", cfg.Graph.DatabasePath)
	}
	if cfg.HTTP.ListenAddr != ":9999" {
		t.Errorf("expected ListenAddr=:9999, got %s", cfg.HTTP.ListenAddr)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid default config, got error: %v", err)
	}

	cfg.Graph.VectorMode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid vector mode")
	}
	cfg.Graph.VectorMode = "fallback"

	cfg.Ontology.SchemaPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing schema path")
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GetQueryTimeout() == 0 {
		t.Error("GetQueryTimeout should return non-zero duration")
	}
	if cfg.GetPlannerTimeout() == 0 {
		t.Error("GetPlannerTimeout should return non-zero duration")
	}
	if cfg.GetHTTPReadTimeout() == 0 {
		t.Error("GetHTTPReadTimeout should return non-zero duration")
	}
}
