// Package config loads and validates ontoplan's on-disk configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ontoplan/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config holds all ontoplan configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Ontology  OntologyConfig  `yaml:"ontology"`
	Reasoner  MangleConfig    `yaml:"reasoner"`
	Graph     GraphConfig     `yaml:"graph"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Planner   PlannerConfig   `yaml:"planner"`
	Paths     PathsConfig     `yaml:"paths"`
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`

	CoreLimits CoreLimits `yaml:"core_limits" json:"core_limits"`
}

// OntologyConfig locates the schema and names the base IRI individuals are minted under.
type OntologyConfig struct {
	SchemaPath string `yaml:"schema_path"` // YAML class/property declaration read by ontology.LoadSchemaSpec; OWL/TTL schema files are not parsed
	BaseIRI    string `yaml:"base_iri"`
	EnvID      string `yaml:"env_id"` // the single environment this process serves, reported by GET /status
}

// GraphConfig configures the SQLite-backed graph projection.
type GraphConfig struct {
	DatabasePath string `yaml:"database_path"`
	VectorMode   string `yaml:"vector_mode"` // "cgo" (sqlite-vec extension) or "fallback" (brute-force cosine)
}

// PlannerConfig configures the external PDDL solver invocation.
type PlannerConfig struct {
	BinaryPath string `yaml:"binary_path"` // path to the Fast-Downward driver script
	Solver     string `yaml:"solver"`      // lazy_wastar, astar, lama
	Heuristic  string `yaml:"heuristic"`
	Weight     int    `yaml:"weight"`
	Timeout    string `yaml:"timeout"`
}

// PathsConfig locates the on-disk environment and action-log layout.
type PathsConfig struct {
	EnvironmentRoot         string `yaml:"environment_root"`          // data/env/{static,dynamic_N}.ttl
	ActionPlanDir           string `yaml:"action_plan_dir"`           // action/plan/
	ActionWorldDir          string `yaml:"action_world_dir"`          // action/world/
	ActionLogDir            string `yaml:"action_log_dir"`            // action/log/
	RelationshipMappingPath string `yaml:"relationship_mapping_path"` // relationship_mapping.json, read by the SPARQL bridge and TTL rewriter
	DomainPath              string `yaml:"domain_path"`               // domain.pddl, read by the domain parser and PDDL synthesizer
}

// HTTPConfig configures the HTTP surface.
type HTTPConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "ontoplan",
		Version: "0.1.0",

		Ontology: OntologyConfig{
			SchemaPath: "data/env/static.ttl",
			BaseIRI:    "http://ontoplan.local/env#",
			EnvID:      "default",
		},

		Reasoner: MangleConfig{
			SchemaPath:       "",
			PolicyPath:       "",
			FactLimit:        1000000,
			DerivedFactLimit: DefaultDerivedFactLimit,
			QueryTimeout:     "30s",
		},

		Graph: GraphConfig{
			DatabasePath: "data/graph.db",
			VectorMode:   "fallback",
		},

		Embedding: EmbeddingConfig{
			Provider:             "ollama",
			OllamaEndpoint:       "http://localhost:11434",
			OllamaModel:          "embeddinggemma",
			GenAIModel:           "gemini-embedding-001",
			TaskType:             "SEMANTIC_SIMILARITY",
			Generate:             true,
			CategoryCachePath:    "data/cache/category_embeddings.json",
			DescriptionCachePath: "data/cache/description_embeddings.json",
		},

		Planner: PlannerConfig{
			BinaryPath: "fast-downward.py",
			Solver:     "lazy_wastar",
			Heuristic:  "ff",
			Weight:     2,
			Timeout:    "60s",
		},

		Paths: PathsConfig{
			EnvironmentRoot:         "data/env",
			ActionPlanDir:           "action/plan",
			ActionWorldDir:          "action/world",
			ActionLogDir:            "action/log",
			RelationshipMappingPath: "relationship_mapping.json",
			DomainPath:              "domain.pddl",
		},

		HTTP: HTTPConfig{
			ListenAddr:   ":8090",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "ontoplan.log",
		},

		CoreLimits: CoreLimits{
			MaxTotalMemoryMB:      4096,
			MaxConcurrentShards:   1,
			MaxConcurrentAPICalls: 8,
			MaxSessionDurationMin: 0,
			MaxFactsInKernel:      250000,
			MaxDerivedFactsLimit:  100000,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("Config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("Config loaded: ontology=%s graph=%s", cfg.Ontology.SchemaPath, cfg.Graph.DatabasePath)

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides after file load.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("ONTOPLAN_GRAPH_DB"); path != "" {
		c.Graph.DatabasePath = path
	}
	if path := os.Getenv("ONTOPLAN_SCHEMA_PATH"); path != "" {
		c.Ontology.SchemaPath = path
	}
	if addr := os.Getenv("ONTOPLAN_LISTEN_ADDR"); addr != "" {
		c.HTTP.ListenAddr = addr
	}
	if root := os.Getenv("ONTOPLAN_ENV_ROOT"); root != "" {
		c.Paths.EnvironmentRoot = root
	}
	if bin := os.Getenv("ONTOPLAN_PLANNER_BIN"); bin != "" {
		c.Planner.BinaryPath = bin
	}

	if key := os.Getenv("GENAI_API_KEY"); key != "" {
		c.Embedding.GenAIAPIKey = key
		if c.Embedding.Provider == "" || c.Embedding.Provider == "ollama" {
			c.Embedding.Provider = "genai"
		}
	}
	if endpoint := os.Getenv("OLLAMA_ENDPOINT"); endpoint != "" {
		c.Embedding.OllamaEndpoint = endpoint
	}
	if model := os.Getenv("OLLAMA_EMBEDDING_MODEL"); model != "" {
		c.Embedding.OllamaModel = model
	}
}

// GetQueryTimeout returns the reasoner query timeout as a duration.
func (c *Config) GetQueryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Reasoner.QueryTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetPlannerTimeout returns the planner subprocess timeout as a duration.
// The default is a hard 60 seconds; the config field exists so an
// operator can tighten it further, never loosen it past what the solver
// actually needs.
func (c *Config) GetPlannerTimeout() time.Duration {
	d, err := time.ParseDuration(c.Planner.Timeout)
	if err != nil || d > 60*time.Second {
		return 60 * time.Second
	}
	return d
}

// GetHTTPReadTimeout returns the HTTP server read timeout.
func (c *Config) GetHTTPReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.ReadTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetHTTPWriteTimeout returns the HTTP server write timeout.
func (c *Config) GetHTTPWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.WriteTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ontology.SchemaPath == "" {
		return fmt.Errorf("ontology.schema_path must be set")
	}
	if c.Graph.DatabasePath == "" {
		return fmt.Errorf("graph.database_path must be set")
	}
	if c.Graph.VectorMode != "cgo" && c.Graph.VectorMode != "fallback" {
		return fmt.Errorf("graph.vector_mode must be 'cgo' or 'fallback', got %q", c.Graph.VectorMode)
	}
	if err := c.ValidateCoreLimits(); err != nil {
		return err
	}
	return nil
}
