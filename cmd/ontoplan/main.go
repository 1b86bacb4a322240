// Package main implements the ontoplan CLI: the command-line entry point
// around the HTTP API surface and the components it fronts.
//
// # File Index
//
//   - main.go       - entry point, rootCmd, global flags, bootstrap()
//   - cmd_serve.go  - serveCmd: starts the HTTP API surface
//   - cmd_load.go   - loadCmd: bulk TTL ingest
//   - cmd_sync.go   - syncCmd: re-reason and re-project
//   - cmd_query.go  - queryCmd and its subcommands (object-info, filter, path, search)
//   - cmd_plan.go   - planCmd: synthesizes a PDDL problem and runs the planner
//   - cmd_act.go    - actCmd: applies a single grounded action
//   - cmd_watch.go  - watchCmd: re-diffs dynamic_N.ttl as new versions appear
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ontoplan/internal/config"
	"ontoplan/internal/domain"
	"ontoplan/internal/embedding"
	"ontoplan/internal/graph"
	"ontoplan/internal/logging"
	"ontoplan/internal/mangle"
	"ontoplan/internal/ontology"
	"ontoplan/internal/sparql"
	"ontoplan/internal/ttl"
	"ontoplan/internal/worldupdate"
)

var (
	configPath string
	workspace  string
	verbose    bool

	// logger is the structured stderr/stdout CLI logger, separate from the
	// file-based category logger in internal/logging: this one is for the
	// operator watching the terminal, that one is for after-the-fact
	// debugging from action/log and .ontoplan/logs.
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ontoplan",
	Short: "ontoplan - ontology-backed robot task planning backend",
	Long: `ontoplan hosts an OWL-style knowledge store, a Datalog reasoner,
a graph-database projection, a PDDL problem synthesizer, and a world
update engine behind a small HTTP API.

Run "ontoplan serve" to start the API surface, or use the other
subcommands to drive the same components directly from the shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ontoplan.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level CLI logging")

	rootCmd.AddCommand(serveCmd, loadCmd, syncCmd, queryCmd, planCmd, actCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the components every subcommand needs, assembled from a
// single loaded config. Grounded on core/ontology_manager.py's
// OntologyManager, which owns exactly this set: the engine, the schema,
// the graph projection, the embedding binder, and the SPARQL bridge, all
// wired once at process start.
type app struct {
	cfg     *config.Config
	onto    *ontology.Ontology
	store   *graph.Store
	binder  *embedding.Binder
	engine  embedding.EmbeddingEngine
	bridge  *sparql.Bridge
	mapping *sparql.RelationshipMapping
	dom     *domain.Domain
}

// bootstrap loads the config and constructs every component down to the
// SPARQL bridge, in the dependency order ontology.New requires (reasoner
// engine and graph store before the ontology facade; the ontology facade
// before the bridge).
func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	schema, err := ontology.LoadSchemaSpec(cfg.Ontology.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	mangleCfg := mangle.Config{
		FactLimit:         cfg.Reasoner.FactLimit,
		DerivedFactsLimit: cfg.Reasoner.DerivedFactLimit,
		QueryTimeout:      int(cfg.GetQueryTimeout().Seconds()),
		SchemaPath:        cfg.Reasoner.SchemaPath,
		PolicyPath:        cfg.Reasoner.PolicyPath,
		AutoEval:          true,
	}
	reasoner, err := mangle.NewEngine(mangleCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("new mangle engine: %w", err)
	}

	store, err := graph.NewStore(cfg.Graph)
	if err != nil {
		return nil, fmt.Errorf("new graph store: %w", err)
	}

	engine, err := embedding.NewEngine(cfg.Embedding.ToEngineConfig())
	if err != nil {
		return nil, fmt.Errorf("new embedding engine: %w", err)
	}
	binder := embedding.NewBinder(engine, store, cfg.Embedding.ToBinderConfig())

	onto, err := ontology.New(reasoner, schema, store, binder)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("new ontology: %w", err)
	}

	mapping, err := sparql.LoadRelationshipMapping(cfg.Paths.RelationshipMappingPath)
	if err != nil {
		logging.BootWarn("no relationship mapping loaded (%v); inferred-relationship cleanup limited to the fixed predicate set", err)
		mapping = &sparql.RelationshipMapping{}
	}
	bridge := sparql.NewBridge(onto, store, mapping)

	dom, err := domain.ParseDomainFile(cfg.Paths.DomainPath)
	if err != nil {
		logging.BootWarn("no PDDL domain loaded (%v); the plan subcommand will be unavailable", err)
	}

	return &app{cfg: cfg, onto: onto, store: store, binder: binder, engine: engine, bridge: bridge, mapping: mapping, dom: dom}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// newExecutor builds the action executor against this app's bridge
// and the configured path layout. executedCount is recovered from the
// highest dynamic_N.ttl snapshot already on disk, so a restarted process
// resumes versioning where the last one left off.
func (a *app) newExecutor() (*worldupdate.Executor, error) {
	next, err := ttl.NextVersion(a.cfg.Paths.ActionWorldDir, "dynamic")
	if err != nil {
		return nil, fmt.Errorf("determine executed action count: %w", err)
	}
	return worldupdate.NewExecutor(a.bridge, a.mapping, a.cfg.Paths, a.cfg.Ontology, next-1), nil
}
