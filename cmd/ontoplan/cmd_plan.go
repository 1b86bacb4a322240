package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ontoplan/internal/logging"
	"ontoplan/internal/pddl"
	"ontoplan/internal/planner"
)

var planProblemName string

var planCmd = &cobra.Command{
	Use:   "plan <goal-formula>",
	Short: "Synthesize a PDDL problem and run the external planner",
	Long: `Runs the PDDL Synthesizer end to end: normalizes the goal
formula, walks the graph projection to ground a problem, writes
problem.pddl, then spawns the configured Fast-Downward binary against it
and writes solution.plan plus debug.json. Grounded on
original_source/agent/tools/pddl_plan.py's pddl_plan tool.

The writer lock the synthesizer might have needed is released before the
subprocess is spawned: Synthesize only reads the projection, it never
mutates the ontology, so there is nothing to hold across the planner
invocation here.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planProblemName, "name", "task", "Problem name (used in problem.pddl's (problem ...) header)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	goalFormula := args[0]
	logger.Info("synthesizing PDDL problem", zap.String("goal", goalFormula), zap.String("name", planProblemName))

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.dom == nil {
		return fmt.Errorf("plan: no PDDL domain loaded from %s", a.cfg.Paths.DomainPath)
	}

	synth := pddl.NewSynthesizer(a.dom, a.store, "robot")
	problem, debug, err := synth.Synthesize(planProblemName, goalFormula)
	if err != nil {
		return fmt.Errorf("synthesize problem: %w", err)
	}

	planDir := a.cfg.Paths.ActionPlanDir
	if err := os.MkdirAll(planDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", planDir, err)
	}
	problemPath := filepath.Join(planDir, "problem.pddl")
	if err := problem.Write(problemPath); err != nil {
		return fmt.Errorf("write problem file: %w", err)
	}
	logging.PDDL("wrote problem file %s", problemPath)

	result, runErr := planner.Run(context.Background(), a.cfg, a.cfg.Paths.DomainPath, problemPath, planDir)
	if result != nil {
		debug.PlannerStdout = result.Stdout
		debug.PlannerStderr = result.Stderr
	}

	debugPath := filepath.Join(planDir, "debug.json")
	if writeErr := writeDebugRecord(debugPath, debug); writeErr != nil {
		logging.PDDLError("failed to write debug record: %v", writeErr)
	}

	if runErr != nil {
		return fmt.Errorf("run planner: %w", runErr)
	}

	fmt.Printf("plan found: %s\n", result.PlanPath)
	fmt.Println(result.PlanText)
	return nil
}

func writeDebugRecord(path string, debug *pddl.DebugRecord) error {
	data, err := json.MarshalIndent(debug, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal debug record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
