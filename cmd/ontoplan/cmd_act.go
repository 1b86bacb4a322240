package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var actCmd = &cobra.Command{
	Use:   "act \"(move robot1 kitchen bedroom)\"",
	Short: "Apply a single grounded action through the Action Executor",
	Long: `Versions the TTL snapshot pair, diffs the rewrite, derives the
SPARQL UPDATE, and applies it through the SPARQL Bridge, writing a JSON
action log. Only "(move robot from to)" actions are implemented; there
is no HTTP equivalent, only this CLI-driven path.`,
	Args: cobra.ExactArgs(1),
	RunE: runAct,
}

func runAct(cmd *cobra.Command, args []string) error {
	logger.Info("applying action", zap.String("action", args[0]))

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	executor, err := a.newExecutor()
	if err != nil {
		return err
	}

	log, err := executor.ExecuteAction(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("action failed: %w", err)
	}
	fmt.Printf("action %d (%s) applied: %s\n", log.ActionNumber, log.CorrelationID, args[0])
	return nil
}
