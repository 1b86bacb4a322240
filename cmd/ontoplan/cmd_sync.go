package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force a reasoner pass and full projection/embedding resync",
	Long:  `Grounded on api.py's sync_ontology, run here without the HTTP surface.`,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	logger.Info("forcing reasoner/projection resync")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.onto.Sync(context.Background(), false)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	fmt.Printf("synced: %d individuals, %d relationships\n", stats.Individuals, stats.Relationships)
	return nil
}
