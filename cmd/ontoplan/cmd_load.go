package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ontoplan/internal/ttl"
)

var loadCmd = &cobra.Command{
	Use:   "load <file.ttl>",
	Short: "Bulk-ingest individuals from a TTL file",
	Long: `Parses the given TTL file, groups its triples by subject, and
asserts each subject as an individual in one reasoning pass. Grounded on
api.py's load_ttl, run here without going through the HTTP surface.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("loading TTL file", zap.String("path", path))

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := ttl.ToIndividuals(path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	added, failed, err := a.onto.LoadFromTTL(context.Background(), path, items)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	fmt.Printf("loaded %s: %d added, %d failed\n", path, added, failed)
	return nil
}
