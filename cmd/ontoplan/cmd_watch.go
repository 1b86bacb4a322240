package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ontoplan/internal/ttl"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the action world directory and re-diff new dynamic_N.ttl snapshots",
	Long: `Watches the configured action world directory for a new
dynamic_N.ttl dropped by an external environment-authoring tool (outside
ExecuteAction's own versioning) and prints the added/removed triple
counts for each one as it appears. Interactive-only: blocks until
interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	watcher, err := ttl.NewWatcher(a.cfg.Paths.ActionWorldDir)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(ctx, func(path string, added, removed int, diffErr error) {
		if diffErr != nil {
			logger.Warn("diff failed", zap.String("path", path), zap.Error(diffErr))
			return
		}
		logger.Info("snapshot diffed", zap.String("path", path), zap.Int("added", added), zap.Int("removed", removed))
		fmt.Printf("%s: +%d -%d\n", path, added, removed)
	}); err != nil {
		return fmt.Errorf("watch %s: %w", a.cfg.Paths.ActionWorldDir, err)
	}

	fmt.Printf("watching %s (ctrl-c to stop)\n", a.cfg.Paths.ActionWorldDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	watcher.Stop()
	return nil
}
