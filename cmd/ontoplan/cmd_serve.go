package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ontoplan/internal/api"
	"ontoplan/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API surface",
	Long: `Starts the full HTTP API: individuals CRUD, TTL ingest, sync,
SPARQL select/update, semantic search, and the object-info/filter/path
query endpoints.

Listens on the address configured in the config file's (--config) http.listen_addr
and blocks until interrupted.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("starting server")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	server := api.NewServer(a.onto, a.store, a.bridge, a.engine, a.binder, api.Config{
		EnvID:        a.cfg.Ontology.EnvID,
		ListenAddr:   a.cfg.HTTP.ListenAddr,
		ReadTimeout:  a.cfg.GetHTTPReadTimeout(),
		WriteTimeout: a.cfg.GetHTTPWriteTimeout(),
	})

	errCh := make(chan error, 1)
	go func() {
		logging.Boot("ontoplan listening on %s (env=%s)", a.cfg.HTTP.ListenAddr, a.cfg.Ontology.EnvID)
		logger.Info("listening", zap.String("addr", a.cfg.HTTP.ListenAddr), zap.String("env", a.cfg.Ontology.EnvID))
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-sigCh:
		logging.Boot("shutting down")
		logger.Info("shutting down")
		return server.Shutdown(context.Background())
	}
}
