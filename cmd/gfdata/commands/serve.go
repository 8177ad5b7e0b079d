package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zimmerman-dev/gfdata/datastore"
	"github.com/zimmerman-dev/gfdata/logger"
	"github.com/zimmerman-dev/gfdata/refresh"
	"github.com/zimmerman-dev/gfdata/server"
)

// ServeCmd starts the HTTP API and, when configured, the refresh ticker
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gfdata HTTP API",
	Long: `Start the HTTP API serving dataset refresh triggers and paginated
dataset reads. When refresh.interval_seconds is set, a background ticker
refreshes all datasets on that interval.`,
	RunE: runServe,
}

var servePort int

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	orchestrator := buildOrchestrator(cfg, database)
	srv := server.New(orchestrator, datastore.NewStore(database), cfg.Server.APIKeys, logger.Logger).
		WithAllowedOrigins(cfg.Server.AllowedOrigins)

	var ticker *refresh.Ticker
	if cfg.Refresh.IntervalSeconds > 0 {
		interval := time.Duration(cfg.Refresh.IntervalSeconds) * time.Second
		ticker = refresh.NewTicker(orchestrator, interval, logger.Logger)
		ticker.Start()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.Server.Port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if ticker != nil {
			ticker.Stop()
		}
		return err
	case sig := <-sigChan:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	}

	if ticker != nil {
		ticker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
