// Package commands implements the gfdata CLI subcommands.
package commands

import (
	"database/sql"
	"time"

	"github.com/zimmerman-dev/gfdata/config"
	"github.com/zimmerman-dev/gfdata/datastore"
	"github.com/zimmerman-dev/gfdata/db"
	"github.com/zimmerman-dev/gfdata/errors"
	"github.com/zimmerman-dev/gfdata/fetch"
	"github.com/zimmerman-dev/gfdata/logger"
	"github.com/zimmerman-dev/gfdata/preprocess"
	"github.com/zimmerman-dev/gfdata/refresh"
)

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// openDatabase opens the dataset store database and applies migrations.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// buildOrchestrator wires the refresh pipeline: fetch client, metadata
// store, CSV preprocessor, and orchestrator over the configured table.
func buildOrchestrator(cfg *config.Config, database *sql.DB) *refresh.Orchestrator {
	store := datastore.NewStore(database)
	fetcher := fetch.NewClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		cfg.Fetch.RequestsPerMinute,
	)
	meta := refresh.NewMetadataStore(cfg.Staging.Dir, logger.Logger)
	loader := preprocess.NewCSVLoader(cfg.Staging.Dir, store, logger.Logger)

	return refresh.NewOrchestrator(cfg.Datasets, cfg.Staging.Dir, fetcher, meta, loader, logger.Logger)
}
