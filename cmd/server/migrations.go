package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/platform/postgres"
)

// handleMigrations runs a single migration command against the configured
// Postgres database. It's called from run() when the -migrate flag is set.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %q driver, configured driver is %q",
			config.DriverPostgres, cfg.Database.Driver)
	}

	logger.Info("Executing migrations", "command", command)

	db, err := setupAppDatabase(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.Migrate(ctx, db, command, logger)
}
