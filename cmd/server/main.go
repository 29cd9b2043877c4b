// Package main runs the postdesk HTTP server: a posts API with
// administrator-gated writes, its API document, and a public listing page.
//
// @title Postdesk API
// @version 1.0
// @description Posts service with administrator-gated writes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/postdesk/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"Run a database migration command and exit ("+strings.Join(postgres.MigrationCommands, "|")+")")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		slog.Error("postdesk exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration and logging, then either executes a migration
// command or serves until ctx is canceled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, migrateCmd, logger)
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
