package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the name of the table used by goose to track migrations.
const MigrationTableName = "schema_migrations"

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateReset   = "reset"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// MigrationCommands lists the commands accepted by Migrate.
var MigrationCommands = []string{MigrateUp, MigrateDown, MigrateReset, MigrateStatus, MigrateVersion}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at INFO.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at ERROR. It does not exit; the error is returned from Migrate instead.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against db using the migrations embedded in the binary.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if db == nil {
		return fmt.Errorf("migrate: db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	startTime := time.Now()
	log.Info("starting migration command")

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, migrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, migrationsDir)
	case MigrateReset:
		err = goose.ResetContext(ctx, db, migrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, migrationsDir)
	case MigrateVersion:
		err = goose.VersionContext(ctx, db, migrationsDir)
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected one of %v)",
			command,
			MigrationCommands,
		)
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command completed",
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return nil
}
