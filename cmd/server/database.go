package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/platform/memory"
	"github.com/phrazzld/postdesk/internal/platform/mongo"
	"github.com/phrazzld/postdesk/internal/platform/postgres"
	"github.com/phrazzld/postdesk/internal/store"
)

// closeFunc releases the resources held by a post store backend.
type closeFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// setupAppDatabase opens the Postgres pool and verifies it with a ping.
func setupAppDatabase(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

// setupPostStore builds the post store selected by database.driver.
// The returned closeFunc must be called on shutdown.
func setupPostStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (store.PostStore, closeFunc, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, logger); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		closeDB := func(context.Context) error { return db.Close() }
		return postgres.NewPostgresPostStore(db, logger), closeDB, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s := mongo.NewMongoPostStore(client.Database(cfg.MongoDatabase), logger)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		logger.Info("MongoDB connection established", "database", cfg.MongoDatabase)
		return s, client.Disconnect, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory post store; data is lost on restart")
		return memory.NewPostStore(logger), noopClose, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}
