package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/redact"
)

// loadAppConfig loads the application configuration from the config file and
// environment.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"driver", cfg.Database.Driver)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		slog.Debug("Database configuration", "url", redact.URL(cfg.Database.URL))
	case config.DriverMongo:
		slog.Debug("Database configuration",
			"uri", redact.URL(cfg.Database.MongoURI),
			"database", cfg.Database.MongoDatabase)
	}

	return cfg, nil
}
