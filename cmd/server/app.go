package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/postdesk/internal/auth"
	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/store"
	"github.com/phrazzld/postdesk/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds graceful shutdown of the server and the store.
const shutdownTimeout = 10 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	postStore  store.PostStore
	closeStore closeFunc

	verifier auth.TokenVerifier
	policy   auth.Policy

	// pageSource feeds the listing page; the store unless web.posts_api_url is set.
	pageSource web.PostLister

	registry *prometheus.Registry
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	verifier, err := auth.NewJWTVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	logger.Info("Session token verifier initialized", "cookie", cfg.Auth.SessionCookie)

	postStore, closeStore, err := setupPostStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize post store: %w", err)
	}

	return assembleApplication(cfg, logger, postStore, closeStore, verifier), nil
}

// assembleApplication wires the remaining dependencies around an open store.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	postStore store.PostStore,
	closeStore closeFunc,
	verifier auth.TokenVerifier,
) *application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var pageSource web.PostLister = postStore
	if cfg.Web.PostsAPIURL != "" {
		pageSource = web.NewAPIClient(cfg.Web.PostsAPIURL, nil)
		logger.Info("Listing page reads posts over HTTP", "url", cfg.Web.PostsAPIURL)
	}

	logger.Info("Application initialized successfully", "driver", cfg.Database.Driver)
	return &application{
		config:     cfg,
		logger:     logger,
		postStore:  postStore,
		closeStore: closeStore,
		verifier:   verifier,
		policy:     auth.DefaultPolicy(),
		pageSource: pageSource,
		registry:   registry,
	}
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup(ctx context.Context) {
	if app.closeStore != nil {
		if err := app.closeStore(ctx); err != nil {
			app.logger.Error("Error closing post store", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
