package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// newHTTPServer builds the server with the configured timeouts.
func (app *application) newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           handler,
		ReadTimeout:       time.Duration(app.config.Server.ReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Duration(app.config.Server.WriteTimeoutSeconds) * time.Second,
	}
}

// startHTTPServer listens on the configured port and serves until ctx is canceled.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := app.newHTTPServer(router)

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		app.cleanup(context.Background())
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}

	return app.serve(ctx, server, listener)
}

// serve runs server on listener and shuts it down gracefully when ctx is
// canceled. The store is closed once in-flight requests have drained.
func (app *application) serve(ctx context.Context, server *http.Server, listener net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			app.logger.Error("Server failed", "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		runErr = errors.Join(runErr, fmt.Errorf("server shutdown failed: %w", err))
	}

	app.cleanup(shutdownCtx)

	app.logger.Info("Server shutdown completed")
	return runErr
}
