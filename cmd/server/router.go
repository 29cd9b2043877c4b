package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/postdesk/internal/api"
	_ "github.com/phrazzld/postdesk/internal/api/docs" // Register the API document
	apiMiddleware "github.com/phrazzld/postdesk/internal/api/middleware"
	"github.com/phrazzld/postdesk/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	metrics := apiMiddleware.NewMetrics(app.registry)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Handler)

	postHandler := api.NewPostHandler(app.postStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier, app.policy)

	api.RegisterPostRoutes(r, postHandler, authMiddleware)
	r.Route("/api", func(r chi.Router) {
		api.RegisterPostRoutes(r, postHandler, authMiddleware)
	})

	r.Get("/api-doc/*", httpSwagger.Handler(
		httpSwagger.URL("/api-doc/doc.json"),
	))

	r.Method(http.MethodGet, "/", web.NewPageHandler(app.pageSource))

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
