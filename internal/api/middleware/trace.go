package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/postdesk/internal/api/shared"
	"github.com/phrazzld/postdesk/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and response headers,
// and stores a request-scoped logger carrying it.
// This middleware should be applied early in the middleware chain to ensure
// that all subsequent handlers have access to the trace ID.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			w.Header().Set(shared.TraceIDHeader, traceID)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
