package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback when there is
// none. The request logger takes precedence, so attributes set on fallback are
// not carried over; use ForComponent to keep a component name.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}

// ForComponent returns the logger for ctx, as chosen by FromContextOrDefault,
// tagged with the component name.
func ForComponent(ctx context.Context, fallback *slog.Logger, component string) *slog.Logger {
	return FromContextOrDefault(ctx, fallback).With(slog.String("component", component))
}
