package slogx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithContext stores logger in ctx for FromContext.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request logger, or slog.Default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithUser tags the request logger with the authenticated principal so that
// every later line of the request carries user and business ids.
func WithUser(ctx context.Context, userID, businessID string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(
		slog.String("user_id", userID),
		slog.String("business_id", businessID),
	))
}
