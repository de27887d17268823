package http

import (
	"context"
	"log/slog"

	"github.com/example/study-planner/internal/logging"
)

type contextKey string

const entryIDContextKey contextKey = "entry_id"

// ContextWithLogger attaches the request scoped logger so services log with the same
// request id.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithEntryID injects the entry identifier resolved from the request path.
func ContextWithEntryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, entryIDContextKey, id)
}

// EntryIDFromContext extracts an entry identifier previously associated with the context.
func EntryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entryIDContextKey).(string)
	return id, ok
}
