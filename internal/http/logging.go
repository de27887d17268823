package http

import (
	"context"
	"log/slog"

	"github.com/example/study-planner/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// handlerLogger scopes the request logger to a screen and operation. The entry id
// resolved from the path is attached when present.
func handlerLogger(ctx context.Context, fallback *slog.Logger, screen, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContextOr(ctx, fallback)

	pairs := []any{"screen", screen}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if id, ok := EntryIDFromContext(ctx); ok && id != "" {
		pairs = append(pairs, "entry_id", id)
	}
	return logger.With(append(pairs, attrs...)...)
}
