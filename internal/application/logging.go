package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/study-planner/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContextOr(ctx, base)
	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// logOutcome logs a validation failure at warn level, any other failure at error
// level, and success at info level.
func logOutcome(ctx context.Context, logger *slog.Logger, err error, success string, attrs ...any) {
	if err == nil {
		logger.InfoContext(ctx, success, attrs...)
		return
	}
	pairs := append([]any{"error", err, "error_kind", ErrorKind(err)}, attrs...)
	var vErr *ValidationError
	if errors.As(err, &vErr) || errors.Is(err, ErrNotFound) {
		logger.WarnContext(ctx, "request rejected", pairs...)
		return
	}
	logger.ErrorContext(ctx, "operation failed", pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		if vErr.Kind != "" {
			return string(vErr.Kind)
		}
		return "validation"
	}

	return "unexpected"
}
