package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/study-planner/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":        {nil, ""},
		"not found":  {fmt.Errorf("lookup: %w", ErrNotFound), "not_found"},
		"conflict":   {&ValidationError{Kind: KindTimeConflict}, "time_conflict"},
		"untyped":    {&ValidationError{}, "validation"},
		"unexpected": {errors.New("boom"), "unexpected"},
	}
	for name, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}

func TestServiceLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	baseLogger := slog.New(slog.NewJSONHandler(&base, nil))
	ctx := logging.ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&scoped, nil)))

	serviceLogger(ctx, baseLogger, "PlannerService", "Create", "tab", "study").Info("hello")

	if base.Len() != 0 {
		t.Fatalf("expected base logger to stay silent, got %s", base.String())
	}
	var record map[string]any
	if err := json.Unmarshal(scoped.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if record["service"] != "PlannerService" || record["operation"] != "Create" || record["tab"] != "study" {
		t.Fatalf("unexpected attributes: %v", record)
	}
}

func TestLogOutcomeLevels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		err   error
		level string
	}{
		{"success", nil, "INFO"},
		{"validation", &ValidationError{Kind: KindMissingField}, "WARN"},
		{"not found", ErrNotFound, "WARN"},
		{"failure", errors.New("disk full"), "ERROR"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		logOutcome(context.Background(), logger, tc.err, "done")

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("%s: decode log record: %v", tc.name, err)
		}
		if record["level"] != tc.level {
			t.Fatalf("%s: expected level %s, got %v", tc.name, tc.level, record["level"])
		}
	}
}
