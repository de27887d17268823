package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("kept", "entry_id", "study-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "kept" || record["app"] != AppName || record["entry_id"] != "study-1" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestContextLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil logger from empty context")
	}
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}
	if got := FromContextOr(context.Background(), nil); got != slog.Default() {
		t.Fatalf("expected slog.Default")
	}

	ctx := ContextWithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("expected context logger")
	}
	if got := FromContextOr(ctx, fallback); got != logger {
		t.Fatalf("expected context logger to win over fallback")
	}
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Fatalf("expected nil logger to leave context unchanged")
	}
}
