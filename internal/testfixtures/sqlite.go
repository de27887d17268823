package testfixtures

import (
	"context"
	"testing"

	"github.com/example/study-planner/internal/persistence/sqlite"
)

// NewSQLiteStore opens a private in-memory SQLite store and migrates it. The store is
// closed when the test finishes.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	store, err := sqlite.Open()
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	tb.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
