package sqlite

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
)

func TestStore_MigrateRecordsVersions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	applied, err := store.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations returned error: %v", err)
	}
	if len(applied) != 1 {
		t.Fatalf("expected one recorded migration, got %+v", applied)
	}
	if applied[0].Version != 1 || len(applied[0].Checksum) != 64 || applied[0].AppliedAt.IsZero() {
		t.Fatalf("unexpected applied migration: %+v", applied[0])
	}
}

func TestScanMigrations(t *testing.T) {
	t.Run("orders by numeric version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"migrations/010_add_index.sql":      {Data: []byte("CREATE INDEX i ON t(a);")},
			"migrations/002_create_table.sql":   {Data: []byte("CREATE TABLE t (a TEXT);")},
			"migrations/README.md":              {Data: []byte("notes")},
			"migrations/001_initial_schema.sql": {Data: []byte("-- empty\n")},
		}

		migrations, err := scanMigrations(fsys)
		if err != nil {
			t.Fatalf("scanMigrations returned error: %v", err)
		}
		if len(migrations) != 3 {
			t.Fatalf("expected 3 migrations, got %d", len(migrations))
		}
		got := []int{migrations[0].Version, migrations[1].Version, migrations[2].Version}
		if got[0] != 1 || got[1] != 2 || got[2] != 10 {
			t.Fatalf("unexpected order: %v", got)
		}
		if migrations[2].Description != "add_index" {
			t.Fatalf("unexpected description %q", migrations[2].Description)
		}
	})

	t.Run("rejects badly named files", func(t *testing.T) {
		fsys := fstest.MapFS{"migrations/initial.sql": {Data: []byte("SELECT 1;")}}
		if _, err := scanMigrations(fsys); !errors.Is(err, ErrInvalidMigrationFile) {
			t.Fatalf("expected ErrInvalidMigrationFile, got %v", err)
		}
	})

	t.Run("rejects duplicate versions", func(t *testing.T) {
		fsys := fstest.MapFS{
			"migrations/001_a.sql": {Data: []byte("SELECT 1;")},
			"migrations/1_b.sql":   {Data: []byte("SELECT 2;")},
		}
		if _, err := scanMigrations(fsys); !errors.Is(err, ErrInvalidMigrationFile) {
			t.Fatalf("expected ErrInvalidMigrationFile, got %v", err)
		}
	})
}

func TestSplitStatements(t *testing.T) {
	content := "-- header\nCREATE TABLE a (x TEXT);\n\n-- second\nCREATE TABLE b (\n\ty TEXT\n);\n"
	statements := splitStatements(content)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %q", statements)
	}
	if statements[0] != "CREATE TABLE a (x TEXT)" {
		t.Fatalf("unexpected first statement %q", statements[0])
	}
}
