package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrInvalidMigrationFile is returned when an embedded file does not follow the
// {version}_{description}.sql naming convention.
var ErrInvalidMigrationFile = errors.New("sqlite: invalid migration file")

var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
	Checksum    string
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version   int
	Checksum  string
	AppliedAt time.Time
}

// Migrate applies every embedded migration that has not been recorded yet. Each
// migration runs in its own transaction together with its bookkeeping row, so it is
// safe to call more than once.
func (s *Store) Migrate(ctx context.Context) error {
	migrations, err := scanMigrations(migrationFiles)
	if err != nil {
		return err
	}

	if _, err := s.pool.DB().ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		checksum TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations table: %w", err)
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, migration := range migrations {
		if done[migration.Version] {
			continue
		}
		if err := s.applyMigration(ctx, migration); err != nil {
			return err
		}
	}
	return nil
}

// AppliedMigrations lists the recorded migrations in version order.
func (s *Store) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
		)
		if err := rows.Scan(&m.Version, &m.Checksum, &appliedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan applied migration: %w", err)
		}
		if m.AppliedAt, err = time.Parse(timestampLayout, appliedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse applied_at for version %d: %w", m.Version, err)
		}
		applied = append(applied, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate applied migrations: %w", err)
	}
	return applied, nil
}

func (s *Store) applyMigration(ctx context.Context, migration Migration) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range splitStatements(migration.SQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: migration %03d_%s statement %d: %w", migration.Version, migration.Description, i+1, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, checksum, applied_at) VALUES (?, ?, ?)`,
			migration.Version, migration.Checksum, formatTimestamp(time.Now()),
		)
		if err != nil {
			return fmt.Errorf("sqlite: record migration %d: %w", migration.Version, err)
		}
		return nil
	})
}

// scanMigrations reads the .sql files at the root of fsys's migrations directory
// and returns them in ascending version order.
func scanMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: read migrations: %w", err)
	}

	seen := make(map[int]string, len(entries))
	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			return nil, fmt.Errorf("%w: %s does not match {version}_{description}.sql", ErrInvalidMigrationFile, entry.Name())
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMigrationFile, entry.Name(), err)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("%w: version %d in both %s and %s", ErrInvalidMigrationFile, version, other, entry.Name())
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(fsys, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("sqlite: read %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(content)
		migrations = append(migrations, Migration{
			Version:     version,
			Description: matches[2],
			SQL:         string(content),
			Checksum:    hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// splitStatements splits content on semicolons and drops comment-only lines.
func splitStatements(content string) []string {
	var statements []string
	for _, chunk := range strings.Split(content, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
