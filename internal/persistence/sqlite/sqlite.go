package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/study-planner/internal/persistence"
)

const (
	timestampLayout = time.RFC3339Nano
	dateLayout      = "2006-01-02"
)

// Store implements persistence.Store on a private in-memory SQLite database.
type Store struct {
	pool *ConnectionPool
}

var _ persistence.Store = (*Store)(nil)

// Open creates a fresh in-memory database. Each call gets its own database name, so
// two stores never share state. Nothing is written to disk.
func Open() (*Store, error) {
	dsn := fmt.Sprintf("file:studyplanner-%s?mode=memory&cache=shared", uuid.NewString())
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the database. The in-memory contents are discarded.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- timetable ---

// StudyEntries returns the timetable classes in stored order.
func (s *Store) StudyEntries(ctx context.Context) ([]persistence.StudyEntry, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT id, code, name, room, day, start_hour, end_hour, color, created_at, updated_at
		FROM study_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query study entries: %w", err)
	}
	defer rows.Close()

	entries := make([]persistence.StudyEntry, 0)
	for rows.Next() {
		var (
			entry            persistence.StudyEntry
			day              int
			created, updated string
		)
		if err := rows.Scan(&entry.ID, &entry.Code, &entry.Name, &entry.Room, &day, &entry.Start, &entry.End, &entry.Color, &created, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: scan study entry: %w", err)
		}
		entry.Day = time.Weekday(day)
		if entry.CreatedAt, entry.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate study entries: %w", err)
	}
	return entries, nil
}

// ReplaceStudyEntries overwrites the timetable classes in one transaction.
func (s *Store) ReplaceStudyEntries(ctx context.Context, entries []persistence.StudyEntry) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM study_entries`); err != nil {
			return fmt.Errorf("sqlite: clear study entries: %w", err)
		}
		for i, entry := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO study_entries (id, position, code, name, room, day, start_hour, end_hour, color, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				entry.ID, i, entry.Code, entry.Name, entry.Room, int(entry.Day), entry.Start, entry.End, entry.Color,
				formatTimestamp(entry.CreatedAt), formatTimestamp(entry.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("sqlite: insert study entry %s: %w", entry.ID, err)
			}
		}
		return nil
	})
}

// Exams returns the exams in stored order.
func (s *Store) Exams(ctx context.Context) ([]persistence.ExamEntry, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT id, code, name, room, exam_type, exam_date, start_hour, end_hour, created_at, updated_at
		FROM exams ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query exams: %w", err)
	}
	defer rows.Close()

	exams := make([]persistence.ExamEntry, 0)
	for rows.Next() {
		var (
			exam             persistence.ExamEntry
			examType, date   string
			created, updated string
		)
		if err := rows.Scan(&exam.ID, &exam.Code, &exam.Name, &exam.Room, &examType, &date, &exam.Start, &exam.End, &created, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: scan exam: %w", err)
		}
		exam.Type = persistence.ExamType(examType)
		if exam.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if exam.CreatedAt, exam.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate exams: %w", err)
	}
	return exams, nil
}

// ReplaceExams overwrites the exam list in one transaction.
func (s *Store) ReplaceExams(ctx context.Context, exams []persistence.ExamEntry) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM exams`); err != nil {
			return fmt.Errorf("sqlite: clear exams: %w", err)
		}
		for i, exam := range exams {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO exams (id, position, code, name, room, exam_type, exam_date, start_hour, end_hour, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				exam.ID, i, exam.Code, exam.Name, exam.Room, string(exam.Type), formatDate(exam.Date), exam.Start, exam.End,
				formatTimestamp(exam.CreatedAt), formatTimestamp(exam.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("sqlite: insert exam %s: %w", exam.ID, err)
			}
		}
		return nil
	})
}

// --- planner ---

// PlannerEntries returns one planner collection in stored order.
func (s *Store) PlannerEntries(ctx context.Context, collection persistence.PlannerCollection) ([]persistence.PlannerEntry, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("%w: %q", persistence.ErrUnknownCollection, collection)
	}

	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT id, title, subject, description, category, original_category, other_detail,
		       entry_date, start_time, end_time, completed, created_at, updated_at
		FROM planner_entries WHERE collection = ? ORDER BY position`, string(collection))
	if err != nil {
		return nil, fmt.Errorf("sqlite: query planner entries: %w", err)
	}
	defer rows.Close()

	entries := make([]persistence.PlannerEntry, 0)
	for rows.Next() {
		var (
			entry            persistence.PlannerEntry
			date             string
			created, updated string
		)
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Subject, &entry.Description, &entry.Category,
			&entry.OriginalCategory, &entry.OtherDetail, &date, &entry.StartTime, &entry.EndTime, &entry.Completed,
			&created, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: scan planner entry: %w", err)
		}
		entry.Collection = collection
		if entry.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if entry.CreatedAt, entry.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate planner entries: %w", err)
	}
	return entries, nil
}

// ReplacePlannerEntries overwrites one planner collection in one transaction.
func (s *Store) ReplacePlannerEntries(ctx context.Context, collection persistence.PlannerCollection, entries []persistence.PlannerEntry) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %q", persistence.ErrUnknownCollection, collection)
	}

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM planner_entries WHERE collection = ?`, string(collection)); err != nil {
			return fmt.Errorf("sqlite: clear planner entries: %w", err)
		}
		for i, entry := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO planner_entries (collection, id, position, title, subject, description, category,
					original_category, other_detail, entry_date, start_time, end_time, completed, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				string(collection), entry.ID, i, entry.Title, entry.Subject, entry.Description, entry.Category,
				entry.OriginalCategory, entry.OtherDetail, formatDate(entry.Date), entry.StartTime, entry.EndTime,
				entry.Completed, formatTimestamp(entry.CreatedAt), formatTimestamp(entry.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("sqlite: insert planner entry %s: %w", entry.ID, err)
			}
		}
		return nil
	})
}

// --- profile ---

// Profile returns the saved profile, or the zero Profile when none was saved.
func (s *Store) Profile(ctx context.Context) (persistence.Profile, error) {
	var profile persistence.Profile
	err := s.pool.DB().QueryRowContext(ctx, `
		SELECT full_name, student_id, faculty, year FROM profile WHERE id = 1`,
	).Scan(&profile.FullName, &profile.StudentID, &profile.Faculty, &profile.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Profile{}, nil
	}
	if err != nil {
		return persistence.Profile{}, fmt.Errorf("sqlite: query profile: %w", err)
	}
	return profile, nil
}

// SaveProfile overwrites the profile.
func (s *Store) SaveProfile(ctx context.Context, profile persistence.Profile) error {
	_, err := s.pool.DB().ExecContext(ctx, `
		INSERT INTO profile (id, full_name, student_id, faculty, year) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			student_id = excluded.student_id,
			faculty = excluded.faculty,
			year = excluded.year`,
		profile.FullName, profile.StudentID, profile.Faculty, profile.Year,
	)
	if err != nil {
		return fmt.Errorf("sqlite: save profile: %w", err)
	}
	return nil
}

// Reset clears every table in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"study_entries", "exams", "planner_entries", "profile"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("sqlite: clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	createdAt, err := time.Parse(timestampLayout, created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("sqlite: parse created_at %q: %w", created, err)
	}
	updatedAt, err := time.Parse(timestampLayout, updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("sqlite: parse updated_at %q: %w", updated, err)
	}
	return createdAt, updatedAt, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse date %q: %w", value, err)
	}
	return date, nil
}
