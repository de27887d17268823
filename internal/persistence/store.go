package persistence

import "context"

// Store keeps whole-collection snapshots of the application state. Replace operations
// overwrite the collection atomically and preserve slice order.
type Store interface {
	StudyEntries(ctx context.Context) ([]StudyEntry, error)
	ReplaceStudyEntries(ctx context.Context, entries []StudyEntry) error

	Exams(ctx context.Context) ([]ExamEntry, error)
	ReplaceExams(ctx context.Context, exams []ExamEntry) error

	PlannerEntries(ctx context.Context, collection PlannerCollection) ([]PlannerEntry, error)
	ReplacePlannerEntries(ctx context.Context, collection PlannerCollection, entries []PlannerEntry) error

	Profile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, profile Profile) error

	// Reset clears every collection and the profile.
	Reset(ctx context.Context) error
	Close() error
}
