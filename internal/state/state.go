// Package state holds the single application state shared by every screen service.
// Screens receive an *AppState handle; mutations go through updater functions so that
// concurrent requests never interleave a read-modify-write.
package state

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/example/study-planner/internal/persistence"
)

// AppState is the application state container.
type AppState struct {
	mu      sync.RWMutex
	store   persistence.Store
	version atomic.Uint64
}

// New wraps store in an AppState.
func New(store persistence.Store) *AppState {
	return &AppState{store: store}
}

// Version increases every time a mutation is committed.
func (s *AppState) Version() uint64 {
	return s.version.Load()
}

// StudySchedule returns a copy of the weekly classes.
func (s *AppState) StudySchedule(ctx context.Context) ([]persistence.StudyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.StudyEntries(ctx)
}

// ExamSchedule returns a copy of the exams.
func (s *AppState) ExamSchedule(ctx context.Context) ([]persistence.ExamEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Exams(ctx)
}

// PlannerActivities returns a copy of the planner's activity list.
func (s *AppState) PlannerActivities(ctx context.Context) ([]persistence.PlannerEntry, error) {
	return s.Planner(ctx, persistence.PlannerActivities)
}

// PlannerStudyTasks returns a copy of the planner's study task list.
func (s *AppState) PlannerStudyTasks(ctx context.Context) ([]persistence.PlannerEntry, error) {
	return s.Planner(ctx, persistence.PlannerStudy)
}

// Planner returns a copy of one planner collection.
func (s *AppState) Planner(ctx context.Context, collection persistence.PlannerCollection) ([]persistence.PlannerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.PlannerEntries(ctx, collection)
}

// Profile returns the saved profile.
func (s *AppState) Profile(ctx context.Context) (persistence.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Profile(ctx)
}

// SetStudySchedule replaces the weekly classes with fn(previous).
func (s *AppState) SetStudySchedule(ctx context.Context, fn func([]persistence.StudyEntry) ([]persistence.StudyEntry, error)) error {
	return s.Update(ctx, func(tx *Tx) error {
		prev, err := tx.StudySchedule()
		if err != nil {
			return err
		}
		next, err := fn(prev)
		if err != nil {
			return err
		}
		tx.SetStudySchedule(next)
		return nil
	})
}

// SetExamSchedule replaces the exams with fn(previous).
func (s *AppState) SetExamSchedule(ctx context.Context, fn func([]persistence.ExamEntry) ([]persistence.ExamEntry, error)) error {
	return s.Update(ctx, func(tx *Tx) error {
		prev, err := tx.ExamSchedule()
		if err != nil {
			return err
		}
		next, err := fn(prev)
		if err != nil {
			return err
		}
		tx.SetExamSchedule(next)
		return nil
	})
}

// SetPlanner replaces one planner collection with fn(previous).
func (s *AppState) SetPlanner(ctx context.Context, collection persistence.PlannerCollection, fn func([]persistence.PlannerEntry) ([]persistence.PlannerEntry, error)) error {
	return s.Update(ctx, func(tx *Tx) error {
		prev, err := tx.Planner(collection)
		if err != nil {
			return err
		}
		next, err := fn(prev)
		if err != nil {
			return err
		}
		tx.SetPlanner(collection, next)
		return nil
	})
}

// SetProfile replaces the profile with fn(previous).
func (s *AppState) SetProfile(ctx context.Context, fn func(persistence.Profile) (persistence.Profile, error)) error {
	return s.Update(ctx, func(tx *Tx) error {
		prev, err := tx.Profile()
		if err != nil {
			return err
		}
		next, err := fn(prev)
		if err != nil {
			return err
		}
		tx.SetProfile(next)
		return nil
	})
}

// Update runs fn with exclusive access to the state. Collections fn reads are loaded
// on demand; collections it sets are written back once fn returns nil. Nothing is
// written when fn returns an error.
func (s *AppState) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{ctx: ctx, store: s.store}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty() {
		return nil
	}
	if err := tx.commit(); err != nil {
		return err
	}
	s.version.Add(1)
	return nil
}

// Reset clears every collection and the profile.
func (s *AppState) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("state: reset: %w", err)
	}
	s.version.Add(1)
	return nil
}

// Tx is the view of the state passed to Update.
type Tx struct {
	ctx   context.Context
	store persistence.Store

	study        []persistence.StudyEntry
	studyLoaded  bool
	studyDirty   bool
	exams        []persistence.ExamEntry
	examsLoaded  bool
	examsDirty   bool
	planner      map[persistence.PlannerCollection][]persistence.PlannerEntry
	plannerDirty map[persistence.PlannerCollection]bool
	profile      *persistence.Profile
	profileDirty bool
}

// StudySchedule returns the weekly classes as seen inside the transaction.
func (tx *Tx) StudySchedule() ([]persistence.StudyEntry, error) {
	if !tx.studyLoaded {
		entries, err := tx.store.StudyEntries(tx.ctx)
		if err != nil {
			return nil, fmt.Errorf("state: load study schedule: %w", err)
		}
		tx.study, tx.studyLoaded = entries, true
	}
	return persistence.CloneStudyEntries(tx.study), nil
}

// SetStudySchedule stages a new weekly class list.
func (tx *Tx) SetStudySchedule(entries []persistence.StudyEntry) {
	tx.study = persistence.CloneStudyEntries(entries)
	tx.studyLoaded, tx.studyDirty = true, true
}

// ExamSchedule returns the exams as seen inside the transaction.
func (tx *Tx) ExamSchedule() ([]persistence.ExamEntry, error) {
	if !tx.examsLoaded {
		exams, err := tx.store.Exams(tx.ctx)
		if err != nil {
			return nil, fmt.Errorf("state: load exam schedule: %w", err)
		}
		tx.exams, tx.examsLoaded = exams, true
	}
	return persistence.CloneExams(tx.exams), nil
}

// SetExamSchedule stages a new exam list.
func (tx *Tx) SetExamSchedule(exams []persistence.ExamEntry) {
	tx.exams = persistence.CloneExams(exams)
	tx.examsLoaded, tx.examsDirty = true, true
}

// Planner returns one planner collection as seen inside the transaction.
func (tx *Tx) Planner(collection persistence.PlannerCollection) ([]persistence.PlannerEntry, error) {
	if entries, ok := tx.planner[collection]; ok {
		return persistence.ClonePlannerEntries(entries), nil
	}
	entries, err := tx.store.PlannerEntries(tx.ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("state: load planner %s: %w", collection, err)
	}
	if tx.planner == nil {
		tx.planner = make(map[persistence.PlannerCollection][]persistence.PlannerEntry)
	}
	tx.planner[collection] = entries
	return persistence.ClonePlannerEntries(entries), nil
}

// SetPlanner stages a new list for one planner collection.
func (tx *Tx) SetPlanner(collection persistence.PlannerCollection, entries []persistence.PlannerEntry) {
	if tx.planner == nil {
		tx.planner = make(map[persistence.PlannerCollection][]persistence.PlannerEntry)
	}
	if tx.plannerDirty == nil {
		tx.plannerDirty = make(map[persistence.PlannerCollection]bool)
	}
	tx.planner[collection] = persistence.ClonePlannerEntries(entries)
	tx.plannerDirty[collection] = true
}

// Profile returns the profile as seen inside the transaction.
func (tx *Tx) Profile() (persistence.Profile, error) {
	if tx.profile == nil {
		profile, err := tx.store.Profile(tx.ctx)
		if err != nil {
			return persistence.Profile{}, fmt.Errorf("state: load profile: %w", err)
		}
		tx.profile = &profile
	}
	return *tx.profile, nil
}

// SetProfile stages a new profile.
func (tx *Tx) SetProfile(profile persistence.Profile) {
	tx.profile = &profile
	tx.profileDirty = true
}

func (tx *Tx) dirty() bool {
	return tx.studyDirty || tx.examsDirty || tx.profileDirty || len(tx.plannerDirty) > 0
}

func (tx *Tx) commit() error {
	if tx.studyDirty {
		if err := tx.store.ReplaceStudyEntries(tx.ctx, tx.study); err != nil {
			return fmt.Errorf("state: save study schedule: %w", err)
		}
	}
	if tx.examsDirty {
		if err := tx.store.ReplaceExams(tx.ctx, tx.exams); err != nil {
			return fmt.Errorf("state: save exam schedule: %w", err)
		}
	}
	for _, collection := range []persistence.PlannerCollection{persistence.PlannerActivities, persistence.PlannerStudy} {
		if !tx.plannerDirty[collection] {
			continue
		}
		if err := tx.store.ReplacePlannerEntries(tx.ctx, collection, tx.planner[collection]); err != nil {
			return fmt.Errorf("state: save planner %s: %w", collection, err)
		}
	}
	if tx.profileDirty {
		if err := tx.store.SaveProfile(tx.ctx, *tx.profile); err != nil {
			return fmt.Errorf("state: save profile: %w", err)
		}
	}
	return nil
}
