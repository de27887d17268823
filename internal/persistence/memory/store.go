package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/study-planner/internal/persistence"
)

// Store provides an in-process persistence.Store backed by slices.
type Store struct {
	mu      sync.RWMutex
	study   []persistence.StudyEntry
	exams   []persistence.ExamEntry
	planner map[persistence.PlannerCollection][]persistence.PlannerEntry
	profile persistence.Profile
	closed  bool
}

var _ persistence.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{planner: make(map[persistence.PlannerCollection][]persistence.PlannerEntry)}
}

// Close marks the store as closed. Later calls return persistence.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// StudyEntries returns a copy of the stored timetable classes.
func (s *Store) StudyEntries(context.Context) ([]persistence.StudyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrClosed
	}
	return persistence.CloneStudyEntries(s.study), nil
}

// ReplaceStudyEntries overwrites the timetable classes.
func (s *Store) ReplaceStudyEntries(_ context.Context, entries []persistence.StudyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	s.study = persistence.CloneStudyEntries(entries)
	return nil
}

// Exams returns a copy of the stored exams.
func (s *Store) Exams(context.Context) ([]persistence.ExamEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrClosed
	}
	return persistence.CloneExams(s.exams), nil
}

// ReplaceExams overwrites the exam list.
func (s *Store) ReplaceExams(_ context.Context, exams []persistence.ExamEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	s.exams = persistence.CloneExams(exams)
	return nil
}

// PlannerEntries returns a copy of one planner collection.
func (s *Store) PlannerEntries(_ context.Context, collection persistence.PlannerCollection) ([]persistence.PlannerEntry, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("%w: %q", persistence.ErrUnknownCollection, collection)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrClosed
	}
	return persistence.ClonePlannerEntries(s.planner[collection]), nil
}

// ReplacePlannerEntries overwrites one planner collection.
func (s *Store) ReplacePlannerEntries(_ context.Context, collection persistence.PlannerCollection, entries []persistence.PlannerEntry) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %q", persistence.ErrUnknownCollection, collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	cloned := persistence.ClonePlannerEntries(entries)
	for i := range cloned {
		cloned[i].Collection = collection
	}
	s.planner[collection] = cloned
	return nil
}

// Profile returns the saved profile, or the zero Profile when none was saved.
func (s *Store) Profile(context.Context) (persistence.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.Profile{}, persistence.ErrClosed
	}
	return s.profile, nil
}

// SaveProfile overwrites the profile.
func (s *Store) SaveProfile(_ context.Context, profile persistence.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	s.profile = profile
	return nil
}

// Reset clears all state.
func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	s.study = nil
	s.exams = nil
	s.planner = make(map[persistence.PlannerCollection][]persistence.PlannerEntry)
	s.profile = persistence.Profile{}
	return nil
}
