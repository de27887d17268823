package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/study-planner/internal/persistence"
	"github.com/example/study-planner/internal/state"
)

// ProfileService reads and saves the student profile and resets the whole app.
type ProfileService struct {
	state  *state.AppState
	logger *slog.Logger
}

// NewProfileService constructs a profile service.
func NewProfileService(app *state.AppState) *ProfileService {
	return NewProfileServiceWithLogger(app, nil)
}

// NewProfileServiceWithLogger constructs a profile service with a specified logger.
func NewProfileServiceWithLogger(app *state.AppState, logger *slog.Logger) *ProfileService {
	return &ProfileService{state: app, logger: defaultLogger(logger)}
}

func (s *ProfileService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProfileService", operation, attrs...)
}

// Get returns the saved profile. The zero Profile means none was saved yet.
func (s *ProfileService) Get(ctx context.Context) (Profile, error) {
	if s == nil || s.state == nil {
		return Profile{}, fmt.Errorf("ProfileService is not configured")
	}
	record, err := s.state.Profile(ctx)
	if err != nil {
		return Profile{}, err
	}
	return Profile(record), nil
}

// Save validates input and overwrites the profile. Every field is required.
func (s *ProfileService) Save(ctx context.Context, input ProfileInput) (profile Profile, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("ProfileService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "Save")
	defer func() {
		logOutcome(ctx, logger, err, "profile saved")
	}()

	input.FullName = strings.TrimSpace(input.FullName)
	input.StudentID = strings.TrimSpace(input.StudentID)
	input.Faculty = strings.TrimSpace(input.Faculty)
	input.Year = strings.TrimSpace(input.Year)

	if vErr := runStages(func() *ValidationError { return requiredFields(input, nil) }); vErr != nil {
		err = vErr
		return
	}

	profile = Profile{
		FullName:  input.FullName,
		StudentID: input.StudentID,
		Faculty:   input.Faculty,
		Year:      input.Year,
	}
	err = s.state.SetProfile(ctx, func(persistence.Profile) (persistence.Profile, error) {
		return persistence.Profile(profile), nil
	})
	return
}

// Reset clears every collection and the profile.
func (s *ProfileService) Reset(ctx context.Context) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("ProfileService is not configured")
	}

	logger := s.loggerWith(ctx, "Reset")
	defer func() {
		logOutcome(ctx, logger, err, "application state reset")
	}()

	return s.state.Reset(ctx)
}
