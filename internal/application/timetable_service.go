package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/example/study-planner/internal/persistence"
	"github.com/example/study-planner/internal/scheduler"
	"github.com/example/study-planner/internal/state"
)

// TimetableService manages weekly classes and exams. Both share one conflict scope:
// a class and an exam collide when the exam's date falls on the class's weekday.
type TimetableService struct {
	state       *state.AppState
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTimetableService constructs a timetable service with the provided dependencies.
func NewTimetableService(app *state.AppState, idGenerator func() string, now func() time.Time) *TimetableService {
	return NewTimetableServiceWithLogger(app, idGenerator, now, nil)
}

// NewTimetableServiceWithLogger constructs a timetable service with a specified logger.
func NewTimetableServiceWithLogger(app *state.AppState, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TimetableService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TimetableService{state: app, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TimetableService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimetableService", operation, attrs...)
}

// ListStudy returns the classes grouped by study day, each day ordered by start time.
func (s *TimetableService) ListStudy(ctx context.Context) ([]StudyDay, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("TimetableService is not configured")
	}
	records, err := s.state.StudySchedule(ctx)
	if err != nil {
		return nil, err
	}
	return groupStudyByDay(toStudyEntries(records)), nil
}

// StudyEntries returns the classes in stored order.
func (s *TimetableService) StudyEntries(ctx context.Context) ([]StudyEntry, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("TimetableService is not configured")
	}
	records, err := s.state.StudySchedule(ctx)
	if err != nil {
		return nil, err
	}
	return toStudyEntries(records), nil
}

// CreateStudy validates input and appends a new class.
func (s *TimetableService) CreateStudy(ctx context.Context, input StudyInput) (entry StudyEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("TimetableService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateStudy", "day", input.Day)
	defer func() {
		logOutcome(ctx, logger, err, "class created", "study_id", entry.ID)
	}()

	err = s.state.Update(ctx, func(tx *state.Tx) error {
		scope, scopeErr := loadTimetableScope(tx)
		if scopeErr != nil {
			return scopeErr
		}

		candidate, vErr := validateStudy(input, scope, "")
		if vErr != nil {
			return vErr
		}

		candidate.ID = s.idGenerator()
		candidate.CreatedAt = s.now()
		candidate.UpdatedAt = candidate.CreatedAt
		tx.SetStudySchedule(append(scope.study, toPersistenceStudy(candidate)))
		entry = candidate
		return nil
	})
	return
}

// UpdateStudy validates input and replaces the class with the given id in place.
func (s *TimetableService) UpdateStudy(ctx context.Context, id string, input StudyInput) (entry StudyEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("TimetableService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateStudy", "study_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "class updated")
	}()

	err = s.state.Update(ctx, func(tx *state.Tx) error {
		scope, scopeErr := loadTimetableScope(tx)
		if scopeErr != nil {
			return scopeErr
		}

		idx := slices.IndexFunc(scope.study, func(e persistence.StudyEntry) bool { return e.ID == id })
		if idx < 0 {
			return ErrNotFound
		}

		candidate, vErr := validateStudy(input, scope, id)
		if vErr != nil {
			return vErr
		}

		candidate.ID = id
		candidate.CreatedAt = scope.study[idx].CreatedAt
		candidate.UpdatedAt = s.now()
		scope.study[idx] = toPersistenceStudy(candidate)
		tx.SetStudySchedule(scope.study)
		entry = candidate
		return nil
	})
	return
}

// DeleteStudy removes the class with the given id.
func (s *TimetableService) DeleteStudy(ctx context.Context, id string) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("TimetableService is not configured")
	}

	logger := s.loggerWith(ctx, "DeleteStudy", "study_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "class deleted")
	}()

	return s.state.SetStudySchedule(ctx, func(prev []persistence.StudyEntry) ([]persistence.StudyEntry, error) {
		next := slices.DeleteFunc(prev, func(e persistence.StudyEntry) bool { return e.ID == id })
		if len(next) == len(prev) {
			return nil, ErrNotFound
		}
		return next, nil
	})
}

// ListExams returns the exams ordered by date then start time.
func (s *TimetableService) ListExams(ctx context.Context) ([]ExamEntry, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("TimetableService is not configured")
	}
	records, err := s.state.ExamSchedule(ctx)
	if err != nil {
		return nil, err
	}
	exams := toExamEntries(records)
	sortExams(exams)
	return exams, nil
}

// CreateExam validates input and appends a new exam.
func (s *TimetableService) CreateExam(ctx context.Context, input ExamInput) (exam ExamEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("TimetableService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateExam", "date", input.Date)
	defer func() {
		logOutcome(ctx, logger, err, "exam created", "exam_id", exam.ID)
	}()

	err = s.state.Update(ctx, func(tx *state.Tx) error {
		scope, scopeErr := loadTimetableScope(tx)
		if scopeErr != nil {
			return scopeErr
		}

		candidate, vErr := validateExam(input, scope, "")
		if vErr != nil {
			return vErr
		}

		candidate.ID = s.idGenerator()
		candidate.CreatedAt = s.now()
		candidate.UpdatedAt = candidate.CreatedAt
		tx.SetExamSchedule(append(scope.exams, toPersistenceExam(candidate)))
		exam = candidate
		return nil
	})
	return
}

// UpdateExam validates input and replaces the exam with the given id in place.
func (s *TimetableService) UpdateExam(ctx context.Context, id string, input ExamInput) (exam ExamEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("TimetableService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateExam", "exam_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "exam updated")
	}()

	err = s.state.Update(ctx, func(tx *state.Tx) error {
		scope, scopeErr := loadTimetableScope(tx)
		if scopeErr != nil {
			return scopeErr
		}

		idx := slices.IndexFunc(scope.exams, func(e persistence.ExamEntry) bool { return e.ID == id })
		if idx < 0 {
			return ErrNotFound
		}

		candidate, vErr := validateExam(input, scope, id)
		if vErr != nil {
			return vErr
		}

		candidate.ID = id
		candidate.CreatedAt = scope.exams[idx].CreatedAt
		candidate.UpdatedAt = s.now()
		scope.exams[idx] = toPersistenceExam(candidate)
		tx.SetExamSchedule(scope.exams)
		exam = candidate
		return nil
	})
	return
}

// DeleteExam removes the exam with the given id.
func (s *TimetableService) DeleteExam(ctx context.Context, id string) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("TimetableService is not configured")
	}

	logger := s.loggerWith(ctx, "DeleteExam", "exam_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "exam deleted")
	}()

	return s.state.SetExamSchedule(ctx, func(prev []persistence.ExamEntry) ([]persistence.ExamEntry, error) {
		next := slices.DeleteFunc(prev, func(e persistence.ExamEntry) bool { return e.ID == id })
		if len(next) == len(prev) {
			return nil, ErrNotFound
		}
		return next, nil
	})
}

type timetableScope struct {
	study []persistence.StudyEntry
	exams []persistence.ExamEntry
}

func loadTimetableScope(tx *state.Tx) (timetableScope, error) {
	study, err := tx.StudySchedule()
	if err != nil {
		return timetableScope{}, err
	}
	exams, err := tx.ExamSchedule()
	if err != nil {
		return timetableScope{}, err
	}
	return timetableScope{study: study, exams: exams}, nil
}

func (scope timetableScope) intervals() []scheduler.TimeInterval {
	out := make([]scheduler.TimeInterval, 0, len(scope.study)+len(scope.exams))
	for _, e := range scope.study {
		out = append(out, scheduler.Weekly(e.ID, e.Day, scheduler.DecimalTime(e.Start), scheduler.DecimalTime(e.End)))
	}
	for _, e := range scope.exams {
		out = append(out, scheduler.Dated(e.ID, e.Date, scheduler.DecimalTime(e.Start), scheduler.DecimalTime(e.End)))
	}
	return out
}

func validateStudy(input StudyInput, scope timetableScope, excludeID string) (StudyEntry, *ValidationError) {
	input = normalizeStudyInput(input)
	var entry StudyEntry

	vErr := runStages(
		func() *ValidationError {
			return requiredFields(input, func(vErr *ValidationError) {
				if input.Day == "" {
					return
				}
				day, err := scheduler.ParseWeekday(input.Day)
				if err != nil || !slices.Contains(StudyDays, day) {
					vErr.add("day", "day must be Monday to Friday")
					return
				}
				entry.Day = day
			})
		},
		func() *ValidationError {
			entry.Start = scheduler.DecimalTime(*input.Start)
			entry.End = scheduler.DecimalTime(*input.End)
			return timeRange(entry.Start, entry.End)
		},
		func() *ValidationError {
			candidate := scheduler.Weekly(excludeID, entry.Day, entry.Start, entry.End)
			return timeConflict(candidate, scope.intervals(), excludeID)
		},
	)
	if vErr != nil {
		return StudyEntry{}, vErr
	}

	entry.Code = input.Code
	entry.Name = input.Name
	entry.Room = input.Room
	entry.Color = input.Color
	if entry.Color == "" {
		entry.Color = Palette[0]
	}
	return entry, nil
}

func normalizeStudyInput(input StudyInput) StudyInput {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	input.Room = strings.TrimSpace(input.Room)
	input.Day = strings.TrimSpace(input.Day)
	input.Color = strings.ToUpper(strings.TrimSpace(input.Color))
	return input
}

func validateExam(input ExamInput, scope timetableScope, excludeID string) (ExamEntry, *ValidationError) {
	input = normalizeExamInput(input)
	var exam ExamEntry

	vErr := runStages(
		func() *ValidationError {
			return requiredFields(input, func(vErr *ValidationError) {
				var err error
				if input.Date != "" {
					if exam.Date, err = parseCalendarDate(input.Date); err != nil {
						vErr.add("date", "date must be dd/mm/yyyy")
					}
				}
				if input.Start != "" {
					if exam.Start, err = scheduler.ParseDecimalTime(input.Start); err != nil {
						vErr.add("start", "start must be HH:MM")
					}
				}
				if input.End != "" {
					if exam.End, err = scheduler.ParseDecimalTime(input.End); err != nil {
						vErr.add("end", "end must be HH:MM")
					}
				}
			})
		},
		func() *ValidationError {
			return timeRange(exam.Start, exam.End)
		},
		func() *ValidationError {
			candidate := scheduler.Dated(excludeID, exam.Date, exam.Start, exam.End)
			return timeConflict(candidate, scope.intervals(), excludeID)
		},
	)
	if vErr != nil {
		return ExamEntry{}, vErr
	}

	exam.Code = input.Code
	exam.Name = input.Name
	exam.Room = input.Room
	exam.Type = ExamType(input.ExamType)
	if exam.Type == "" {
		exam.Type = ExamMidterm
	}
	return exam, nil
}

func normalizeExamInput(input ExamInput) ExamInput {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	input.Room = strings.TrimSpace(input.Room)
	input.ExamType = strings.ToLower(strings.TrimSpace(input.ExamType))
	input.Date = strings.TrimSpace(input.Date)
	input.Start = strings.TrimSpace(input.Start)
	input.End = strings.TrimSpace(input.End)
	return input
}

func groupStudyByDay(entries []StudyEntry) []StudyDay {
	days := make([]StudyDay, 0, len(StudyDays))
	for _, day := range StudyDays {
		group := StudyDay{Day: day, Entries: []StudyEntry{}}
		for _, entry := range entries {
			if entry.Day == day {
				group.Entries = append(group.Entries, entry)
			}
		}
		sort.SliceStable(group.Entries, func(i, j int) bool {
			return group.Entries[i].Start < group.Entries[j].Start
		})
		days = append(days, group)
	}
	return days
}

func sortExams(exams []ExamEntry) {
	sort.SliceStable(exams, func(i, j int) bool {
		if !exams[i].Date.Equal(exams[j].Date) {
			return exams[i].Date.Before(exams[j].Date)
		}
		return exams[i].Start < exams[j].Start
	})
}

func toStudyEntries(records []persistence.StudyEntry) []StudyEntry {
	entries := make([]StudyEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, StudyEntry{
			ID:        r.ID,
			Code:      r.Code,
			Name:      r.Name,
			Room:      r.Room,
			Day:       r.Day,
			Start:     scheduler.DecimalTime(r.Start),
			End:       scheduler.DecimalTime(r.End),
			Color:     r.Color,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return entries
}

func toPersistenceStudy(entry StudyEntry) persistence.StudyEntry {
	return persistence.StudyEntry{
		ID:        entry.ID,
		Code:      entry.Code,
		Name:      entry.Name,
		Room:      entry.Room,
		Day:       entry.Day,
		Start:     float64(entry.Start),
		End:       float64(entry.End),
		Color:     entry.Color,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func toExamEntries(records []persistence.ExamEntry) []ExamEntry {
	exams := make([]ExamEntry, 0, len(records))
	for _, r := range records {
		exams = append(exams, ExamEntry{
			ID:        r.ID,
			Code:      r.Code,
			Name:      r.Name,
			Room:      r.Room,
			Type:      ExamType(r.Type),
			Date:      r.Date,
			Start:     scheduler.DecimalTime(r.Start),
			End:       scheduler.DecimalTime(r.End),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return exams
}

func toPersistenceExam(exam ExamEntry) persistence.ExamEntry {
	return persistence.ExamEntry{
		ID:        exam.ID,
		Code:      exam.Code,
		Name:      exam.Name,
		Room:      exam.Room,
		Type:      persistence.ExamType(exam.Type),
		Date:      exam.Date,
		Start:     float64(exam.Start),
		End:       float64(exam.End),
		CreatedAt: exam.CreatedAt,
		UpdatedAt: exam.UpdatedAt,
	}
}
