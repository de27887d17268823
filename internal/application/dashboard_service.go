package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/study-planner/internal/recurrence"
	"github.com/example/study-planner/internal/scheduler"
	"github.com/example/study-planner/internal/state"
)

// UpcomingExamDays is how far ahead the dashboard looks for exams, today included.
const UpcomingExamDays = 7

// DashboardService computes the dashboard and the weekly class calendar.
type DashboardService struct {
	state  *state.AppState
	engine *recurrence.Engine
	now    func() time.Time
	cache  *summaryCache
	logger *slog.Logger
}

// NewDashboardService constructs a dashboard service. The engine's location decides
// what "today" and "this week" mean.
func NewDashboardService(app *state.AppState, engine *recurrence.Engine, now func() time.Time) *DashboardService {
	return NewDashboardServiceWithLogger(app, engine, now, nil)
}

// NewDashboardServiceWithLogger constructs a dashboard service with a specified logger.
func NewDashboardServiceWithLogger(app *state.AppState, engine *recurrence.Engine, now func() time.Time, logger *slog.Logger) *DashboardService {
	if engine == nil {
		engine = recurrence.NewEngine(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		state:  app,
		engine: engine,
		now:    now,
		cache:  newSummaryCache(time.Minute, 16, now),
		logger: defaultLogger(logger),
	}
}

func (s *DashboardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DashboardService", operation, attrs...)
}

// Summary returns the next class, the exams of the coming week and this week's classes.
func (s *DashboardService) Summary(ctx context.Context) (dashboard Dashboard, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("DashboardService is not configured")
		return
	}

	now := s.now().In(s.engine.Location())
	key := buildSummaryCacheKey(s.state.Version(), now)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	logger := s.loggerWith(ctx, "Summary")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build dashboard", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "dashboard built",
			"has_next_class", dashboard.NextClass != nil,
			"upcoming_exams", len(dashboard.UpcomingExams),
		)
	}()

	records, err := s.state.StudySchedule(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	study := toStudyEntries(records)

	examRecords, err := s.state.ExamSchedule(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard = Dashboard{
		Now:           now,
		NextClass:     nextClass(study, now),
		UpcomingExams: s.upcomingExams(toExamEntries(examRecords), now),
	}

	from, to := s.engine.Week(now)
	dashboard.WeekClasses, err = s.expand(study, from, to)
	if err != nil {
		return Dashboard{}, err
	}

	s.cache.Store(key, dashboard)
	return dashboard, nil
}

// Week returns the class occurrences of the Monday-to-Sunday week containing reference.
func (s *DashboardService) Week(ctx context.Context, reference time.Time) ([]ClassOccurrence, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("DashboardService is not configured")
	}
	records, err := s.state.StudySchedule(ctx)
	if err != nil {
		return nil, err
	}
	from, to := s.engine.Week(reference)
	return s.expand(toStudyEntries(records), from, to)
}

func (s *DashboardService) expand(study []StudyEntry, from, to time.Time) ([]ClassOccurrence, error) {
	byID := make(map[string]StudyEntry, len(study))
	slots := make([]recurrence.Slot, 0, len(study))
	for _, entry := range study {
		byID[entry.ID] = entry
		slots = append(slots, recurrence.Slot{EntryID: entry.ID, Weekday: entry.Day, Start: entry.Start, End: entry.End})
	}

	occurrences, err := s.engine.Expand(slots, from, to)
	if err != nil {
		return nil, fmt.Errorf("expand timetable: %w", err)
	}

	out := make([]ClassOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, ClassOccurrence{Entry: byID[occ.EntryID], Start: occ.Start, End: occ.End})
	}
	return out, nil
}

func nextClass(study []StudyEntry, now time.Time) *NextClass {
	entries := make([]scheduler.RecurringEntry, 0, len(study))
	byID := make(map[string]StudyEntry, len(study))
	for _, entry := range study {
		byID[entry.ID] = entry
		entries = append(entries, scheduler.RecurringEntry{ID: entry.ID, Weekday: entry.Day, Start: entry.Start, End: entry.End})
	}

	occ, ok := scheduler.NextOccurrence(entries, now)
	if !ok {
		return nil
	}
	return &NextClass{
		Entry:     byID[occ.Entry.ID],
		DaysAhead: occ.DaysAhead,
		StartsAt:  occ.StartsAt,
		EndsAt:    occ.EndsAt,
	}
}

// upcomingExams keeps exams from today through UpcomingExamDays days ahead that have
// not finished yet, ordered by start.
func (s *DashboardService) upcomingExams(exams []ExamEntry, now time.Time) []UpcomingExam {
	loc := s.engine.Location()
	today := civilDate(now)
	out := make([]UpcomingExam, 0)
	for _, exam := range exams {
		days := int(exam.Date.Sub(today).Hours() / 24)
		if exam.Date.Before(today) || days > UpcomingExamDays {
			continue
		}
		if inLocation(exam.Date, exam.End, loc).Before(now) {
			continue
		}
		out = append(out, UpcomingExam{
			Exam:      exam,
			DaysUntil: days,
			StartsAt:  inLocation(exam.Date, exam.Start, loc),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out
}
