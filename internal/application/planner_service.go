package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/study-planner/internal/persistence"
	"github.com/example/study-planner/internal/scheduler"
	"github.com/example/study-planner/internal/state"
)

// CategoryOption is a selectable planner category or study priority.
type CategoryOption struct {
	Key   string
	Label string
	Color string
}

// Tab colors.
const (
	ActivitiesColor = "#6366f1"
	StudyTabColor   = "#a855f7"
)

// CategoryOther takes its shown label from the entry's other detail.
const CategoryOther = "other"

var (
	// ActivityCategories are the categories of the activities tab.
	ActivityCategories = []CategoryOption{
		{Key: "club", Label: "ชมรม", Color: ActivitiesColor},
		{Key: "sport", Label: "กีฬา", Color: ActivitiesColor},
		{Key: "volunteer", Label: "อาสาสมัคร", Color: ActivitiesColor},
		{Key: CategoryOther, Label: "อื่นๆ", Color: ActivitiesColor},
	}
	// StudyPriorities are the categories of the study tab.
	StudyPriorities = []CategoryOption{
		{Key: "low", Label: "ไม่เร่งด่วน", Color: "#10b981"},
		{Key: "medium", Label: "ปานกลาง", Color: "#f59e0b"},
		{Key: "high", Label: "สำคัญมาก", Color: "#ef4444"},
	}
)

// Field specific messages shown when a planner form is incomplete.
var plannerFieldMessages = []struct {
	field   string
	message string
}{
	{"title", "กรุณาระบุหัวข้อรายการ"},
	{"subject", "กรุณาระบุชื่อวิชา"},
	{"category", "กรุณาเลือกหมวดหมู่/ความสำคัญ"},
}

// CategoryOptions returns the categories available on tab.
func CategoryOptions(tab PlannerTab) []CategoryOption {
	if tab == TabStudy {
		return StudyPriorities
	}
	return ActivityCategories
}

// CategoryColor returns the badge color of a category key on tab.
func CategoryColor(tab PlannerTab, key string) string {
	for _, option := range CategoryOptions(tab) {
		if option.Key == key {
			return option.Color
		}
	}
	if tab == TabStudy {
		return StudyTabColor
	}
	return ActivitiesColor
}

// resolveCategory maps a key or Thai label to a category key.
func resolveCategory(tab PlannerTab, value string) (string, bool) {
	for _, option := range CategoryOptions(tab) {
		if strings.EqualFold(option.Key, value) || option.Label == value {
			return option.Key, true
		}
	}
	return "", false
}

// PlannerService manages the activities and study task lists. Entries of both tabs
// share one conflict scope and collide only on the same calendar date.
type PlannerService struct {
	state       *state.AppState
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPlannerService constructs a planner service with the provided dependencies.
func NewPlannerService(app *state.AppState, idGenerator func() string, now func() time.Time) *PlannerService {
	return NewPlannerServiceWithLogger(app, idGenerator, now, nil)
}

// NewPlannerServiceWithLogger constructs a planner service with a specified logger.
// now also decides what "today" is for entries created without a date.
func NewPlannerServiceWithLogger(app *state.AppState, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PlannerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PlannerService{state: app, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *PlannerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlannerService", operation, attrs...)
}

// List returns the entries of tab, newest first.
func (s *PlannerService) List(ctx context.Context, tab PlannerTab) ([]PlannerEntry, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("PlannerService is not configured")
	}
	if !tab.Valid() {
		return nil, unknownTab(tab)
	}
	records, err := s.state.Planner(ctx, persistence.PlannerCollection(tab))
	if err != nil {
		return nil, err
	}
	return toPlannerEntries(tab, records), nil
}

// Get returns one entry of tab.
func (s *PlannerService) Get(ctx context.Context, tab PlannerTab, id string) (PlannerEntry, error) {
	entries, err := s.List(ctx, tab)
	if err != nil {
		return PlannerEntry{}, err
	}
	idx := slices.IndexFunc(entries, func(e PlannerEntry) bool { return e.ID == id })
	if idx < 0 {
		return PlannerEntry{}, ErrNotFound
	}
	return entries[idx], nil
}

// Create validates input and puts a new, incomplete entry at the top of tab.
func (s *PlannerService) Create(ctx context.Context, tab PlannerTab, input PlannerInput) (entry PlannerEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("PlannerService is not configured")
		return
	}
	if !tab.Valid() {
		err = unknownTab(tab)
		return
	}

	logger := s.loggerWith(ctx, "Create", "tab", string(tab))
	defer func() {
		logOutcome(ctx, logger, err, "planner entry created", "entry_id", entry.ID)
	}()

	err = s.state.Update(ctx, func(tx *state.Tx) error {
		scope, scopeErr := loadPlannerScope(tx)
		if scopeErr != nil {
			return scopeErr
		}

		candidate, vErr := s.validatePlanner(tab, input, scope, "")
		if vErr != nil {
			return vErr
		}

		candidate.ID = s.idGenerator()
		candidate.Completed = false
		candidate.CreatedAt = s.now()
		candidate.UpdatedAt = candidate.CreatedAt

		records := scope[tab]
		tx.SetPlanner(persistence.PlannerCollection(tab), append([]persistence.PlannerEntry{toPersistencePlanner(candidate)}, records...))
		entry = candidate
		return nil
	})
	return
}

// Update validates input and merges it into the entry with the given id. The id,
// completion flag and creation time are kept.
func (s *PlannerService) Update(ctx context.Context, tab PlannerTab, id string, input PlannerInput) (entry PlannerEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("PlannerService is not configured")
		return
	}
	if !tab.Valid() {
		err = unknownTab(tab)
		return
	}

	logger := s.loggerWith(ctx, "Update", "tab", string(tab), "entry_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "planner entry updated")
	}()

	err = s.state.Update(ctx, func(tx *state.Tx) error {
		scope, scopeErr := loadPlannerScope(tx)
		if scopeErr != nil {
			return scopeErr
		}

		records := scope[tab]
		idx := slices.IndexFunc(records, func(e persistence.PlannerEntry) bool { return e.ID == id })
		if idx < 0 {
			return ErrNotFound
		}

		candidate, vErr := s.validatePlanner(tab, input, scope, id)
		if vErr != nil {
			return vErr
		}

		existing := records[idx]
		candidate.ID = existing.ID
		candidate.Completed = existing.Completed
		candidate.CreatedAt = existing.CreatedAt
		candidate.UpdatedAt = s.now()
		records[idx] = toPersistencePlanner(candidate)
		tx.SetPlanner(persistence.PlannerCollection(tab), records)
		entry = candidate
		return nil
	})
	return
}

// Toggle flips the completion flag of the entry with the given id.
func (s *PlannerService) Toggle(ctx context.Context, tab PlannerTab, id string) (entry PlannerEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("PlannerService is not configured")
		return
	}
	if !tab.Valid() {
		err = unknownTab(tab)
		return
	}

	logger := s.loggerWith(ctx, "Toggle", "tab", string(tab), "entry_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "planner entry toggled", "completed", entry.Completed)
	}()

	err = s.state.SetPlanner(ctx, persistence.PlannerCollection(tab), func(prev []persistence.PlannerEntry) ([]persistence.PlannerEntry, error) {
		idx := slices.IndexFunc(prev, func(e persistence.PlannerEntry) bool { return e.ID == id })
		if idx < 0 {
			return nil, ErrNotFound
		}
		prev[idx].Completed = !prev[idx].Completed
		prev[idx].UpdatedAt = s.now()
		entry = toPlannerEntry(tab, prev[idx])
		return prev, nil
	})
	return
}

// Delete removes the entry with the given id from tab.
func (s *PlannerService) Delete(ctx context.Context, tab PlannerTab, id string) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("PlannerService is not configured")
	}
	if !tab.Valid() {
		return unknownTab(tab)
	}

	logger := s.loggerWith(ctx, "Delete", "tab", string(tab), "entry_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "planner entry deleted")
	}()

	return s.state.SetPlanner(ctx, persistence.PlannerCollection(tab), func(prev []persistence.PlannerEntry) ([]persistence.PlannerEntry, error) {
		next := slices.DeleteFunc(prev, func(e persistence.PlannerEntry) bool { return e.ID == id })
		if len(next) == len(prev) {
			return nil, ErrNotFound
		}
		return next, nil
	})
}

type plannerScope map[PlannerTab][]persistence.PlannerEntry

func loadPlannerScope(tx *state.Tx) (plannerScope, error) {
	scope := make(plannerScope, 2)
	for _, tab := range []PlannerTab{TabActivities, TabStudy} {
		records, err := tx.Planner(persistence.PlannerCollection(tab))
		if err != nil {
			return nil, err
		}
		scope[tab] = records
	}
	return scope, nil
}

// intervals returns the timed entries of both tabs.
func (scope plannerScope) intervals() []scheduler.TimeInterval {
	out := make([]scheduler.TimeInterval, 0)
	for _, tab := range []PlannerTab{TabActivities, TabStudy} {
		for _, record := range scope[tab] {
			if record.StartTime == "" || record.EndTime == "" {
				continue
			}
			start, err := scheduler.ParseDecimalTime(record.StartTime)
			if err != nil {
				continue
			}
			end, err := scheduler.ParseDecimalTime(record.EndTime)
			if err != nil {
				continue
			}
			out = append(out, scheduler.Dated(record.ID, record.Date, start, end))
		}
	}
	return out
}

func (s *PlannerService) validatePlanner(tab PlannerTab, input PlannerInput, scope plannerScope, excludeID string) (PlannerEntry, *ValidationError) {
	input = normalizePlannerInput(tab, input)
	entry := PlannerEntry{Tab: tab}
	var start, end scheduler.DecimalTime

	vErr := runStages(
		func() *ValidationError {
			missing := requiredFields(input, func(vErr *ValidationError) {
				var err error
				if input.Category != "" {
					if _, ok := resolveCategory(tab, input.Category); !ok {
						vErr.add("category", "category is invalid")
					}
				}
				if input.Date == "" {
					entry.Date = civilDate(s.now())
				} else if entry.Date, err = parseCalendarDate(input.Date); err != nil {
					vErr.add("date", "date must be yyyy-mm-dd")
				}
				if input.StartTime != "" {
					if start, err = scheduler.ParseDecimalTime(input.StartTime); err != nil {
						vErr.add("start_time", "start_time must be HH:MM")
					}
				}
				if input.EndTime != "" {
					if end, err = scheduler.ParseDecimalTime(input.EndTime); err != nil {
						vErr.add("end_time", "end_time must be HH:MM")
					}
				}
			})
			for _, fm := range plannerFieldMessages {
				if _, ok := missing.FieldErrors[fm.field]; ok {
					return withMessage(missing, fm.message)
				}
			}
			return missing
		},
		func() *ValidationError {
			if input.StartTime == "" {
				return nil
			}
			return timeRange(start, end)
		},
		func() *ValidationError {
			if input.StartTime == "" {
				return nil
			}
			candidate := scheduler.Dated(excludeID, entry.Date, start, end)
			return timeConflict(candidate, scope.intervals(), excludeID)
		},
	)
	if vErr != nil {
		return PlannerEntry{}, vErr
	}

	entry.Title = input.Title
	entry.Subject = input.Subject
	entry.Description = input.Description
	entry.OriginalCategory = input.Category
	entry.Category = input.Category
	if input.Category == CategoryOther {
		entry.OtherDetail = input.OtherDetail
		entry.Category = input.OtherDetail
	}
	if input.StartTime != "" {
		entry.StartTime = start.String()
		entry.EndTime = end.String()
	}
	return entry, nil
}

func normalizePlannerInput(tab PlannerTab, input PlannerInput) PlannerInput {
	input.Tab = tab
	input.Title = strings.TrimSpace(input.Title)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if key, ok := resolveCategory(tab, input.Category); ok {
		input.Category = key
	}
	input.OtherDetail = strings.TrimSpace(input.OtherDetail)
	input.Date = strings.TrimSpace(input.Date)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	return input
}

func unknownTab(tab PlannerTab) error {
	return fmt.Errorf("%w: planner tab %q", ErrNotFound, tab)
}

func toPlannerEntries(tab PlannerTab, records []persistence.PlannerEntry) []PlannerEntry {
	entries := make([]PlannerEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, toPlannerEntry(tab, r))
	}
	return entries
}

func toPlannerEntry(tab PlannerTab, r persistence.PlannerEntry) PlannerEntry {
	return PlannerEntry{
		ID:               r.ID,
		Tab:              tab,
		Title:            r.Title,
		Subject:          r.Subject,
		Description:      r.Description,
		Category:         r.Category,
		OriginalCategory: r.OriginalCategory,
		OtherDetail:      r.OtherDetail,
		Date:             r.Date,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Completed:        r.Completed,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toPersistencePlanner(entry PlannerEntry) persistence.PlannerEntry {
	return persistence.PlannerEntry{
		ID:               entry.ID,
		Collection:       persistence.PlannerCollection(entry.Tab),
		Title:            entry.Title,
		Subject:          entry.Subject,
		Description:      entry.Description,
		Category:         entry.Category,
		OriginalCategory: entry.OriginalCategory,
		OtherDetail:      entry.OtherDetail,
		Date:             entry.Date,
		StartTime:        entry.StartTime,
		EndTime:          entry.EndTime,
		Completed:        entry.Completed,
		CreatedAt:        entry.CreatedAt,
		UpdatedAt:        entry.UpdatedAt,
	}
}
