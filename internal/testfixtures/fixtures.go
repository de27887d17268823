package testfixtures

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/study-planner/internal/application"
	"github.com/example/study-planner/internal/persistence"
	"github.com/example/study-planner/internal/scheduler"
)

var (
	studyCounter   uint64
	examCounter    uint64
	plannerCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Date returns the civil date y-m-d at midnight UTC, the form stored for exam and
// planner dates.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ----------------------------- Study fixtures -----------------------------

// StudyFixture represents a deterministic weekly class.
type StudyFixture struct {
	ID        string
	Code      string
	Name      string
	Room      string
	Day       time.Weekday
	Start     float64
	End       float64
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StudyOption configures the generated class fixture.
type StudyOption func(*StudyFixture)

// NewStudyFixture returns a one hour Monday class with optional overrides.
func NewStudyFixture(opts ...StudyOption) StudyFixture {
	idx := atomic.AddUint64(&studyCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	start := float64(8 + idx%8)
	fixture := StudyFixture{
		ID:        fmt.Sprintf("study-%03d", idx),
		Code:      fmt.Sprintf("CS%03d", 100+idx),
		Name:      fmt.Sprintf("Course %03d", idx),
		Room:      "SC-101",
		Day:       time.Monday,
		Start:     start,
		End:       start + 1,
		Color:     application.Palette[0],
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStudyID overrides the generated class ID.
func WithStudyID(id string) StudyOption {
	return func(f *StudyFixture) {
		f.ID = id
	}
}

// WithStudyCode overrides the course code.
func WithStudyCode(code string) StudyOption {
	return func(f *StudyFixture) {
		f.Code = code
	}
}

// WithStudyName overrides the course name.
func WithStudyName(name string) StudyOption {
	return func(f *StudyFixture) {
		f.Name = name
	}
}

// WithStudyDay overrides the weekday.
func WithStudyDay(day time.Weekday) StudyOption {
	return func(f *StudyFixture) {
		f.Day = day
	}
}

// WithStudySlot sets start and end in decimal hours.
func WithStudySlot(start, end float64) StudyOption {
	return func(f *StudyFixture) {
		f.Start = start
		f.End = end
	}
}

// WithStudyColor overrides the color.
func WithStudyColor(color string) StudyOption {
	return func(f *StudyFixture) {
		f.Color = color
	}
}

// Persistence returns the fixture as a persistence.StudyEntry.
func (f StudyFixture) Persistence() persistence.StudyEntry {
	return persistence.StudyEntry{
		ID:        f.ID,
		Code:      f.Code,
		Name:      f.Name,
		Room:      f.Room,
		Day:       f.Day,
		Start:     f.Start,
		End:       f.End,
		Color:     f.Color,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.StudyInput.
func (f StudyFixture) Input() application.StudyInput {
	start, end := f.Start, f.End
	return application.StudyInput{
		Code:  f.Code,
		Name:  f.Name,
		Room:  f.Room,
		Day:   f.Day.String(),
		Start: &start,
		End:   &end,
		Color: f.Color,
	}
}

// ----------------------------- Exam fixtures -----------------------------

// ExamFixture represents a deterministic exam.
type ExamFixture struct {
	ID        string
	Code      string
	Name      string
	Room      string
	Type      persistence.ExamType
	Date      time.Time
	Start     float64
	End       float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExamOption configures the generated exam fixture.
type ExamOption func(*ExamFixture)

// NewExamFixture returns a three hour midterm a week after the reference date.
func NewExamFixture(opts ...ExamOption) ExamFixture {
	idx := atomic.AddUint64(&examCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ExamFixture{
		ID:        fmt.Sprintf("exam-%03d", idx),
		Code:      fmt.Sprintf("CS%03d", 100+idx),
		Name:      fmt.Sprintf("Exam %03d", idx),
		Room:      "Hall A",
		Type:      persistence.ExamMidterm,
		Date:      Date(2024, time.January, 9),
		Start:     9,
		End:       12,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithExamID overrides the generated exam ID.
func WithExamID(id string) ExamOption {
	return func(f *ExamFixture) {
		f.ID = id
	}
}

// WithExamCode overrides the course code.
func WithExamCode(code string) ExamOption {
	return func(f *ExamFixture) {
		f.Code = code
	}
}

// WithExamType overrides the exam type.
func WithExamType(examType persistence.ExamType) ExamOption {
	return func(f *ExamFixture) {
		f.Type = examType
	}
}

// WithExamDate overrides the exam date. Only the calendar date of t is kept.
func WithExamDate(t time.Time) ExamOption {
	return func(f *ExamFixture) {
		f.Date = Date(t.Date())
	}
}

// WithExamSlot sets start and end in decimal hours.
func WithExamSlot(start, end float64) ExamOption {
	return func(f *ExamFixture) {
		f.Start = start
		f.End = end
	}
}

// Persistence returns the fixture as a persistence.ExamEntry.
func (f ExamFixture) Persistence() persistence.ExamEntry {
	return persistence.ExamEntry{
		ID:        f.ID,
		Code:      f.Code,
		Name:      f.Name,
		Room:      f.Room,
		Type:      f.Type,
		Date:      f.Date,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.ExamInput with a dd/mm/yyyy date.
func (f ExamFixture) Input() application.ExamInput {
	return application.ExamInput{
		Code:     f.Code,
		Name:     f.Name,
		Room:     f.Room,
		ExamType: string(f.Type),
		Date:     f.Date.Format("02/01/2006"),
		Start:    scheduler.DecimalTime(f.Start).String(),
		End:      scheduler.DecimalTime(f.End).String(),
	}
}

// ----------------------------- Planner fixtures -----------------------------

// PlannerFixture represents a deterministic planner entry.
type PlannerFixture struct {
	ID          string
	Tab         application.PlannerTab
	Title       string
	Subject     string
	Description string
	Category    string
	OtherDetail string
	Date        time.Time
	StartTime   string
	EndTime     string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlannerOption configures the generated planner fixture.
type PlannerOption func(*PlannerFixture)

// NewPlannerFixture returns an untimed club activity on the reference date.
func NewPlannerFixture(opts ...PlannerOption) PlannerFixture {
	idx := atomic.AddUint64(&plannerCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := PlannerFixture{
		ID:        fmt.Sprintf("planner-%03d", idx),
		Tab:       application.TabActivities,
		Title:     fmt.Sprintf("Task %03d", idx),
		Category:  "club",
		Date:      Date(referenceTime.Date()),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPlannerID overrides the generated entry ID.
func WithPlannerID(id string) PlannerOption {
	return func(f *PlannerFixture) {
		f.ID = id
	}
}

// WithPlannerStudyTask moves the fixture to the study tab with the given subject and
// priority.
func WithPlannerStudyTask(subject, priority string) PlannerOption {
	return func(f *PlannerFixture) {
		f.Tab = application.TabStudy
		f.Subject = subject
		f.Category = priority
	}
}

// WithPlannerTitle overrides the title.
func WithPlannerTitle(title string) PlannerOption {
	return func(f *PlannerFixture) {
		f.Title = title
	}
}

// WithPlannerCategory overrides the category key.
func WithPlannerCategory(category string) PlannerOption {
	return func(f *PlannerFixture) {
		f.Category = category
	}
}

// WithPlannerOther selects the "other" category with the given detail.
func WithPlannerOther(detail string) PlannerOption {
	return func(f *PlannerFixture) {
		f.Category = application.CategoryOther
		f.OtherDetail = detail
	}
}

// WithPlannerDate overrides the date. Only the calendar date of t is kept.
func WithPlannerDate(t time.Time) PlannerOption {
	return func(f *PlannerFixture) {
		f.Date = Date(t.Date())
	}
}

// WithPlannerTimes sets the HH:MM start and end times.
func WithPlannerTimes(start, end string) PlannerOption {
	return func(f *PlannerFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithPlannerCompleted marks the entry as done.
func WithPlannerCompleted() PlannerOption {
	return func(f *PlannerFixture) {
		f.Completed = true
	}
}

// Persistence returns the fixture as a persistence.PlannerEntry.
func (f PlannerFixture) Persistence() persistence.PlannerEntry {
	category := f.Category
	if f.Category == application.CategoryOther {
		category = f.OtherDetail
	}
	return persistence.PlannerEntry{
		ID:               f.ID,
		Collection:       persistence.PlannerCollection(f.Tab),
		Title:            f.Title,
		Subject:          f.Subject,
		Description:      f.Description,
		Category:         category,
		OriginalCategory: f.Category,
		OtherDetail:      f.OtherDetail,
		Date:             f.Date,
		StartTime:        f.StartTime,
		EndTime:          f.EndTime,
		Completed:        f.Completed,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

// Input returns the fixture as an application.PlannerInput.
func (f PlannerFixture) Input() application.PlannerInput {
	return application.PlannerInput{
		Tab:         f.Tab,
		Title:       f.Title,
		Subject:     f.Subject,
		Description: f.Description,
		Category:    f.Category,
		OtherDetail: f.OtherDetail,
		Date:        f.Date.Format("2006-01-02"),
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
	}
}

// ----------------------------- Datasets -----------------------------

// Dataset groups fixtures that are written to a store together.
type Dataset struct {
	Study   []StudyFixture
	Exams   []ExamFixture
	Planner []PlannerFixture
	Profile persistence.Profile
}

// Seed replaces the store's collections with the dataset. Planner fixtures are split
// by tab and keep their relative order.
func (d Dataset) Seed(ctx context.Context, store persistence.Store) error {
	study := make([]persistence.StudyEntry, 0, len(d.Study))
	for _, f := range d.Study {
		study = append(study, f.Persistence())
	}
	if err := store.ReplaceStudyEntries(ctx, study); err != nil {
		return fmt.Errorf("seed study entries: %w", err)
	}

	exams := make([]persistence.ExamEntry, 0, len(d.Exams))
	for _, f := range d.Exams {
		exams = append(exams, f.Persistence())
	}
	if err := store.ReplaceExams(ctx, exams); err != nil {
		return fmt.Errorf("seed exams: %w", err)
	}

	byTab := map[persistence.PlannerCollection][]persistence.PlannerEntry{
		persistence.PlannerActivities: {},
		persistence.PlannerStudy:      {},
	}
	for _, f := range d.Planner {
		record := f.Persistence()
		byTab[record.Collection] = append(byTab[record.Collection], record)
	}
	for collection, records := range byTab {
		if err := store.ReplacePlannerEntries(ctx, collection, records); err != nil {
			return fmt.Errorf("seed %s planner entries: %w", collection, err)
		}
	}

	if !d.Profile.IsZero() {
		if err := store.SaveProfile(ctx, d.Profile); err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
	}
	return nil
}
