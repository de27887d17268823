package application

import (
	"time"

	"github.com/example/study-planner/internal/scheduler"
)

// Palette lists the colors a class can be shown in. The first one is the default.
var Palette = []string{
	"#6C5CE7", "#8E44AD", "#E84393", "#FF7675", "#FD7E14",
	"#F1C40F", "#2ECC71", "#16A085", "#00CEC9",
}

// StudyDays are the weekdays the timetable shows, in display order.
var StudyDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// StudyInput captures caller provided fields for a weekly class. Start and End are
// decimal hours.
type StudyInput struct {
	Code  string   `json:"code" validate:"notblank"`
	Name  string   `json:"name" validate:"notblank"`
	Room  string   `json:"room"`
	Day   string   `json:"day" validate:"notblank"`
	Start *float64 `json:"start" validate:"required,gte=0,lte=24"`
	End   *float64 `json:"end" validate:"required,gte=0,lte=24"`
	Color string   `json:"color" validate:"omitempty,palette"`
}

// StudyEntry is a weekly class.
type StudyEntry struct {
	ID        string
	Code      string
	Name      string
	Room      string
	Day       time.Weekday
	Start     scheduler.DecimalTime
	End       scheduler.DecimalTime
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StudyDay groups the classes of one weekday, ordered by start time.
type StudyDay struct {
	Day     time.Weekday
	Entries []StudyEntry
}

// ExamType distinguishes midterm and final exams.
type ExamType string

const (
	ExamMidterm ExamType = "mid"
	ExamFinal   ExamType = "final"
)

// ExamInput captures caller provided exam fields. Date is dd/mm/yyyy or yyyy-mm-dd;
// Start and End are HH:MM.
type ExamInput struct {
	Code     string `json:"code" validate:"notblank"`
	Name     string `json:"name" validate:"notblank"`
	Room     string `json:"room"`
	ExamType string `json:"exam_type" validate:"omitempty,oneof=mid final"`
	Date     string `json:"date" validate:"notblank"`
	Start    string `json:"start" validate:"notblank"`
	End      string `json:"end" validate:"notblank"`
}

// ExamEntry is an exam on a calendar date. Date holds the civil date at midnight UTC.
type ExamEntry struct {
	ID        string
	Code      string
	Name      string
	Room      string
	Type      ExamType
	Date      time.Time
	Start     scheduler.DecimalTime
	End       scheduler.DecimalTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlannerTab names one of the planner's two lists.
type PlannerTab string

const (
	TabActivities PlannerTab = "activities"
	TabStudy      PlannerTab = "study"
)

// Valid reports whether t is a known tab.
func (t PlannerTab) Valid() bool {
	return t == TabActivities || t == TabStudy
}

// PlannerInput captures caller provided planner fields. Date is yyyy-mm-dd and defaults
// to today; StartTime and EndTime are HH:MM and must be given together.
type PlannerInput struct {
	Tab         PlannerTab `json:"-"`
	Title       string     `json:"title" validate:"notblank"`
	Subject     string     `json:"subject" validate:"required_if=Tab study"`
	Description string     `json:"description"`
	Category    string     `json:"category" validate:"notblank"`
	OtherDetail string     `json:"other_detail" validate:"required_if=Category other"`
	Date        string     `json:"date"`
	StartTime   string     `json:"start_time" validate:"required_with=EndTime"`
	EndTime     string     `json:"end_time" validate:"required_with=StartTime"`
}

// PlannerEntry is an activity or a study task.
type PlannerEntry struct {
	ID          string
	Tab         PlannerTab
	Title       string
	Subject     string
	Description string
	// Category is the shown label: the selected category, or OtherDetail when the
	// selection is "other".
	Category         string
	OriginalCategory string
	OtherDetail      string
	Date             time.Time
	StartTime        string
	EndTime          string
	Completed        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasTime reports whether both times are set.
func (e PlannerEntry) HasTime() bool {
	return e.StartTime != "" && e.EndTime != ""
}

// ProfileInput captures caller provided profile fields.
type ProfileInput struct {
	FullName  string `json:"fullname" validate:"notblank"`
	StudentID string `json:"student_id" validate:"notblank"`
	Faculty   string `json:"faculty" validate:"notblank"`
	Year      string `json:"year" validate:"notblank"`
}

// Profile holds the student's details.
type Profile struct {
	FullName  string
	StudentID string
	Faculty   string
	Year      string
}

// Dashboard summarizes what is coming up.
type Dashboard struct {
	Now           time.Time
	NextClass     *NextClass
	UpcomingExams []UpcomingExam
	WeekClasses   []ClassOccurrence
}

// NextClass is the next class to attend.
type NextClass struct {
	Entry     StudyEntry
	DaysAhead int
	StartsAt  time.Time
	EndsAt    time.Time
}

// UpcomingExam is an exam within the dashboard window.
type UpcomingExam struct {
	Exam      ExamEntry
	DaysUntil int
	StartsAt  time.Time
}

// ClassOccurrence is one dated instance of a weekly class.
type ClassOccurrence struct {
	Entry StudyEntry
	Start time.Time
	End   time.Time
}
