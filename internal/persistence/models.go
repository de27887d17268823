package persistence

import "time"

// StudyEntry is a weekly class in the timetable.
type StudyEntry struct {
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

// ExamType distinguishes midterm and final exams.
type ExamType string

const (
	ExamMidterm ExamType = "mid"
	ExamFinal   ExamType = "final"
)

// ExamEntry is a single exam pinned to a calendar date. Date holds the civil date at
// midnight UTC.
type ExamEntry struct {
	ID        string
	Code      string
	Name      string
	Room      string
	Type      ExamType
	Date      time.Time
	Start     float64
	End       float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlannerCollection names one of the planner's two lists.
type PlannerCollection string

const (
	PlannerActivities PlannerCollection = "activities"
	PlannerStudy      PlannerCollection = "study"
)

// Valid reports whether c is a known collection.
func (c PlannerCollection) Valid() bool {
	return c == PlannerActivities || c == PlannerStudy
}

// PlannerEntry is an activity or study task. StartTime and EndTime are "HH:MM" or
// empty when unset.
type PlannerEntry struct {
	ID               string
	Collection       PlannerCollection
	Title            string
	Subject          string
	Description      string
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

// Profile holds the student's details.
type Profile struct {
	FullName  string
	StudentID string
	Faculty   string
	Year      string
}

// IsZero reports whether no profile has been saved.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// CloneStudyEntries returns a copy of entries that shares no backing array.
func CloneStudyEntries(entries []StudyEntry) []StudyEntry {
	if entries == nil {
		return []StudyEntry{}
	}
	return append(make([]StudyEntry, 0, len(entries)), entries...)
}

// CloneExams returns a copy of exams that shares no backing array.
func CloneExams(exams []ExamEntry) []ExamEntry {
	if exams == nil {
		return []ExamEntry{}
	}
	return append(make([]ExamEntry, 0, len(exams)), exams...)
}

// ClonePlannerEntries returns a copy of entries that shares no backing array.
func ClonePlannerEntries(entries []PlannerEntry) []PlannerEntry {
	if entries == nil {
		return []PlannerEntry{}
	}
	return append(make([]PlannerEntry, 0, len(entries)), entries...)
}
