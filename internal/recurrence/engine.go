package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/study-planner/internal/scheduler"
)

var ict = time.FixedZone("ICT", 7*60*60)

// Slot is a weekly timetable entry to expand.
type Slot struct {
	EntryID string
	Weekday time.Weekday
	Start   scheduler.DecimalTime
	End     scheduler.DecimalTime
}

// Occurrence represents a dated instance of a weekly slot.
type Occurrence struct {
	EntryID string
	Start   time.Time
	End     time.Time
}

// Engine expands weekly slots into occurrences.
type Engine struct {
	location *time.Location
}

// NewEngine constructs an Engine that produces results in the provided location.
// If loc is nil, Indochina Time (UTC+7) is used.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = ict
	}
	return &Engine{location: loc}
}

// ErrInvalidWindow indicates the expansion window is empty or inverted.
var ErrInvalidWindow = errors.New("recurrence: window end must be after its start")

// ErrInvalidDuration indicates a slot does not end after it starts.
var ErrInvalidDuration = errors.New("recurrence: slot duration must be positive")

// Location returns the engine's timezone.
func (e *Engine) Location() *time.Location {
	if e == nil || e.location == nil {
		return ict
	}
	return e.location
}

// Week returns the Monday-to-Monday window containing t.
func (e *Engine) Week(t time.Time) (time.Time, time.Time) {
	loc := e.Location()
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	from := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 7)
}

// Expand produces every occurrence of slots whose start falls within [from, to).
//
// Each slot becomes a FREQ=WEEKLY rule anchored at the start of the window. Results
// are ordered by start time, then by entry id.
func (e *Engine) Expand(slots []Slot, from, to time.Time) ([]Occurrence, error) {
	loc := e.Location()
	from = from.In(loc)
	to = to.In(loc)
	if !to.After(from) {
		return nil, ErrInvalidWindow
	}

	occurrences := make([]Occurrence, 0)
	for _, slot := range slots {
		if !slot.Start.Valid() || !slot.End.Valid() || slot.End <= slot.Start {
			return nil, fmt.Errorf("%w: entry %s", ErrInvalidDuration, slot.EntryID)
		}

		y, m, d := from.Date()
		anchor := time.Date(y, m, d, 0, 0, 0, 0, loc).Add(slot.Start.Duration())
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{toRRuleWeekday(slot.Weekday)},
			Dtstart:   anchor,
			Until:     to,
		})
		if err != nil {
			return nil, fmt.Errorf("recurrence: build rule for %s: %w", slot.EntryID, err)
		}

		length := slot.End.Duration() - slot.Start.Duration()
		for _, start := range rule.Between(from, to, true) {
			if !start.Before(to) {
				continue
			}
			occurrences = append(occurrences, Occurrence{
				EntryID: slot.EntryID,
				Start:   start,
				End:     start.Add(length),
			})
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		if !occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].Start.Before(occurrences[j].Start)
		}
		return occurrences[i].EntryID < occurrences[j].EntryID
	})
	return occurrences, nil
}

func toRRuleWeekday(day time.Weekday) rrule.Weekday {
	switch day {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
