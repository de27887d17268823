package scheduler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime indicates a time-of-day string could not be parsed.
var ErrInvalidTime = errors.New("scheduler: invalid time of day")

// ErrInvalidWeekday indicates a weekday name could not be parsed.
var ErrInvalidWeekday = errors.New("scheduler: invalid weekday")

// DecimalTime is an hour of day expressed in fractional hours, so 9.5 is 09:30.
type DecimalTime float64

// ParseDecimalTime parses "HH:MM" (or "H:MM") into a DecimalTime. "24:00" is accepted
// as the end of the day.
func ParseDecimalTime(value string) (DecimalTime, error) {
	value = strings.TrimSpace(value)
	hourPart, minutePart, ok := strings.Cut(value, ":")
	if !ok || hourPart == "" || len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return DecimalTime(float64(hour) + float64(minute)/60), nil
}

// DecimalTimeOf returns the time of day of t in its own location.
func DecimalTimeOf(t time.Time) DecimalTime {
	return DecimalTime(float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600 + float64(t.Nanosecond())/3.6e12)
}

// Valid reports whether d lies within a day.
func (d DecimalTime) Valid() bool {
	return !math.IsNaN(float64(d)) && d >= 0 && d <= 24
}

// Duration returns the offset of d from midnight.
func (d DecimalTime) Duration() time.Duration {
	return time.Duration(math.Round(float64(d) * float64(time.Hour)))
}

// String formats d as "HH:MM" with minutes rounded to the nearest whole minute.
func (d DecimalTime) String() string {
	total := int(math.Round(float64(d) * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseWeekday resolves an English weekday name such as "Monday" or "mon".
func ParseWeekday(value string) (time.Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if len(normalized) < 3 {
		return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, value)
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := strings.ToLower(day.String())
		if normalized == name || normalized == name[:3] {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, value)
}

// TimeInterval is a time range keyed either by a weekday (recurring weekly) or by a
// calendar date. Exactly one key applies: a zero Date means the interval recurs on
// Weekday every week.
type TimeInterval struct {
	ID      string
	Weekday time.Weekday
	Date    time.Time
	Start   DecimalTime
	End     DecimalTime
}

// Weekly builds an interval recurring on day every week.
func Weekly(id string, day time.Weekday, start, end DecimalTime) TimeInterval {
	return TimeInterval{ID: id, Weekday: day, Start: start, End: end}
}

// Dated builds an interval pinned to the calendar date of date.
func Dated(id string, date time.Time, start, end DecimalTime) TimeInterval {
	y, m, d := date.Date()
	return TimeInterval{
		ID:      id,
		Weekday: date.Weekday(),
		Date:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Start:   start,
		End:     end,
	}
}

// Recurring reports whether the interval repeats weekly.
func (i TimeInterval) Recurring() bool {
	return i.Date.IsZero()
}

// Valid reports whether both bounds lie within the day and start precedes end.
func (i TimeInterval) Valid() bool {
	return i.Start.Valid() && i.End.Valid() && i.Start < i.End
}

// Overlaps applies the half-open overlap test; touching endpoints do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start < other.End && i.End > other.Start
}

// SameSlot reports whether two intervals can collide: both weekly on the same weekday,
// both dated on the same date, or one dated on a weekday the other recurs on.
func (i TimeInterval) SameSlot(other TimeInterval) bool {
	switch {
	case i.Recurring() && other.Recurring():
		return i.Weekday == other.Weekday
	case !i.Recurring() && !other.Recurring():
		return sameDate(i.Date, other.Date)
	default:
		return i.Weekday == other.Weekday
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
