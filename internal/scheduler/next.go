package scheduler

import (
	"sort"
	"time"
)

// RecurringEntry is a weekly schedule item considered by NextOccurrence.
type RecurringEntry struct {
	ID      string
	Weekday time.Weekday
	Start   DecimalTime
	End     DecimalTime
}

// Occurrence is the resolved next instance of a recurring entry.
type Occurrence struct {
	Entry     RecurringEntry
	DaysAhead int
	StartsAt  time.Time
	EndsAt    time.Time
}

// NextOccurrence returns the chronologically nearest future occurrence among entries
// relative to now. An entry on today's weekday that has already started is pushed to
// next week. Ties on days ahead are broken by start time; the input is not modified.
func NextOccurrence(entries []RecurringEntry, now time.Time) (Occurrence, bool) {
	if len(entries) == 0 {
		return Occurrence{}, false
	}

	current := DecimalTimeOf(now)
	candidates := make([]Occurrence, 0, len(entries))
	for _, entry := range entries {
		daysAhead := (int(entry.Weekday) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 && entry.Start <= current {
			daysAhead = 7
		}
		candidates = append(candidates, Occurrence{Entry: entry, DaysAhead: daysAhead})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DaysAhead != candidates[j].DaysAhead {
			return candidates[i].DaysAhead < candidates[j].DaysAhead
		}
		return candidates[i].Entry.Start < candidates[j].Entry.Start
	})

	next := candidates[0]
	y, m, d := now.Date()
	day := time.Date(y, m, d+next.DaysAhead, 0, 0, 0, 0, now.Location())
	next.StartsAt = day.Add(next.Entry.Start.Duration())
	next.EndsAt = day.Add(next.Entry.End.Duration())
	return next, true
}
