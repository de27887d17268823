package recurrence

import (
	"testing"
	"time"
)

func BenchmarkEngineExpand(b *testing.B) {
	engine := NewEngine(nil)
	from := time.Date(2024, 5, 6, 0, 0, 0, 0, ict)
	to := from.AddDate(0, 3, 0)

	slots := make([]Slot, 0, 10)
	for day := time.Monday; day <= time.Friday; day++ {
		slots = append(slots,
			Slot{EntryID: day.String() + "-am", Weekday: day, Start: 9, End: 10.5},
			Slot{EntryID: day.String() + "-pm", Weekday: day, Start: 13, End: 14.5},
		)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		occurrences, err := engine.Expand(slots, from, to)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) == 0 {
			b.Fatal("expected occurrences to be generated")
		}
	}
}
