package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if clock.Now().Weekday() != time.Tuesday {
		t.Fatalf("expected the reference day to be a Tuesday, got %v", clock.Now().Weekday())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestClockCalendarHelpers(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	clock := NewClock(time.Date(2024, time.January, 5, 23, 30, 0, 0, bangkok))

	next := clock.AdvanceDays(3)
	if next.Weekday() != time.Monday || next.Hour() != 23 || next.Minute() != 30 {
		t.Fatalf("expected Monday 23:30, got %v", next)
	}

	morning := clock.SetTimeOfDay(8, 15)
	want := time.Date(2024, time.January, 8, 8, 15, 0, 0, bangkok)
	if !morning.Equal(want) || morning.Location() != bangkok {
		t.Fatalf("expected %v, got %v", want, morning)
	}
}

func TestClockNowFunc(t *testing.T) {
	clock := NewClock(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	nowFn := clock.NowFunc()

	clock.Advance(time.Minute)
	if got := nowFn(); !got.Equal(clock.Now()) {
		t.Fatalf("expected updated time %v, got %v", clock.Now(), got)
	}

	var missing *Clock
	if got := missing.NowFunc()(); got.IsZero() {
		t.Fatalf("expected wall clock from nil Clock")
	}
}
