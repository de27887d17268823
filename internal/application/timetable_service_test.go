package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/study-planner/internal/application"
	"github.com/example/study-planner/internal/testfixtures"
)

func TestTimetableServiceCreateStudyListsByDay(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	svc := factory.NewTimetableService()
	ctx := context.Background()

	inputs := []application.StudyInput{
		testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Monday), testfixtures.WithStudySlot(13, 14)).Input(),
		testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Monday), testfixtures.WithStudySlot(9, 10.5)).Input(),
		testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Thursday), testfixtures.WithStudySlot(9, 10.5)).Input(),
	}
	for _, input := range inputs {
		if _, err := svc.CreateStudy(ctx, input); err != nil {
			t.Fatalf("CreateStudy returned error: %v", err)
		}
	}

	days, err := svc.ListStudy(ctx)
	if err != nil {
		t.Fatalf("ListStudy returned error: %v", err)
	}
	if len(days) != 5 {
		t.Fatalf("expected five study days, got %d", len(days))
	}
	monday := days[0]
	if monday.Day != time.Monday || len(monday.Entries) != 2 {
		t.Fatalf("unexpected Monday group: %+v", monday)
	}
	if monday.Entries[0].Start != 9 || monday.Entries[1].Start != 13 {
		t.Fatalf("expected Monday ordered by start, got %v then %v", monday.Entries[0].Start, monday.Entries[1].Start)
	}
	if len(days[3].Entries) != 1 || len(days[4].Entries) != 0 {
		t.Fatalf("unexpected Thursday/Friday groups: %+v", days[3:])
	}

	stored, err := svc.StudyEntries(ctx)
	if err != nil {
		t.Fatalf("StudyEntries returned error: %v", err)
	}
	if stored[0].ID != "id-1" || stored[2].ID != "id-3" {
		t.Fatalf("expected insertion order to be kept, got %s..%s", stored[0].ID, stored[2].ID)
	}
}

func TestTimetableServiceRejectsOverlappingClass(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	svc := factory.NewTimetableService()
	ctx := context.Background()

	first, err := svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudySlot(9, 10.5)).Input())
	if err != nil {
		t.Fatalf("CreateStudy returned error: %v", err)
	}

	_, err = svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudySlot(10, 11)).Input())
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) || !errors.Is(err, application.ErrTimeConflict) {
		t.Fatalf("expected time conflict, got %v", err)
	}
	if vErr.ConflictID != first.ID || vErr.Message() != application.MessageTimeConflict {
		t.Fatalf("unexpected conflict details: %+v", vErr)
	}

	if _, err := svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudySlot(10.5, 12)).Input()); err != nil {
		t.Fatalf("back to back classes must be accepted, got %v", err)
	}
	if _, err := svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Tuesday), testfixtures.WithStudySlot(9, 10.5)).Input()); err != nil {
		t.Fatalf("same slot on another day must be accepted, got %v", err)
	}

	entries, _ := svc.StudyEntries(ctx)
	if len(entries) != 3 {
		t.Fatalf("rejected class must not be stored, got %d entries", len(entries))
	}
}

func TestTimetableServiceUpdateStudyExcludesItself(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	svc := factory.NewTimetableService()
	ctx := context.Background()

	entry, err := svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudySlot(9, 10.5)).Input())
	if err != nil {
		t.Fatalf("CreateStudy returned error: %v", err)
	}
	factory.Clock.Advance(time.Hour)

	input := testfixtures.NewStudyFixture(testfixtures.WithStudySlot(9.5, 11), testfixtures.WithStudyName("Compilers")).Input()
	updated, err := svc.UpdateStudy(ctx, entry.ID, input)
	if err != nil {
		t.Fatalf("UpdateStudy returned error: %v", err)
	}
	if updated.ID != entry.ID || updated.Name != "Compilers" || !updated.CreatedAt.Equal(entry.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected UpdatedAt %v, got %v", factory.Clock.Now(), updated.UpdatedAt)
	}

	if _, err := svc.UpdateStudy(ctx, "missing", input); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if err := svc.DeleteStudy(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteStudy returned error: %v", err)
	}
	if err := svc.DeleteStudy(ctx, entry.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTimetableServiceExamConflictsWithClassOnSameWeekday(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	svc := factory.NewTimetableService()
	ctx := context.Background()

	if _, err := svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Tuesday), testfixtures.WithStudySlot(9, 12)).Input()); err != nil {
		t.Fatalf("CreateStudy returned error: %v", err)
	}

	tuesday := testfixtures.Date(2024, time.January, 9)
	_, err := svc.CreateExam(ctx, testfixtures.NewExamFixture(testfixtures.WithExamDate(tuesday), testfixtures.WithExamSlot(10, 12)).Input())
	if !errors.Is(err, application.ErrTimeConflict) {
		t.Fatalf("expected exam to collide with Tuesday class, got %v", err)
	}

	wednesday := tuesday.AddDate(0, 0, 1)
	exam, err := svc.CreateExam(ctx, testfixtures.NewExamFixture(testfixtures.WithExamDate(wednesday), testfixtures.WithExamSlot(10, 12)).Input())
	if err != nil {
		t.Fatalf("CreateExam returned error: %v", err)
	}
	if !exam.Date.Equal(wednesday) || exam.Start != 10 || exam.Type != application.ExamMidterm {
		t.Fatalf("unexpected exam: %+v", exam)
	}

	_, err = svc.CreateStudy(ctx, testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Wednesday), testfixtures.WithStudySlot(11, 13)).Input())
	if !errors.Is(err, application.ErrTimeConflict) {
		t.Fatalf("expected class to collide with Wednesday exam, got %v", err)
	}
}

func TestTimetableServiceExamValidation(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	svc := factory.NewTimetableService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*application.ExamInput)
		want   error
	}{
		{"blank code", func(in *application.ExamInput) { in.Code = "" }, application.ErrMissingField},
		{"bad date", func(in *application.ExamInput) { in.Date = "tomorrow" }, application.ErrMissingField},
		{"bad time", func(in *application.ExamInput) { in.Start = "9am" }, application.ErrMissingField},
		{"unknown type", func(in *application.ExamInput) { in.ExamType = "quiz" }, application.ErrMissingField},
		{"reversed", func(in *application.ExamInput) { in.Start, in.End = "12:00", "09:00" }, application.ErrInvalidRange},
		{"blank name and reversed", func(in *application.ExamInput) { in.Name, in.Start, in.End = "", "12:00", "09:00" }, application.ErrMissingField},
	}
	for _, tc := range cases {
		input := testfixtures.NewExamFixture().Input()
		tc.mutate(&input)
		if _, err := svc.CreateExam(ctx, input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	exams, err := svc.ListExams(ctx)
	if err != nil || len(exams) != 0 {
		t.Fatalf("expected no exams stored, got %d (%v)", len(exams), err)
	}
}

func TestTimetableServiceListExamsSorted(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	svc := factory.NewTimetableService()
	ctx := context.Background()

	later := testfixtures.NewExamFixture(testfixtures.WithExamDate(testfixtures.Date(2024, time.February, 1)), testfixtures.WithExamType("final"))
	sameDayLate := testfixtures.NewExamFixture(testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 20)), testfixtures.WithExamSlot(13, 15))
	sameDayEarly := testfixtures.NewExamFixture(testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 20)), testfixtures.WithExamSlot(9, 11))
	for _, f := range []testfixtures.ExamFixture{later, sameDayLate, sameDayEarly} {
		if _, err := svc.CreateExam(ctx, f.Input()); err != nil {
			t.Fatalf("CreateExam returned error: %v", err)
		}
	}

	exams, err := svc.ListExams(ctx)
	if err != nil {
		t.Fatalf("ListExams returned error: %v", err)
	}
	if exams[0].Start != 9 || exams[1].Start != 13 || exams[2].Type != application.ExamFinal {
		t.Fatalf("unexpected order: %+v", exams)
	}
}
