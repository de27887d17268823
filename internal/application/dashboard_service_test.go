package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/study-planner/internal/testfixtures"
)

// The reference clock reads Tuesday 2024-01-02 15:04:05 UTC.
func seedDashboard(t *testing.T, factory *testfixtures.ServiceFactory) {
	t.Helper()

	dataset := testfixtures.Dataset{
		Study: []testfixtures.StudyFixture{
			testfixtures.NewStudyFixture(testfixtures.WithStudyID("tue-morning"), testfixtures.WithStudyDay(time.Tuesday), testfixtures.WithStudySlot(9, 10)),
			testfixtures.NewStudyFixture(testfixtures.WithStudyID("thu-morning"), testfixtures.WithStudyDay(time.Thursday), testfixtures.WithStudySlot(9, 10)),
			testfixtures.NewStudyFixture(testfixtures.WithStudyID("tue-evening"), testfixtures.WithStudyDay(time.Tuesday), testfixtures.WithStudySlot(16, 17)),
		},
		Exams: []testfixtures.ExamFixture{
			testfixtures.NewExamFixture(testfixtures.WithExamID("yesterday"), testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 1))),
			testfixtures.NewExamFixture(testfixtures.WithExamID("finished"), testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 2)), testfixtures.WithExamSlot(14, 15)),
			testfixtures.NewExamFixture(testfixtures.WithExamID("in-a-week"), testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 9))),
			testfixtures.NewExamFixture(testfixtures.WithExamID("too-far"), testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 10))),
			testfixtures.NewExamFixture(testfixtures.WithExamID("ongoing"), testfixtures.WithExamDate(testfixtures.Date(2024, time.January, 2)), testfixtures.WithExamSlot(15, 18)),
		},
	}
	if err := dataset.Seed(context.Background(), factory.Store); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestDashboardServiceSummary(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	seedDashboard(t, factory)
	svc := factory.NewDashboardService()

	dashboard, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	next := dashboard.NextClass
	if next == nil || next.Entry.ID != "tue-evening" || next.DaysAhead != 0 {
		t.Fatalf("expected tue-evening today, got %+v", next)
	}
	if want := time.Date(2024, time.January, 2, 16, 0, 0, 0, time.UTC); !next.StartsAt.Equal(want) {
		t.Fatalf("expected next class at %v, got %v", want, next.StartsAt)
	}

	if len(dashboard.UpcomingExams) != 2 {
		t.Fatalf("expected two upcoming exams, got %+v", dashboard.UpcomingExams)
	}
	if got := dashboard.UpcomingExams[0]; got.Exam.ID != "ongoing" || got.DaysUntil != 0 {
		t.Fatalf("unexpected first exam: %+v", got)
	}
	if got := dashboard.UpcomingExams[1]; got.Exam.ID != "in-a-week" || got.DaysUntil != 7 {
		t.Fatalf("unexpected second exam: %+v", got)
	}

	wantWeek := []string{"tue-morning", "tue-evening", "thu-morning"}
	if len(dashboard.WeekClasses) != len(wantWeek) {
		t.Fatalf("expected %d week classes, got %d", len(wantWeek), len(dashboard.WeekClasses))
	}
	for i, id := range wantWeek {
		if dashboard.WeekClasses[i].Entry.ID != id {
			t.Fatalf("week class %d: expected %s, got %s", i, id, dashboard.WeekClasses[i].Entry.ID)
		}
	}
}

func TestDashboardServiceSummaryRefreshesAfterMutation(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	seedDashboard(t, factory)
	svc := factory.NewDashboardService()
	ctx := context.Background()

	before, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	input := testfixtures.NewStudyFixture(testfixtures.WithStudyDay(time.Wednesday), testfixtures.WithStudySlot(8, 9)).Input()
	if _, err := factory.NewTimetableService().CreateStudy(ctx, input); err != nil {
		t.Fatalf("CreateStudy returned error: %v", err)
	}

	after, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if len(after.WeekClasses) != len(before.WeekClasses)+1 {
		t.Fatalf("expected the new class in the week view, got %d then %d", len(before.WeekClasses), len(after.WeekClasses))
	}
}

func TestDashboardServiceNoClasses(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	dashboard, err := factory.NewDashboardService().Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if dashboard.NextClass != nil || len(dashboard.UpcomingExams) != 0 || len(dashboard.WeekClasses) != 0 {
		t.Fatalf("expected an empty dashboard, got %+v", dashboard)
	}
}

func TestDashboardServiceUsesLocationForToday(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	// 20:00 UTC Tuesday is 03:00 Wednesday in Bangkok.
	clock := testfixtures.NewClock(time.Date(2024, time.January, 2, 20, 0, 0, 0, time.UTC))
	factory := testfixtures.NewServiceFactory(testfixtures.WithClock(clock), testfixtures.WithLocation(bangkok))

	dataset := testfixtures.Dataset{Study: []testfixtures.StudyFixture{
		testfixtures.NewStudyFixture(testfixtures.WithStudyID("wed"), testfixtures.WithStudyDay(time.Wednesday), testfixtures.WithStudySlot(9, 10)),
	}}
	if err := dataset.Seed(context.Background(), factory.Store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dashboard, err := factory.NewDashboardService().Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if dashboard.NextClass == nil || dashboard.NextClass.DaysAhead != 0 {
		t.Fatalf("expected the Wednesday class later today, got %+v", dashboard.NextClass)
	}
	if want := time.Date(2024, time.January, 3, 9, 0, 0, 0, bangkok); !dashboard.NextClass.StartsAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, dashboard.NextClass.StartsAt)
	}
}

func TestDashboardServiceWeek(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	seedDashboard(t, factory)

	occurrences, err := factory.NewDashboardService().Week(context.Background(), time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Week returned error: %v", err)
	}
	if len(occurrences) != 3 {
		t.Fatalf("expected three occurrences, got %d", len(occurrences))
	}
	if want := time.Date(2024, time.January, 9, 9, 0, 0, 0, time.UTC); !occurrences[0].Start.Equal(want) {
		t.Fatalf("expected first occurrence at %v, got %v", want, occurrences[0].Start)
	}
	if want := time.Date(2024, time.January, 11, 10, 0, 0, 0, time.UTC); !occurrences[2].End.Equal(want) {
		t.Fatalf("expected last occurrence to end at %v, got %v", want, occurrences[2].End)
	}
}
