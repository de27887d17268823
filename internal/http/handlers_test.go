package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/study-planner/internal/application"
	"github.com/example/study-planner/internal/testfixtures"
)

func newTestRouter(t *testing.T, health func(context.Context) error) (http.Handler, *testfixtures.ServiceFactory) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := testfixtures.NewServiceFactory(testfixtures.WithLogger(logger))
	dashboard := factory.NewDashboardService()

	router := NewRouter(RouterConfig{
		Dashboard: NewDashboardHandler(dashboard, logger),
		Timetable: NewTimetableHandler(factory.NewTimetableService(), dashboard, time.UTC, logger),
		Planner:   NewPlannerHandler(factory.NewPlannerService(), factory.NewPlannerScreen(), logger),
		Profile:   NewProfileHandler(factory.NewProfileService(), logger),
		Health:    health,
	})
	return router, factory
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func studyBody(day string, start, end float64) map[string]any {
	return map[string]any{"code": "CS101", "name": "Algorithms", "room": "SC-101", "day": day, "start": start, "end": end}
}

func TestTimetableHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create and list classes grouped by day", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		rec := doJSON(t, router, http.MethodPost, "/timetable/study", studyBody("Monday", 9, 10.5))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		created := decode[studyResponse](t, rec)
		if created.Entry.StartLabel != "09:00" || created.Entry.EndLabel != "10:30" || created.Entry.Color != application.Palette[0] {
			t.Fatalf("unexpected entry: %+v", created.Entry)
		}

		rec = doJSON(t, router, http.MethodGet, "/timetable/study", nil)
		list := decode[studyListResponse](t, rec)
		if len(list.Days) != 5 || list.Days[0].Day != "Monday" || len(list.Days[0].Entries) != 1 {
			t.Fatalf("unexpected days: %+v", list.Days)
		}
	})

	t.Run("map validation kinds to status codes", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		if rec := doJSON(t, router, http.MethodPost, "/timetable/study", studyBody("Monday", 9, 10.5)); rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}

		rec := doJSON(t, router, http.MethodPost, "/timetable/study", studyBody("Monday", 10, 11))
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		conflict := decode[errorResponse](t, rec)
		if conflict.ErrorCode != codeTimeConflict || conflict.Message != application.MessageTimeConflict || conflict.ConflictID == "" {
			t.Fatalf("unexpected conflict body: %+v", conflict)
		}

		rec = doJSON(t, router, http.MethodPost, "/timetable/study", studyBody("Monday", 15, 14))
		if rec.Code != http.StatusUnprocessableEntity || decode[errorResponse](t, rec).ErrorCode != codeInvalidRange {
			t.Fatalf("expected 422 invalid range, got %d: %s", rec.Code, rec.Body.String())
		}

		missing := studyBody("Monday", 15, 14)
		delete(missing, "name")
		rec = doJSON(t, router, http.MethodPost, "/timetable/study", missing)
		body := decode[errorResponse](t, rec)
		if rec.Code != http.StatusUnprocessableEntity || body.ErrorCode != codeMissingField {
			t.Fatalf("expected 422 missing field, got %d: %+v", rec.Code, body)
		}
		if body.Message != application.MessageMissingField || body.Errors["name"] != "กรุณาระบุชื่อวิชา" {
			t.Fatalf("expected Thai messages, got %+v", body)
		}
	})

	t.Run("reject undecodable bodies and unknown ids", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		rec := doJSON(t, router, http.MethodPost, "/timetable/exams", "{")
		if rec.Code != http.StatusBadRequest || decode[errorResponse](t, rec).ErrorCode != codeBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		rec = doJSON(t, router, http.MethodPut, "/timetable/study/missing", studyBody("Monday", 9, 10))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		rec = doJSON(t, router, http.MethodPatch, "/timetable/exams", nil)
		if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET, POST" {
			t.Fatalf("expected 405 with Allow header, got %d %q", rec.Code, rec.Header().Get("Allow"))
		}
	})

	t.Run("exams round trip and week view", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		exam := map[string]any{"code": "CS101", "name": "Algorithms", "exam_type": "final", "date": "12/01/2024", "start": "13:00", "end": "16:00"}
		rec := doJSON(t, router, http.MethodPost, "/timetable/exams", exam)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		created := decode[examResponse](t, rec).Exam
		if created.Date != "2024-01-12" || created.ExamType != "final" {
			t.Fatalf("unexpected exam: %+v", created)
		}

		if rec := doJSON(t, router, http.MethodDelete, "/timetable/exams/"+created.ID, nil); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		doJSON(t, router, http.MethodPost, "/timetable/study", studyBody("Wednesday", 9, 10))
		rec = doJSON(t, router, http.MethodGet, "/timetable/week?date=2024-01-12", nil)
		week := decode[weekResponse](t, rec)
		if len(week.Occurrences) != 1 {
			t.Fatalf("expected one occurrence, got %+v", week)
		}
		if want := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC); !week.Occurrences[0].Start.Equal(want) {
			t.Fatalf("expected occurrence at %v, got %v", want, week.Occurrences[0].Start)
		}

		if rec := doJSON(t, router, http.MethodGet, "/timetable/week?date=12/01/2024", nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
		}
	})
}

func TestPlannerHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create toggle and list entries", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		rec := doJSON(t, router, http.MethodPost, "/planner/activities", map[string]any{"title": "Open house", "category": "other", "other_detail": "Faculty event"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		entry := decode[plannerResponse](t, rec).Entry
		if entry.Category != "Faculty event" || entry.CategoryColor != application.ActivitiesColor {
			t.Fatalf("unexpected entry: %+v", entry)
		}

		rec = doJSON(t, router, http.MethodPost, "/planner/activities/"+entry.ID+"/toggle", nil)
		if rec.Code != http.StatusOK || !decode[plannerResponse](t, rec).Entry.Completed {
			t.Fatalf("expected toggled entry, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, router, http.MethodGet, "/planner/activities", nil)
		list := decode[plannerListResponse](t, rec)
		if len(list.Entries) != 1 || len(list.Categories) != len(application.ActivityCategories) {
			t.Fatalf("unexpected list: %+v", list)
		}

		if rec := doJSON(t, router, http.MethodDelete, "/planner/activities/"+entry.ID, nil); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec := doJSON(t, router, http.MethodGet, "/planner/archive", nil); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown tab, got %d", rec.Code)
		}
	})

	t.Run("field specific message for missing subject", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		rec := doJSON(t, router, http.MethodPost, "/planner/study", map[string]any{"title": "Read chapter 3", "category": "high"})
		body := decode[errorResponse](t, rec)
		if rec.Code != http.StatusUnprocessableEntity || body.Message != "กรุณาระบุชื่อวิชา" {
			t.Fatalf("expected subject message, got %d: %+v", rec.Code, body)
		}
	})

	t.Run("quick add then save closes the modal", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, nil)

		rec := doJSON(t, router, http.MethodPost, "/planner/quick-add", map[string]string{"tab": "study"})
		screen := decode[screenDTO](t, rec)
		if !screen.ModalOpen || screen.ActiveTab != "study" || len(screen.Categories) != len(application.StudyPriorities) {
			t.Fatalf("unexpected screen: %+v", screen)
		}

		rec = doJSON(t, router, http.MethodPost, "/planner/screen/save", map[string]any{"title": "Lab report", "subject": "Physics", "category": "medium", "start_time": "10:00", "end_time": "09:00"})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		rec = doJSON(t, router, http.MethodGet, "/planner/screen", nil)
		if screen := decode[screenDTO](t, rec); !screen.ModalOpen || screen.Form.Title != "Lab report" {
			t.Fatalf("expected modal to keep the form, got %+v", screen)
		}

		rec = doJSON(t, router, http.MethodPost, "/planner/screen/save", map[string]any{"title": "Lab report", "subject": "Physics", "category": "medium"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		saved := decode[screenSaveResponse](t, rec)
		if saved.Screen.ModalOpen || saved.Entry.Tab != "study" {
			t.Fatalf("unexpected save response: %+v", saved)
		}

		rec = doJSON(t, router, http.MethodPost, "/planner/screen/edit", map[string]string{"tab": "study", "id": saved.Entry.ID})
		if screen := decode[screenDTO](t, rec); screen.EditingID != saved.Entry.ID || screen.Form.Subject != "Physics" {
			t.Fatalf("expected edit form, got %+v", screen)
		}
		rec = doJSON(t, router, http.MethodPost, "/planner/screen/close", nil)
		if screen := decode[screenDTO](t, rec); screen.ModalOpen {
			t.Fatalf("expected closed modal, got %+v", screen)
		}
	})
}

func TestProfileAndDashboardHandlers(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPut, "/profile", map[string]string{"fullname": "Somchai Jaidee", "student_id": "6512345", "faculty": "Engineering"})
	if rec.Code != http.StatusUnprocessableEntity || decode[errorResponse](t, rec).Errors["year"] != "กรุณาระบุชั้นปี" {
		t.Fatalf("expected missing year, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/profile", map[string]string{"fullname": "Somchai Jaidee", "student_id": "6512345", "faculty": "Engineering", "year": "3"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[profileResponse](t, doJSON(t, router, http.MethodGet, "/profile", nil)); !got.Complete || got.Profile.Year != "3" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	doJSON(t, router, http.MethodPost, "/timetable/study", studyBody("Friday", 9, 10))
	rec = doJSON(t, router, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	dashboard := decode[dashboardDTO](t, rec)
	if dashboard.NextClass == nil || dashboard.NextClass.Class.Day != "Friday" {
		t.Fatalf("expected Friday class next, got %+v", dashboard.NextClass)
	}

	if rec := doJSON(t, router, http.MethodPost, "/reset", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := decode[profileResponse](t, doJSON(t, router, http.MethodGet, "/profile", nil)); got.Complete {
		t.Fatalf("expected empty profile after reset, got %+v", got)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	healthy, _ := newTestRouter(t, func(context.Context) error { return nil })
	if rec := doJSON(t, healthy, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	failing, _ := newTestRouter(t, func(context.Context) error { return errors.New("database is locked") })
	rec := doJSON(t, failing, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable || decode[errorResponse](t, rec).ErrorCode != codeUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}
