package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/study-planner/internal/application"
)

type timetableService interface {
	ListStudy(ctx context.Context) ([]application.StudyDay, error)
	CreateStudy(ctx context.Context, input application.StudyInput) (application.StudyEntry, error)
	UpdateStudy(ctx context.Context, id string, input application.StudyInput) (application.StudyEntry, error)
	DeleteStudy(ctx context.Context, id string) error
	ListExams(ctx context.Context) ([]application.ExamEntry, error)
	CreateExam(ctx context.Context, input application.ExamInput) (application.ExamEntry, error)
	UpdateExam(ctx context.Context, id string, input application.ExamInput) (application.ExamEntry, error)
	DeleteExam(ctx context.Context, id string) error
}

type weekCalendar interface {
	Week(ctx context.Context, reference time.Time) ([]application.ClassOccurrence, error)
}

// TimetableHandler serves weekly classes, exams and the expanded week view.
type TimetableHandler struct {
	service   timetableService
	week      weekCalendar
	location  *time.Location
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

// NewTimetableHandler constructs a handler. Week dates are read in loc.
func NewTimetableHandler(service timetableService, week weekCalendar, loc *time.Location, logger *slog.Logger) *TimetableHandler {
	base := defaultLogger(logger)
	if loc == nil {
		loc = time.Local
	}
	return &TimetableHandler{
		service:   service,
		week:      week,
		location:  loc,
		now:       time.Now,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *TimetableHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "timetable", operation, attrs...)
}

func (h *TimetableHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *TimetableHandler) ListStudy(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	days, err := h.service.ListStudy(r.Context())
	if err != nil {
		h.log(r.Context(), "ListStudy").ErrorContext(r.Context(), "failed to list classes", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := studyListResponse{Days: make([]studyDayDTO, 0, len(days))}
	for _, day := range days {
		resp.Days = append(resp.Days, toStudyDayDTO(day))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *TimetableHandler) CreateStudy(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var input application.StudyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "CreateStudy", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode class", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.CreateStudy(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, studyResponse{Entry: toStudyDTO(entry)})
}

func (h *TimetableHandler) UpdateStudy(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	var input application.StudyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "UpdateStudy", "study_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode class", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.UpdateStudy(r.Context(), id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, studyResponse{Entry: toStudyDTO(entry)})
}

func (h *TimetableHandler) DeleteStudy(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	if err := h.service.DeleteStudy(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TimetableHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	exams, err := h.service.ListExams(r.Context())
	if err != nil {
		h.log(r.Context(), "ListExams").ErrorContext(r.Context(), "failed to list exams", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := examListResponse{Exams: make([]examDTO, 0, len(exams))}
	for _, exam := range exams {
		resp.Exams = append(resp.Exams, toExamDTO(exam))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *TimetableHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var input application.ExamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "CreateExam", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode exam", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	exam, err := h.service.CreateExam(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, examResponse{Exam: toExamDTO(exam)})
}

func (h *TimetableHandler) UpdateExam(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	var input application.ExamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "UpdateExam", "exam_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode exam", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	exam, err := h.service.UpdateExam(r.Context(), id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, examResponse{Exam: toExamDTO(exam)})
}

func (h *TimetableHandler) DeleteExam(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	if err := h.service.DeleteExam(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Week lists the class occurrences of the Monday-to-Sunday week containing the date
// query parameter.
func (h *TimetableHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.week == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reference := h.now().In(h.location)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			h.log(r.Context(), "Week", "date", raw, "error_kind", "bad_request").WarnContext(r.Context(), "invalid week date", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		reference = parsed
	}

	occurrences, err := h.week.Week(r.Context(), reference)
	if err != nil {
		h.log(r.Context(), "Week").ErrorContext(r.Context(), "failed to expand week", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, weekResponse{
		Date:        reference.Format("2006-01-02"),
		Occurrences: toOccurrenceDTOs(occurrences),
	})
}

type studyDTO struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Room       string  `json:"room"`
	Day        string  `json:"day"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	StartLabel string  `json:"start_label"`
	EndLabel   string  `json:"end_label"`
	Color      string  `json:"color"`
}

type studyDayDTO struct {
	Day     string     `json:"day"`
	Entries []studyDTO `json:"entries"`
}

type studyResponse struct {
	Entry studyDTO `json:"entry"`
}

type studyListResponse struct {
	Days []studyDayDTO `json:"days"`
}

type examDTO struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Room     string `json:"room"`
	ExamType string `json:"exam_type"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type examResponse struct {
	Exam examDTO `json:"exam"`
}

type examListResponse struct {
	Exams []examDTO `json:"exams"`
}

type occurrenceDTO struct {
	StudyID string    `json:"study_id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Room    string    `json:"room"`
	Color   string    `json:"color"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type weekResponse struct {
	Date        string          `json:"date"`
	Occurrences []occurrenceDTO `json:"occurrences"`
}

func toStudyDTO(entry application.StudyEntry) studyDTO {
	return studyDTO{
		ID:         entry.ID,
		Code:       entry.Code,
		Name:       entry.Name,
		Room:       entry.Room,
		Day:        entry.Day.String(),
		Start:      float64(entry.Start),
		End:        float64(entry.End),
		StartLabel: entry.Start.String(),
		EndLabel:   entry.End.String(),
		Color:      entry.Color,
	}
}

func toStudyDayDTO(day application.StudyDay) studyDayDTO {
	dto := studyDayDTO{Day: day.Day.String(), Entries: make([]studyDTO, 0, len(day.Entries))}
	for _, entry := range day.Entries {
		dto.Entries = append(dto.Entries, toStudyDTO(entry))
	}
	return dto
}

func toExamDTO(exam application.ExamEntry) examDTO {
	return examDTO{
		ID:       exam.ID,
		Code:     exam.Code,
		Name:     exam.Name,
		Room:     exam.Room,
		ExamType: string(exam.Type),
		Date:     exam.Date.Format("2006-01-02"),
		Start:    exam.Start.String(),
		End:      exam.End.String(),
	}
}

func toOccurrenceDTOs(occurrences []application.ClassOccurrence) []occurrenceDTO {
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, occurrenceDTO{
			StudyID: occ.Entry.ID,
			Code:    occ.Entry.Code,
			Name:    occ.Entry.Name,
			Room:    occ.Entry.Room,
			Color:   occ.Entry.Color,
			Start:   occ.Start,
			End:     occ.End,
		})
	}
	return out
}
