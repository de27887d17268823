package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/study-planner/internal/application"
)

type dashboardService interface {
	Summary(ctx context.Context) (application.Dashboard, error)
}

type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	dashboard, err := h.service.Summary(r.Context())
	if err != nil {
		handlerLogger(r.Context(), h.logger, "dashboard", "Get").ErrorContext(r.Context(), "failed to build dashboard", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDashboardDTO(dashboard))
}

type nextClassDTO struct {
	Class     studyDTO  `json:"class"`
	DaysAhead int       `json:"days_ahead"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

type upcomingExamDTO struct {
	Exam      examDTO   `json:"exam"`
	DaysUntil int       `json:"days_until"`
	StartsAt  time.Time `json:"starts_at"`
}

type dashboardDTO struct {
	Now           time.Time         `json:"now"`
	NextClass     *nextClassDTO     `json:"next_class"`
	UpcomingExams []upcomingExamDTO `json:"upcoming_exams"`
	WeekClasses   []occurrenceDTO   `json:"week_classes"`
}

func toDashboardDTO(dashboard application.Dashboard) dashboardDTO {
	dto := dashboardDTO{
		Now:           dashboard.Now,
		UpcomingExams: make([]upcomingExamDTO, 0, len(dashboard.UpcomingExams)),
		WeekClasses:   toOccurrenceDTOs(dashboard.WeekClasses),
	}
	if next := dashboard.NextClass; next != nil {
		dto.NextClass = &nextClassDTO{
			Class:     toStudyDTO(next.Entry),
			DaysAhead: next.DaysAhead,
			StartsAt:  next.StartsAt,
			EndsAt:    next.EndsAt,
		}
	}
	for _, exam := range dashboard.UpcomingExams {
		dto.UpcomingExams = append(dto.UpcomingExams, upcomingExamDTO{
			Exam:      toExamDTO(exam.Exam),
			DaysUntil: exam.DaysUntil,
			StartsAt:  exam.StartsAt,
		})
	}
	return dto
}
