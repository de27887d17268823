package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/study-planner/internal/application"
)

type profileService interface {
	Get(ctx context.Context) (application.Profile, error)
	Save(ctx context.Context, input application.ProfileInput) (application.Profile, error)
	Reset(ctx context.Context) error
}

type ProfileHandler struct {
	service   profileService
	responder responder
	logger    *slog.Logger
}

func NewProfileHandler(service profileService, logger *slog.Logger) *ProfileHandler {
	base := defaultLogger(logger)
	return &ProfileHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	profile, err := h.service.Get(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, profileResponse{Profile: toProfileDTO(profile), Complete: profile != (application.Profile{})})
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var input application.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlerLogger(r.Context(), h.logger, "profile", "Save", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode profile", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	profile, err := h.service.Save(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, profileResponse{Profile: toProfileDTO(profile), Complete: true})
}

// Reset clears every timetable, planner and profile record.
func (h *ProfileHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.Reset(r.Context()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileDTO struct {
	FullName  string `json:"fullname"`
	StudentID string `json:"student_id"`
	Faculty   string `json:"faculty"`
	Year      string `json:"year"`
}

type profileResponse struct {
	Profile  profileDTO `json:"profile"`
	Complete bool       `json:"complete"`
}

func toProfileDTO(profile application.Profile) profileDTO {
	return profileDTO(profile)
}
