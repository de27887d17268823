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

type plannerService interface {
	List(ctx context.Context, tab application.PlannerTab) ([]application.PlannerEntry, error)
	Create(ctx context.Context, tab application.PlannerTab, input application.PlannerInput) (application.PlannerEntry, error)
	Update(ctx context.Context, tab application.PlannerTab, id string, input application.PlannerInput) (application.PlannerEntry, error)
	Toggle(ctx context.Context, tab application.PlannerTab, id string) (application.PlannerEntry, error)
	Delete(ctx context.Context, tab application.PlannerTab, id string) error
}

type plannerScreen interface {
	State() application.ScreenState
	QuickAdd(ctx context.Context, tab application.PlannerTab, opened func(application.ScreenState)) (application.ScreenState, error)
	Edit(ctx context.Context, tab application.PlannerTab, id string) (application.ScreenState, error)
	Save(ctx context.Context, input application.PlannerInput) (application.PlannerEntry, application.ScreenState, error)
	Close() application.ScreenState
}

// PlannerHandler serves both planner lists and the planner form modal.
type PlannerHandler struct {
	service   plannerService
	screen    plannerScreen
	responder responder
	logger    *slog.Logger
}

func NewPlannerHandler(service plannerService, screen plannerScreen, logger *slog.Logger) *PlannerHandler {
	base := defaultLogger(logger)
	return &PlannerHandler{service: service, screen: screen, responder: newResponder(base), logger: base}
}

func (h *PlannerHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "planner", operation, attrs...)
}

func (h *PlannerHandler) List(w http.ResponseWriter, r *http.Request, tab application.PlannerTab) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entries, err := h.service.List(r.Context(), tab)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := plannerListResponse{
		Tab:        string(tab),
		Entries:    make([]plannerDTO, 0, len(entries)),
		Categories: toCategoryDTOs(application.CategoryOptions(tab)),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, toPlannerDTO(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *PlannerHandler) Create(w http.ResponseWriter, r *http.Request, tab application.PlannerTab) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var input application.PlannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "Create", "tab", string(tab), "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode planner entry", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.Create(r.Context(), tab, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, plannerResponse{Entry: toPlannerDTO(entry)})
}

func (h *PlannerHandler) Update(w http.ResponseWriter, r *http.Request, tab application.PlannerTab) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	var input application.PlannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "Update", "tab", string(tab), "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode planner entry", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.Update(r.Context(), tab, id, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, plannerResponse{Entry: toPlannerDTO(entry)})
}

func (h *PlannerHandler) Toggle(w http.ResponseWriter, r *http.Request, tab application.PlannerTab) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	entry, err := h.service.Toggle(r.Context(), tab, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, plannerResponse{Entry: toPlannerDTO(entry)})
}

func (h *PlannerHandler) Delete(w http.ResponseWriter, r *http.Request, tab application.PlannerTab) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	if err := h.service.Delete(r.Context(), tab, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Screen returns the current modal state.
func (h *PlannerHandler) Screen(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.screen == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScreenDTO(h.screen.State()))
}

// QuickAdd switches to the requested tab and opens an empty form on it.
func (h *PlannerHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.screen == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "QuickAdd", "tab", req.Tab)
	state, err := h.screen.QuickAdd(r.Context(), application.PlannerTab(req.Tab), func(application.ScreenState) {
		logger.DebugContext(r.Context(), "quick add form opened")
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScreenDTO(state))
}

// Edit opens the form prefilled with an existing entry.
func (h *PlannerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.screen == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	state, err := h.screen.Edit(r.Context(), application.PlannerTab(req.Tab), req.ID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScreenDTO(state))
}

// Save submits the form. On failure the error body is returned and the modal stays
// open with the submitted values.
func (h *PlannerHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.screen == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var input application.PlannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, state, err := h.screen.Save(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, screenSaveResponse{Entry: toPlannerDTO(entry), Screen: toScreenDTO(state)})
}

// Close hides the modal.
func (h *PlannerHandler) Close(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.screen == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScreenDTO(h.screen.Close()))
}

type plannerDTO struct {
	ID               string    `json:"id"`
	Tab              string    `json:"tab"`
	Title            string    `json:"title"`
	Subject          string    `json:"subject,omitempty"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category"`
	OriginalCategory string    `json:"original_category"`
	OtherDetail      string    `json:"other_detail,omitempty"`
	CategoryColor    string    `json:"category_color"`
	Date             string    `json:"date"`
	StartTime        string    `json:"start_time,omitempty"`
	EndTime          string    `json:"end_time,omitempty"`
	Completed        bool      `json:"completed"`
	CreatedAt        time.Time `json:"created_at"`
}

type categoryDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type plannerResponse struct {
	Entry plannerDTO `json:"entry"`
}

type plannerListResponse struct {
	Tab        string        `json:"tab"`
	Entries    []plannerDTO  `json:"entries"`
	Categories []categoryDTO `json:"categories"`
}

type screenRequest struct {
	Tab string `json:"tab"`
	ID  string `json:"id"`
}

type screenDTO struct {
	ActiveTab  string                   `json:"active_tab"`
	ModalOpen  bool                     `json:"modal_open"`
	EditingID  string                   `json:"editing_id,omitempty"`
	Form       application.PlannerInput `json:"form"`
	Categories []categoryDTO            `json:"categories"`
}

type screenSaveResponse struct {
	Entry  plannerDTO `json:"entry"`
	Screen screenDTO  `json:"screen"`
}

func toPlannerDTO(entry application.PlannerEntry) plannerDTO {
	return plannerDTO{
		ID:               entry.ID,
		Tab:              string(entry.Tab),
		Title:            entry.Title,
		Subject:          entry.Subject,
		Description:      entry.Description,
		Category:         entry.Category,
		OriginalCategory: entry.OriginalCategory,
		OtherDetail:      entry.OtherDetail,
		CategoryColor:    application.CategoryColor(entry.Tab, entry.OriginalCategory),
		Date:             entry.Date.Format("2006-01-02"),
		StartTime:        entry.StartTime,
		EndTime:          entry.EndTime,
		Completed:        entry.Completed,
		CreatedAt:        entry.CreatedAt,
	}
}

func toCategoryDTOs(options []application.CategoryOption) []categoryDTO {
	out := make([]categoryDTO, 0, len(options))
	for _, option := range options {
		out = append(out, categoryDTO{Key: option.Key, Label: option.Label, Color: option.Color})
	}
	return out
}

func toScreenDTO(state application.ScreenState) screenDTO {
	return screenDTO{
		ActiveTab:  string(state.ActiveTab),
		ModalOpen:  state.ModalOpen,
		EditingID:  state.EditingID,
		Form:       state.Form,
		Categories: toCategoryDTOs(application.CategoryOptions(state.ActiveTab)),
	}
}
