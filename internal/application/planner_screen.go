package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ScreenState is what the planner screen shows: the active tab, whether the form
// modal is open, and the form being edited.
type ScreenState struct {
	ActiveTab PlannerTab
	ModalOpen bool
	EditingID string
	Form      PlannerInput
}

// PlannerScreen drives the planner's form modal. Every transition runs to completion
// before the next one starts, so a quick-add never races the tab switch it causes.
type PlannerScreen struct {
	mu      sync.Mutex
	current ScreenState
	planner *PlannerService
	logger  *slog.Logger
}

// NewPlannerScreen constructs a screen on the activities tab with the modal closed.
func NewPlannerScreen(planner *PlannerService, logger *slog.Logger) *PlannerScreen {
	return &PlannerScreen{
		current: ScreenState{ActiveTab: TabActivities},
		planner: planner,
		logger:  defaultLogger(logger),
	}
}

// State returns a snapshot of the screen.
func (p *PlannerScreen) State() ScreenState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SwitchTab changes the active tab without touching the modal.
func (p *PlannerScreen) SwitchTab(tab PlannerTab) (ScreenState, error) {
	if !tab.Valid() {
		return ScreenState{}, unknownTab(tab)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.ActiveTab = tab
	return p.current, nil
}

// QuickAdd switches to tab, clears the form and the editing id, opens the modal and
// then calls opened with the resulting state. opened may be nil.
func (p *PlannerScreen) QuickAdd(ctx context.Context, tab PlannerTab, opened func(ScreenState)) (ScreenState, error) {
	if !tab.Valid() {
		return ScreenState{}, unknownTab(tab)
	}

	p.mu.Lock()
	p.current.ActiveTab = tab
	p.current.Form = PlannerInput{Tab: tab}
	p.current.EditingID = ""
	p.current.ModalOpen = true
	snapshot := p.current
	p.mu.Unlock()

	serviceLogger(ctx, p.logger, "PlannerScreen", "QuickAdd", "tab", string(tab)).DebugContext(ctx, "form opened")
	if opened != nil {
		opened(snapshot)
	}
	return snapshot, nil
}

// Edit opens the modal prefilled with the entry id of tab.
func (p *PlannerScreen) Edit(ctx context.Context, tab PlannerTab, id string) (ScreenState, error) {
	if p.planner == nil {
		return ScreenState{}, fmt.Errorf("PlannerScreen has no planner service")
	}
	entry, err := p.planner.Get(ctx, tab, id)
	if err != nil {
		return ScreenState{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.ActiveTab = tab
	p.current.EditingID = entry.ID
	p.current.Form = formFromEntry(entry)
	p.current.ModalOpen = true
	return p.current, nil
}

// Close hides the modal and clears the form.
func (p *PlannerScreen) Close() ScreenState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.ModalOpen = false
	p.current.EditingID = ""
	p.current.Form = PlannerInput{}
	return p.current
}

// Save submits input on the active tab, updating the entry being edited or creating a
// new one. The modal closes only when the save succeeds.
func (p *PlannerScreen) Save(ctx context.Context, input PlannerInput) (PlannerEntry, ScreenState, error) {
	if p.planner == nil {
		return PlannerEntry{}, ScreenState{}, fmt.Errorf("PlannerScreen has no planner service")
	}

	current := p.State()
	var (
		entry PlannerEntry
		err   error
	)
	if current.EditingID != "" {
		entry, err = p.planner.Update(ctx, current.ActiveTab, current.EditingID, input)
	} else {
		entry, err = p.planner.Create(ctx, current.ActiveTab, input)
	}
	if err != nil {
		p.mu.Lock()
		p.current.Form = input
		p.current.Form.Tab = current.ActiveTab
		snapshot := p.current
		p.mu.Unlock()
		return PlannerEntry{}, snapshot, err
	}
	return entry, p.Close(), nil
}

func formFromEntry(entry PlannerEntry) PlannerInput {
	form := PlannerInput{
		Tab:         entry.Tab,
		Title:       entry.Title,
		Subject:     entry.Subject,
		Description: entry.Description,
		Category:    entry.OriginalCategory,
		OtherDetail: entry.OtherDetail,
		StartTime:   entry.StartTime,
		EndTime:     entry.EndTime,
	}
	if form.Category == "" {
		form.Category = entry.Category
	}
	if !entry.Date.IsZero() {
		form.Date = entry.Date.Format("2006-01-02")
	}
	return form
}
