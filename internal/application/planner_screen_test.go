package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/study-planner/internal/application"
	"github.com/example/study-planner/internal/testfixtures"
)

func TestPlannerScreenQuickAddOpensAfterTabSwitch(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	screen := factory.NewPlannerScreen()
	ctx := context.Background()

	if got := screen.State(); got.ActiveTab != application.TabActivities || got.ModalOpen {
		t.Fatalf("unexpected initial state: %+v", got)
	}

	var seen application.ScreenState
	state, err := screen.QuickAdd(ctx, application.TabStudy, func(s application.ScreenState) { seen = s })
	if err != nil {
		t.Fatalf("QuickAdd returned error: %v", err)
	}
	if !state.ModalOpen || state.ActiveTab != application.TabStudy || state.EditingID != "" {
		t.Fatalf("unexpected state after quick add: %+v", state)
	}
	if seen.ActiveTab != application.TabStudy || !seen.ModalOpen {
		t.Fatalf("expected callback to observe the open study form, got %+v", seen)
	}

	if _, err := screen.QuickAdd(ctx, "archive", nil); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected unknown tab to be rejected, got %v", err)
	}
}

func TestPlannerScreenSaveKeepsFormOnFailure(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	screen := factory.NewPlannerScreen()
	ctx := context.Background()

	if _, err := screen.QuickAdd(ctx, application.TabActivities, nil); err != nil {
		t.Fatalf("QuickAdd returned error: %v", err)
	}

	bad := application.PlannerInput{Title: "Club", Category: "club", StartTime: "10:00", EndTime: "09:00"}
	_, state, err := screen.Save(ctx, bad)
	if !errors.Is(err, application.ErrInvalidRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
	if !state.ModalOpen || state.Form.Title != "Club" {
		t.Fatalf("expected modal to stay open with the form, got %+v", state)
	}

	bad.EndTime = "11:00"
	entry, state, err := screen.Save(ctx, bad)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if state.ModalOpen || entry.ID == "" {
		t.Fatalf("expected modal closed after save, got %+v", state)
	}
}

func TestPlannerScreenEditUpdatesEntry(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	screen := factory.NewPlannerScreen()
	planner := factory.NewPlannerService()
	ctx := context.Background()

	entry, err := planner.Create(ctx, application.TabActivities, testfixtures.NewPlannerFixture(testfixtures.WithPlannerOther("Hackathon")).Input())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	state, err := screen.Edit(ctx, application.TabActivities, entry.ID)
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if state.EditingID != entry.ID || state.Form.Category != application.CategoryOther || state.Form.OtherDetail != "Hackathon" {
		t.Fatalf("expected form prefilled from entry, got %+v", state)
	}

	form := state.Form
	form.Title = "Hackathon day 2"
	updated, state, err := screen.Save(ctx, form)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if updated.ID != entry.ID || updated.Title != "Hackathon day 2" || state.ModalOpen {
		t.Fatalf("unexpected update: %+v state %+v", updated, state)
	}

	entries, _ := planner.List(ctx, application.TabActivities)
	if len(entries) != 1 {
		t.Fatalf("expected edit to update in place, got %d entries", len(entries))
	}

	if _, err := screen.Edit(ctx, application.TabActivities, "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if closed := screen.Close(); closed.ModalOpen || closed.EditingID != "" {
		t.Fatalf("unexpected state after close: %+v", closed)
	}
}
