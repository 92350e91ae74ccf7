package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
)

func startSession(t *testing.T, uc *implUseCase, content string) *draft.Session {
	t.Helper()
	out, err := uc.StartDraft(context.Background(), testScope(), draft.StartDraftInput{
		Content: content,
		ChatID:  100,
	})
	if err != nil {
		t.Fatalf("StartDraft failed: %v", err)
	}
	return out.Session
}

func apply(t *testing.T, uc *implUseCase, text string) (draft.CommandOutcome, error) {
	t.Helper()
	return uc.ApplyCommand(context.Background(), testScope(), draft.ApplyCommandInput{
		ChatID: 100,
		Text:   text,
	})
}

func TestApplyCommandNoSession(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})

	_, err := apply(t, uc, "confirm")
	if !errors.Is(err, draft.ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestRemoveRenumbering(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "- First task\n- Second task\n- Third task")

	out, err := apply(t, uc, "remove 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Session.Proposals) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(out.Session.Proposals))
	}
	if out.Session.Proposals[0].Index != 1 || out.Session.Proposals[1].Index != 2 {
		t.Errorf("indices not dense after removal: %d, %d",
			out.Session.Proposals[0].Index, out.Session.Proposals[1].Index)
	}
	if out.Session.Proposals[1].Title != "Third task" {
		t.Errorf("index 2 should now be the old third item, got %q", out.Session.Proposals[1].Title)
	}

	// edit 2 must target the item that was previously index 3
	out, err = apply(t, uc, "edit 2 low")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Proposals[1].Priority != model.PriorityLow {
		t.Errorf("edit 2 did not reach the renumbered item: %+v", out.Session.Proposals[1])
	}
}

func TestRemoveLastCancelsSession(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Only task")

	out, err := apply(t, uc, "remove 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Status != draft.StatusCancelled {
		t.Errorf("status = %s, want cancelled", out.Session.Status)
	}

	if _, err := apply(t, uc, "show"); !errors.Is(err, draft.ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession after cancellation, got %v", err)
	}
}

func TestCancelCommand(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "- A\n- B")

	out, err := apply(t, uc, "cancel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Status != draft.StatusCancelled {
		t.Errorf("status = %s, want cancelled", out.Session.Status)
	}
}

func TestInvalidIndex(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Only task")

	for _, cmd := range []string{"edit 9 low", "remove 0", "confirm 5", "remove abc"} {
		out, err := apply(t, uc, cmd)
		if !errors.Is(err, draft.ErrInvalidIndex) {
			t.Errorf("%q: expected ErrInvalidIndex, got %v", cmd, err)
		}
		if out.Session != nil && len(out.Session.Proposals) != 1 {
			t.Errorf("%q: session must stay unchanged", cmd)
		}
	}
}

func TestSessionExpiry(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{SessionTimeout: 5 * time.Minute})
	startSession(t, uc, "Only task")

	uc.now = func() time.Time { return testRefTime.Add(6 * time.Minute) }

	out, err := apply(t, uc, "confirm")
	if !errors.Is(err, draft.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if out.Session.Status != draft.StatusExpired {
		t.Errorf("status = %s, want expired", out.Session.Status)
	}

	if _, err := apply(t, uc, "confirm"); !errors.Is(err, draft.ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession after expiry, got %v", err)
	}
}

func TestCommandAliases(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "- A\n- B")

	out, err := apply(t, uc, "r 1")
	if err != nil {
		t.Fatalf("alias r failed: %v", err)
	}
	if len(out.Session.Proposals) != 1 {
		t.Errorf("expected 1 proposal after r 1, got %d", len(out.Session.Proposals))
	}

	out, err = apply(t, uc, "s")
	if err != nil {
		t.Fatalf("alias s failed: %v", err)
	}
	if !strings.Contains(out.Summary, "1 mục") {
		t.Errorf("show summary missing listing: %q", out.Summary)
	}
}

func TestNumericQuickMenu(t *testing.T) {
	repo := &mockReminderRepo{}
	uc := newTestUseCase(repo, nil, Config{})
	startSession(t, uc, "Only task")

	// 2 = show
	out, err := apply(t, uc, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Status != draft.StatusPending {
		t.Errorf("show must not mutate, status = %s", out.Session.Status)
	}

	// 3 = cancel
	out, err = apply(t, uc, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Status != draft.StatusCancelled {
		t.Errorf("status = %s, want cancelled", out.Session.Status)
	}
}

func TestFreeTextWithoutTarget(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "- A\n- B")

	out, err := apply(t, uc, "make it weekly please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Summary, "edit n") {
		t.Errorf("expected prompt to specify an index, got %q", out.Summary)
	}
}

func TestFreeTextRoutedToRefinementTarget(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "- A\n- B")

	// edit without instruction sets the pending target
	out, err := apply(t, uc, "edit 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.RefinementTarget != 2 {
		t.Fatalf("refinement target = %d, want 2", out.Session.RefinementTarget)
	}

	out, err = apply(t, uc, "low")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Proposals[1].Priority != model.PriorityLow {
		t.Errorf("free text did not refine target: %+v", out.Session.Proposals[1])
	}
}
