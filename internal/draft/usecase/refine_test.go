package usecase

import (
	"testing"
	"time"

	"reminder-draft/internal/model"
	"reminder-draft/pkg/datemath"
)

func TestRefineRoundTrip(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Pay rent at:next friday")

	out, err := apply(t, uc, "edit 1 high tomorrow 9am")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out.Session.Proposals[0]
	if p.Priority != model.PriorityHigh {
		t.Errorf("priority = %s, want high", p.Priority)
	}
	if p.Due == nil {
		t.Fatal("expected a due date")
	}
	want := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	if !p.Due.Time.Equal(want) {
		t.Errorf("due = %v, want %v", p.Due.Time, want)
	}
	if p.Due.Confidence != datemath.ConfidenceHigh {
		t.Errorf("confidence = %s, want high regardless of the original due", p.Due.Confidence)
	}
	if p.Title != "Pay rent" {
		t.Errorf("title changed unexpectedly to %q", p.Title)
	}
}

func TestRefineTitleReplacement(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Buy milk at:tomorrow")

	out, err := apply(t, uc, "edit 1 buy oat milk instead")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out.Session.Proposals[0]
	if p.Title != "buy oat milk instead" {
		t.Errorf("title = %q, want replacement", p.Title)
	}
	if p.Due == nil {
		t.Error("title replacement must not clear the due date")
	}
}

func TestRefineTitleToken(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Buy milk at:tomorrow")

	out, err := apply(t, uc, "edit 1 title: buy oat milk p:low")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out.Session.Proposals[0]
	if p.Title != "buy oat milk" {
		t.Errorf("title = %q, want %q", p.Title, "buy oat milk")
	}
	if p.Priority != model.PriorityLow {
		t.Errorf("priority = %s, want low alongside the title edit", p.Priority)
	}
	if p.Due == nil {
		t.Error("title edit must not clear the due date")
	}
}

func TestRefineRecurrenceToken(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Water plants at:tomorrow")

	out, err := apply(t, uc, "edit 1 every:weekly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out.Session.Proposals[0]
	if p.Recurrence != "weekly" {
		t.Errorf("recurrence = %s, want weekly", p.Recurrence)
	}
	if p.Title != "Water plants" {
		t.Errorf("title changed unexpectedly to %q", p.Title)
	}
}

func TestRefineClearDue(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "File taxes at:tomorrow")

	out, err := apply(t, uc, "edit 1 at:none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Session.Proposals[0].Due != nil {
		t.Error("expected the due date cleared")
	}
}

func TestRefineIgnoresUnrecognizedFragments(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Buy milk at:tomorrow")

	out, err := apply(t, uc, "edit 1 urgent some filler words")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out.Session.Proposals[0]
	if p.Priority != model.PriorityHigh {
		t.Errorf("priority = %s, want high from the urgent marker", p.Priority)
	}
	if p.Title != "Buy milk" {
		t.Errorf("unrecognized filler must not replace the title, got %q", p.Title)
	}
}

func TestRefineTopicsAndNotes(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	startSession(t, uc, "Buy milk #home")

	out, err := apply(t, uc, "edit 1 #errands notes: lactose free")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out.Session.Proposals[0]
	if len(p.Topics) != 2 || p.Topics[0] != "home" || p.Topics[1] != "errands" {
		t.Errorf("topics = %v, want [home errands]", p.Topics)
	}
	if p.Notes != "lactose free" {
		t.Errorf("notes = %q, want %q", p.Notes, "lactose free")
	}
}
