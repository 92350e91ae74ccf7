package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
	"reminder-draft/pkg/datemath"
)

func TestStartDraftSingleItem(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	ctx := context.Background()

	out, err := uc.StartDraft(ctx, testScope(), draft.StartDraftInput{
		Content:    "Pay rent p:high at:tomorrow 9am",
		Kind:       draft.ContentText,
		SourceRefs: []string{"msg-1"},
		ChatID:     100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Session.Proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(out.Session.Proposals))
	}
	p := out.Session.Proposals[0]
	if p.Title != "Pay rent" {
		t.Errorf("title = %q, want %q", p.Title, "Pay rent")
	}
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
		t.Errorf("confidence = %s, want high", p.Due.Confidence)
	}
	if p.Due.AllDay {
		t.Error("expected a timed due date, got all-day")
	}
	if out.Session.Status != draft.StatusPending {
		t.Errorf("status = %s, want pending", out.Session.Status)
	}
}

func TestStartDraftEmptyContent(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})

	_, err := uc.StartDraft(context.Background(), testScope(), draft.StartDraftInput{
		Content: "   ",
		ChatID:  100,
	})
	if !errors.Is(err, draft.ErrExtractionEmpty) {
		t.Errorf("expected ErrExtractionEmpty, got %v", err)
	}
}

func TestStartDraftBulletedList(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})

	out, err := uc.StartDraft(context.Background(), testScope(), draft.StartDraftInput{
		Content: "- Buy groceries at:tomorrow\n- Call dentist p:low\n- Submit report at:next friday #work",
		Kind:    draft.ContentText,
		ChatID:  100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Session.Proposals) != 3 {
		t.Fatalf("expected 3 proposals, got %d", len(out.Session.Proposals))
	}
	for i, p := range out.Session.Proposals {
		if p.Index != i+1 {
			t.Errorf("proposal %d has index %d", i, p.Index)
		}
	}
	if out.Session.Proposals[1].Priority != model.PriorityLow {
		t.Errorf("second proposal priority = %s, want low", out.Session.Proposals[1].Priority)
	}
	if got := out.Session.Proposals[2].Topics; len(got) != 1 || got[0] != "work" {
		t.Errorf("third proposal topics = %v, want [work]", got)
	}
}

func TestStartDraftNoDueVocabulary(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})

	out, err := uc.StartDraft(context.Background(), testScope(), draft.StartDraftInput{
		Content: "File taxes at:someday",
		ChatID:  100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := out.Session.Proposals[0]; p.Due != nil {
		t.Errorf("expected no due date, got %v", p.Due.Time)
	}
}

func TestStartDraftMergePolicy(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{IngestPolicy: IngestMerge})
	ctx := context.Background()
	sc := testScope()

	first, err := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Buy milk at:tomorrow", ChatID: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Walk the dog at:tonight", ChatID: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Session.ID != first.Session.ID {
		t.Error("expected merge into the existing session, got a new one")
	}
	if len(second.Session.Proposals) != 2 {
		t.Fatalf("expected 2 proposals after merge, got %d", len(second.Session.Proposals))
	}
	if second.Session.Proposals[1].Index != 2 {
		t.Errorf("merged proposal index = %d, want 2", second.Session.Proposals[1].Index)
	}
}

func TestStartDraftRejectPolicy(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{IngestPolicy: IngestReject})
	ctx := context.Background()
	sc := testScope()

	first, _ := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Buy milk at:tomorrow", ChatID: 100})

	second, err := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Walk the dog at:tonight", ChatID: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Session.ID != first.Session.ID {
		t.Error("expected the pending session to be kept")
	}
	if len(second.Session.Proposals) != 1 {
		t.Errorf("expected pending session unchanged, got %d proposals", len(second.Session.Proposals))
	}
}

func TestStartDraftReplacePolicy(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{IngestPolicy: IngestReplace})
	ctx := context.Background()
	sc := testScope()

	first, _ := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Buy milk at:tomorrow", ChatID: 100})

	second, err := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Walk the dog at:tonight", ChatID: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Session.ID == first.Session.ID {
		t.Error("expected a fresh session")
	}
	if len(second.Session.Proposals) != 1 || second.Session.Proposals[0].Title != "Walk the dog" {
		t.Errorf("unexpected proposals: %+v", second.Session.Proposals)
	}
}

func TestStartDraftIndependentChats(t *testing.T) {
	uc := newTestUseCase(&mockReminderRepo{}, nil, Config{})
	ctx := context.Background()
	sc := testScope()

	a, _ := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Buy milk at:tomorrow", ChatID: 100})
	b, _ := uc.StartDraft(ctx, sc, draft.StartDraftInput{Content: "Walk the dog at:tonight", ChatID: 200})

	if a.Session.ID == b.Session.ID {
		t.Error("sessions in different chats must be independent")
	}
}
