package draft

import (
	"time"

	"reminder-draft/internal/model"
	"reminder-draft/pkg/datemath"
)

// ContentKind tags where draft content came from. Transcription and OCR
// happen upstream; every kind arrives here as plain text.
type ContentKind string

const (
	ContentText       ContentKind = "text"       // Plain chat message
	ContentSummary    ContentKind = "summary"    // Already-summarized text block
	ContentTranscript ContentKind = "transcript" // Transcript or OCR output
)

// Recurrence is the repeat rule for a reminder.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ValidRecurrence reports whether r is a known recurrence keyword.
func ValidRecurrence(r Recurrence) bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Next returns the occurrence following t, or t unchanged for one-shot rules.
func (r Recurrence) Next(t time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	}
	return t
}

// Proposal is one candidate reminder awaiting confirmation.
// Index is 1-based and dense; removals renumber the remaining set.
type Proposal struct {
	Index      int
	Title      string
	Notes      string
	Link       string
	Priority   model.Priority
	Due        *datemath.Result // nil means no due date, which is still committable
	Recurrence Recurrence
	Topics     []string
	SourceRefs []string
}

// Status is the draft session lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusCommitting Status = "committing"
	StatusCommitted  Status = "committed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// Terminal reports whether no further transitions can leave s.
func (s Status) Terminal() bool {
	return s == StatusCommitted || s == StatusCancelled || s == StatusExpired
}

// Session is the pending negotiation for one chat/user pair.
// At most one non-terminal session exists per (ChatID, OwnerUserID).
type Session struct {
	ID          string
	ChatID      int64
	OwnerUserID string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Proposals   []Proposal
	Status      Status

	// RefinementTarget is the 1-based index the last bot turn asked a
	// clarifying question about; 0 when unset. Free text without a
	// command verb is routed here.
	RefinementTarget int
}

// StartDraftInput is the input for starting a draft negotiation.
type StartDraftInput struct {
	Content    string
	Kind       ContentKind
	SourceRefs []string
	ChatID     int64
}

// StartDraftOutput is the result of starting (or merging into) a draft.
type StartDraftOutput struct {
	Session *Session
	Summary string // Human-readable proposal listing for the chat layer
}

// ApplyCommandInput is one user turn against the active session.
type ApplyCommandInput struct {
	ChatID int64
	Text   string
}

// CommandOutcome is the result of applying one command turn.
type CommandOutcome struct {
	Session   *Session
	Summary   string           // Human-readable outcome for the chat layer
	Committed []model.Reminder // Reminders persisted during this turn, if any
}
