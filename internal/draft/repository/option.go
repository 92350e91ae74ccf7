package repository

import (
	"time"

	"reminder-draft/internal/model"
)

// CreateReminderOptions holds the parameters for creating a reminder in the store.
type CreateReminderOptions struct {
	Title       string
	Notes       string
	Link        string
	Priority    model.Priority
	DueAt       *time.Time // nil for undated reminders
	AllDay      bool
	Recurrence  string // "daily"/"weekly"/"monthly", empty for one-shot
	Topics      []string
	Timezone    string
	ChatID      int64
	OwnerUserID string
	SourceRefs  []string
}

// ListRemindersOptions holds the parameters for listing reminders.
type ListRemindersOptions struct {
	OwnerUserID string
	Topic       string // Filter by a specific topic
	Limit       int    // Max number of results (default 20)
	Offset      int    // Pagination offset
}
