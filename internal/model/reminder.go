package model

import "time"

// Priority is the reminder urgency level.
type Priority string

const (
	PriorityImmediate Priority = "immediate"
	PriorityHigh      Priority = "high"
	PriorityMid       Priority = "mid"
	PriorityLow       Priority = "low"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityImmediate, PriorityHigh, PriorityMid, PriorityLow:
		return true
	}
	return false
}

// Reminder is a committed reminder in the reminder store.
type Reminder struct {
	ID           string     // Store internal ID (name field, e.g. "reminders/123")
	Title        string     // Short action phrase
	Notes        string     // Free-form detail text
	Link         string     // Optional URL attached to the reminder
	Priority     Priority   // Urgency level
	DueAt        *time.Time // Absolute due instant; nil for undated reminders
	AllDay       bool       // Due date carries no meaningful time of day
	Recurrence   string     // Recurrence rule keyword (daily/weekly/monthly...), empty for one-shot
	Topics       []string   // Topic labels for grouping
	Timezone     string     // IANA timezone the due date was resolved in
	ChatID       int64      // Originating chat
	OwnerUserID  string     // Scope user the reminder belongs to
	SourceRefs   []string   // Source message references the reminder was drafted from
	CalendarLink string     // Deep link to the Google Calendar event (may be empty)
	CreatedAt    time.Time
}
