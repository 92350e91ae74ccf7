package gcalendar

import "time"

// CreateEventRequest describes a calendar event to create.
type CreateEventRequest struct {
	CalendarID  string // empty means "primary"
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string
	AllDay      bool
}

// Event is a created calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
}
