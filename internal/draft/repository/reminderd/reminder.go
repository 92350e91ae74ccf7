package reminderd

import (
	"context"
	"strings"
	"time"

	"reminder-draft/internal/draft/repository"
	"reminder-draft/internal/model"
	pkgLog "reminder-draft/pkg/log"
)

type implRepository struct {
	client *Client
	l      pkgLog.Logger
}

// New creates a new reminder store repository.
func New(client *Client, l pkgLog.Logger) repository.ReminderRepository {
	return &implRepository{
		client: client,
		l:      l,
	}
}

func (r *implRepository) CreateReminder(ctx context.Context, opt repository.CreateReminderOptions) (model.Reminder, error) {
	req := CreateReminderRequest{
		Title:      opt.Title,
		Notes:      opt.Notes,
		Link:       opt.Link,
		Priority:   string(opt.Priority),
		AllDay:     opt.AllDay,
		Recurrence: opt.Recurrence,
		Topics:     opt.Topics,
		Timezone:   opt.Timezone,
		ChatID:     opt.ChatID,
		Owner:      opt.OwnerUserID,
		SourceRefs: opt.SourceRefs,
	}
	if opt.DueAt != nil {
		req.DueAt = opt.DueAt.Format(time.RFC3339)
	}

	reminder, err := r.client.CreateReminder(ctx, req)
	if err != nil {
		r.l.Errorf(ctx, "reminderd repository: failed to create reminder: %v", err)
		return model.Reminder{}, err
	}

	return r.toModel(reminder), nil
}

func (r *implRepository) GetReminder(ctx context.Context, id string) (model.Reminder, error) {
	reminder, err := r.client.GetReminder(ctx, id)
	if err != nil {
		return model.Reminder{}, err
	}
	return r.toModel(reminder), nil
}

func (r *implRepository) ListReminders(ctx context.Context, opt repository.ListRemindersOptions) ([]model.Reminder, error) {
	limit := opt.Limit
	if limit == 0 {
		limit = 20
	}

	reminders, err := r.client.ListReminders(ctx, opt.OwnerUserID, opt.Topic, limit, opt.Offset)
	if err != nil {
		return nil, err
	}

	out := make([]model.Reminder, 0, len(reminders))
	for i := range reminders {
		out = append(out, r.toModel(&reminders[i]))
	}
	return out, nil
}

// toModel converts a store API wire object to the internal model.Reminder.
func (r *implRepository) toModel(w *Reminder) model.Reminder {
	uid := w.UID
	// Name format is "reminders/{uid}"
	if uid == "" && w.Name != "" {
		parts := strings.SplitN(w.Name, "/", 2)
		if len(parts) == 2 {
			uid = parts[1]
		}
	}

	var dueAt *time.Time
	if w.DueAt != "" {
		if t, err := time.Parse(time.RFC3339, w.DueAt); err == nil {
			dueAt = &t
		}
	}

	var createdAt time.Time
	if w.CreateTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, w.CreateTime)
	}

	return model.Reminder{
		ID:          w.Name,
		Title:       w.Title,
		Notes:       w.Notes,
		Link:        w.Link,
		Priority:    model.Priority(w.Priority),
		DueAt:       dueAt,
		AllDay:      w.AllDay,
		Recurrence:  w.Recurrence,
		Topics:      w.Topics,
		Timezone:    w.Timezone,
		ChatID:      w.ChatID,
		OwnerUserID: w.Owner,
		CreatedAt:   createdAt,
	}
}
