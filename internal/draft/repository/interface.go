package repository

import (
	"context"

	"reminder-draft/internal/model"
)

// ReminderRepository is the interface for reminder store data access.
type ReminderRepository interface {
	CreateReminder(ctx context.Context, opt CreateReminderOptions) (model.Reminder, error)
	GetReminder(ctx context.Context, id string) (model.Reminder, error)
	ListReminders(ctx context.Context, opt ListRemindersOptions) ([]model.Reminder, error)
}
