package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reminder-draft/internal/draft/repository"
	"reminder-draft/internal/model"
	"reminder-draft/pkg/datemath"
	"reminder-draft/pkg/gemini"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// Mock reminder repository
type mockReminderRepo struct {
	created    []repository.CreateReminderOptions
	failTitles map[string]bool
	seq        int
}

func (m *mockReminderRepo) CreateReminder(ctx context.Context, opt repository.CreateReminderOptions) (model.Reminder, error) {
	if m.failTitles[opt.Title] {
		return model.Reminder{}, errors.New("store error")
	}
	m.seq++
	m.created = append(m.created, opt)
	return model.Reminder{
		ID:         fmt.Sprintf("reminders/%d", m.seq),
		Title:      opt.Title,
		Priority:   opt.Priority,
		DueAt:      opt.DueAt,
		AllDay:     opt.AllDay,
		Recurrence: opt.Recurrence,
	}, nil
}

func (m *mockReminderRepo) GetReminder(ctx context.Context, id string) (model.Reminder, error) {
	return model.Reminder{}, errors.New("not implemented")
}

func (m *mockReminderRepo) ListReminders(ctx context.Context, opt repository.ListRemindersOptions) ([]model.Reminder, error) {
	return nil, nil
}

// testRefTime is Monday, Jan 1 2024, 08:00 UTC.
var testRefTime = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func newTestUseCase(repo *mockReminderRepo, llm *gemini.Client, cfg Config) *implUseCase {
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	resolver, _ := datemath.NewResolver(cfg.Timezone, cfg.DayFirst)
	uc := New(&mockLogger{}, llm, nil, repo, resolver, cfg)
	uc.now = func() time.Time { return testRefTime }
	return uc
}

func testScope() model.Scope {
	return model.Scope{UserID: "telegram_42", Username: "tester"}
}
