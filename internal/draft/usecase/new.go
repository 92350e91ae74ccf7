package usecase

import (
	"time"

	"reminder-draft/internal/draft/repository"
	"reminder-draft/pkg/datemath"
	"reminder-draft/pkg/gcalendar"
	"reminder-draft/pkg/gemini"
	pkgLog "reminder-draft/pkg/log"
)

// IngestPolicy decides what happens when new content arrives while a
// session is already pending.
type IngestPolicy string

const (
	IngestMerge   IngestPolicy = "merge"   // Append new proposals to the pending session
	IngestReplace IngestPolicy = "replace" // Discard the pending session, start fresh
	IngestReject  IngestPolicy = "reject"  // Refuse until the pending session is resolved
)

// Config holds the tunables of the draft usecase.
type Config struct {
	Timezone       string
	DayFirst       bool          // Numeric date convention: 02/03 = 2 March when true
	SessionTimeout time.Duration // Inactivity window before a session expires
	MaxLLMItems    int           // Cap on LLM-segmented items per extraction
	IngestPolicy   IngestPolicy
	LLMFallback    bool // Enable the LLM date/extraction fallback
	ParseDebug     bool // Log per-stage resolver diagnostics
}

type implUseCase struct {
	l        pkgLog.Logger
	llm      *gemini.Client
	calendar *gcalendar.Client
	repo     repository.ReminderRepository
	resolver *datemath.Resolver
	sessions *sessionStore
	cfg      Config
	now      func() time.Time
}

// New creates a new draft UseCase instance. calendar and llm may be nil,
// which disables calendar events and the LLM fallback respectively.
func New(
	l pkgLog.Logger,
	llm *gemini.Client,
	calendar *gcalendar.Client,
	repo repository.ReminderRepository,
	resolver *datemath.Resolver,
	cfg Config,
) *implUseCase {
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 10 * time.Minute
	}
	if cfg.MaxLLMItems <= 0 {
		cfg.MaxLLMItems = 8
	}
	if cfg.IngestPolicy == "" {
		cfg.IngestPolicy = IngestMerge
	}
	return &implUseCase{
		l:        l,
		llm:      llm,
		calendar: calendar,
		repo:     repo,
		resolver: resolver,
		sessions: newSessionStore(cfg.SessionTimeout),
		cfg:      cfg,
		now:      time.Now,
	}
}
