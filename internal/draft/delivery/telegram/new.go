package telegram

import (
	"github.com/gin-gonic/gin"

	"reminder-draft/internal/draft"
	pkgLog "reminder-draft/pkg/log"
	pkgTelegram "reminder-draft/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// SecurityConfig holds webhook authentication and throttling settings.
type SecurityConfig struct {
	WebhookSecret   string // Telegram secret_token echoed in the update header
	RateLimitPerMin int
}

// New creates a new Telegram delivery handler.
func New(
	l pkgLog.Logger,
	uc draft.UseCase,
	bot *pkgTelegram.Bot,
	security SecurityConfig,
) Handler {
	return &handler{
		l:        l,
		uc:       uc,
		bot:      bot,
		security: newSecurityValidator(security),
	}
}
