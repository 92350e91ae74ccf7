package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
	pkgLog "reminder-draft/pkg/log"
	pkgResponse "reminder-draft/pkg/response"
	pkgTelegram "reminder-draft/pkg/telegram"
)

type handler struct {
	l        pkgLog.Logger
	uc       draft.UseCase
	bot      *pkgTelegram.Bot
	security *securityValidator
}

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine: Telegram expects a response within a few seconds,
// but the draft pipeline (LLM + store + calendar) can take longer.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateSecretToken(c.Request); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil || update.Message.From == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	if err := h.security.CheckRateLimit(msg.Chat.ID); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		pkgResponse.OK(c, map[string]string{"status": "throttled"})
		return
	}

	// Process in goroutine, return 200 immediately to Telegram
	go func() {
		// Detach from the HTTP request context, which is cancelled after response
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(msg.Chat.ID, "Có lỗi xảy ra khi xử lý yêu cầu của bạn. Vui lòng thử lại.")
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message: built-in commands
// first, then the active draft session, then fresh extraction.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		return nil
	}

	switch text {
	case "/start":
		return h.bot.SendMessageWithMode(msg.Chat.ID,
			"👋 Chào mừng!\n\nGửi cho tôi việc cần nhớ và tôi sẽ soạn bản nháp nhắc việc để bạn duyệt trước khi lưu.\n\n_Ví dụ: \"Pay rent p:high at:tomorrow 9am\"_",
			"Markdown",
		)
	case "/help":
		return h.bot.SendMessageWithMode(msg.Chat.ID,
			"*Cách sử dụng:*\n\nGửi nội dung việc cần nhớ, bot sẽ đề xuất bản nháp. Sau đó:\n`confirm` — lưu tất cả\n`confirm 1,3` — lưu một phần\n`edit n <nội dung>` — sửa mục n\n`remove n` — xoá mục n\n`cancel` — huỷ bản nháp\n\nCú pháp nhanh: `p:high`, `at:tomorrow 9am`, `every:weekly`, `#topic`, `notes:...`",
			"Markdown",
		)
	case "/cancel":
		text = "cancel"
	}

	sc := model.Scope{
		UserID:   fmt.Sprintf("telegram_%d", msg.From.ID),
		Username: msg.From.Username,
	}
	sourceRef := fmt.Sprintf("telegram:%d:%d", msg.Chat.ID, msg.MessageID)

	// An active session gets the text as a command turn first; only when
	// no session exists does the text start a new extraction.
	outcome, err := h.uc.ApplyCommand(ctx, sc, draft.ApplyCommandInput{
		ChatID: msg.Chat.ID,
		Text:   text,
	})
	switch {
	case err == nil:
		return h.bot.SendMessageWithMode(msg.Chat.ID, outcome.Summary, "Markdown")

	case errors.Is(err, draft.ErrNoActiveSession):
		return h.startDraft(ctx, sc, msg, text, sourceRef)

	case errors.Is(err, draft.ErrSessionExpired):
		return h.bot.SendMessage(msg.Chat.ID, "⌛️ Bản nháp trước đã hết hạn. Gửi lại nội dung để bắt đầu bản nháp mới.")

	default:
		return h.replyError(msg.Chat.ID, outcome, err)
	}
}

func (h *handler) startDraft(ctx context.Context, sc model.Scope, msg *pkgTelegram.Message, text, sourceRef string) error {
	if text == "cancel" {
		return h.bot.SendMessage(msg.Chat.ID, "Không có bản nháp nào đang mở.")
	}

	out, err := h.uc.StartDraft(ctx, sc, draft.StartDraftInput{
		Content:    text,
		Kind:       draft.ContentText,
		SourceRefs: []string{sourceRef},
		ChatID:     msg.Chat.ID,
	})
	if err != nil {
		if errors.Is(err, draft.ErrExtractionEmpty) {
			return h.bot.SendMessage(msg.Chat.ID, "⚠️ Không tìm thấy việc nào trong tin nhắn của bạn. Vui lòng mô tả rõ hơn.")
		}
		if errors.Is(err, draft.ErrAmbiguousDate) {
			return h.bot.SendMessage(msg.Chat.ID, "❓ Ngày giờ chưa rõ ràng, vui lòng ghi cụ thể hơn (ví dụ: `at:tomorrow 9am`).")
		}
		h.l.Errorf(ctx, "telegram handler: StartDraft failed: %v", err)
		return h.bot.SendMessage(msg.Chat.ID, fmt.Sprintf("Không thể xử lý yêu cầu: %v", err))
	}

	return h.bot.SendMessageWithMode(msg.Chat.ID, out.Summary, "Markdown")
}

// replyError surfaces command errors. Partial commits still carry an
// outcome summary that must reach the user; nothing confirmed is ever
// silently dropped.
func (h *handler) replyError(chatID int64, outcome draft.CommandOutcome, err error) error {
	var partial *draft.PartialCommitError
	switch {
	case errors.As(err, &partial):
		return h.bot.SendMessageWithMode(chatID, outcome.Summary, "Markdown")

	case errors.Is(err, draft.ErrInvalidIndex):
		return h.bot.SendMessage(chatID, "⚠️ Số thứ tự không hợp lệ. Gửi `show` để xem danh sách hiện tại.")

	case errors.Is(err, draft.ErrInvalidRecurrence):
		return h.bot.SendMessage(chatID, "⚠️ Nhắc việc lặp lại cần có ngày hẹn. Thêm ngày bằng `edit n at:<ngày>` rồi `confirm` lại.")

	case errors.Is(err, draft.ErrAmbiguousDate):
		return h.bot.SendMessage(chatID, "❓ Ngày giờ chưa rõ ràng, vui lòng ghi cụ thể hơn.")

	default:
		return h.bot.SendMessage(chatID, fmt.Sprintf("Không thể xử lý yêu cầu: %v", err))
	}
}
