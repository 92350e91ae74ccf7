package usecase

import (
	"fmt"
	"strings"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
)

// priorityIcon maps priority levels to their display icon.
var priorityIcon = map[model.Priority]string{
	model.PriorityImmediate: "‼️",
	model.PriorityHigh:      "🔴",
	model.PriorityMid:       "🟡",
	model.PriorityLow:       "🟢",
}

// renderSession builds the Markdown proposal listing plus the action
// menu shown after every draft mutation.
func renderSession(s *draft.Session) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Bản nháp nhắc việc* (%d mục):\n\n", len(s.Proposals)))

	for _, p := range s.Proposals {
		sb.WriteString(fmt.Sprintf("%d. %s *%s*\n", p.Index, priorityIcon[p.Priority], p.Title))
		sb.WriteString(fmt.Sprintf("   ⏰ %s", formatDue(p)))
		if p.Recurrence != draft.RecurrenceNone && p.Recurrence != "" {
			sb.WriteString(fmt.Sprintf(" · 🔁 %s", p.Recurrence))
		}
		sb.WriteString("\n")
		if len(p.Topics) > 0 {
			sb.WriteString("   🏷 #" + strings.Join(p.Topics, " #") + "\n")
		}
		if p.Notes != "" {
			sb.WriteString("   📝 " + p.Notes + "\n")
		}
	}

	sb.WriteString("\nGửi `confirm` để lưu tất cả, `confirm 1,3` để lưu một phần, `edit n <nội dung>` để sửa, `remove n` để xoá, `cancel` để huỷ.")
	return sb.String()
}

// renderCommitOutcome reports what was stored, what failed, and what is
// still pending after a confirm.
func renderCommitOutcome(s *draft.Session, committed []model.Reminder, failedCount int) string {
	var sb strings.Builder

	if len(committed) > 0 {
		sb.WriteString(fmt.Sprintf("✅ Đã lưu *%d nhắc việc*:\n\n", len(committed)))
		for i, r := range committed {
			sb.WriteString(fmt.Sprintf("%d. *%s*", i+1, r.Title))
			if r.CalendarLink != "" {
				sb.WriteString(fmt.Sprintf("\n   📅 [Xem Calendar](%s)", r.CalendarLink))
			}
			sb.WriteString("\n")
		}
	}

	if failedCount > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ *%d mục* chưa lưu được và vẫn còn trong bản nháp. Sửa lại bằng `edit n <nội dung>` rồi `confirm`.\n", failedCount))
	}

	if s.Status == draft.StatusPending && len(s.Proposals) > 0 {
		sb.WriteString("\n" + renderSession(s))
	}
	return sb.String()
}

// formatDue renders a proposal due date for display.
func formatDue(p draft.Proposal) string {
	if p.Due == nil {
		return "không có hạn"
	}
	if p.Due.AllDay {
		return p.Due.Time.Format("02/01/2006") + " (cả ngày)"
	}
	return p.Due.Time.Format("02/01/2006 15:04")
}
