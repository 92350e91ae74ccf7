package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
)

// StartDraft extracts proposals from raw content and opens a draft
// session for the caller, or folds the new proposals into an already
// pending one according to the configured ingest policy.
func (uc *implUseCase) StartDraft(ctx context.Context, sc model.Scope, input draft.StartDraftInput) (draft.StartDraftOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return draft.StartDraftOutput{}, draft.ErrExtractionEmpty
	}

	key := sessionKey(input.ChatID, sc.UserID)
	mu := uc.sessions.lock(key)
	defer mu.Unlock()

	now := uc.now()

	uc.l.Infof(ctx, "StartDraft: user=%s chat=%d kind=%s content_length=%d",
		sc.UserID, input.ChatID, input.Kind, len(input.Content))

	proposals, err := uc.extractProposals(ctx, input.Content, input.Kind, input.SourceRefs, now)
	if err != nil {
		return draft.StartDraftOutput{}, err
	}

	existing, ok := uc.sessions.get(key)
	if ok && now.After(existing.ExpiresAt) {
		existing.Status = draft.StatusExpired
		uc.sessions.remove(key)
		ok = false
	}

	if ok && !existing.Status.Terminal() {
		switch uc.cfg.IngestPolicy {
		case IngestReject:
			return draft.StartDraftOutput{
				Session: existing,
				Summary: "⚠️ Bạn đang có một bản nháp chưa xử lý. Gửi `confirm` hoặc `cancel` trước khi thêm nội dung mới.\n\n" + renderSession(existing),
			}, nil

		case IngestReplace:
			existing.Status = draft.StatusCancelled
			uc.sessions.remove(key)

		default: // IngestMerge
			base := len(existing.Proposals)
			for i := range proposals {
				proposals[i].Index = base + i + 1
			}
			existing.Proposals = append(existing.Proposals, proposals...)
			existing.ExpiresAt = now.Add(uc.cfg.SessionTimeout)
			existing.RefinementTarget = 0
			uc.sessions.put(key, existing)

			uc.l.Infof(ctx, "StartDraft: merged %d proposals into session %s (total %d)",
				len(proposals), existing.ID, len(existing.Proposals))
			return draft.StartDraftOutput{Session: existing, Summary: renderSession(existing)}, nil
		}
	}

	session := &draft.Session{
		ID:          uuid.NewString(),
		ChatID:      input.ChatID,
		OwnerUserID: sc.UserID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.cfg.SessionTimeout),
		Proposals:   proposals,
		Status:      draft.StatusPending,
	}
	uc.sessions.put(key, session)

	uc.l.Infof(ctx, "StartDraft: opened session %s with %d proposals", session.ID, len(proposals))
	return draft.StartDraftOutput{Session: session, Summary: renderSession(session)}, nil
}
