package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
)

// ApplyCommand applies one user turn to the caller's active session:
// confirm/edit/remove/cancel, their aliases, the numeric quick menu, or
// free text routed to the pending refinement target.
func (uc *implUseCase) ApplyCommand(ctx context.Context, sc model.Scope, input draft.ApplyCommandInput) (draft.CommandOutcome, error) {
	key := sessionKey(input.ChatID, sc.UserID)
	mu := uc.sessions.lock(key)
	defer mu.Unlock()

	sess, ok := uc.sessions.get(key)
	if !ok || sess.Status.Terminal() {
		return draft.CommandOutcome{}, draft.ErrNoActiveSession
	}

	now := uc.now()
	if now.After(sess.ExpiresAt) {
		sess.Status = draft.StatusExpired
		uc.sessions.remove(key)
		uc.l.Infof(ctx, "ApplyCommand: session %s expired", sess.ID)
		return draft.CommandOutcome{Session: sess}, draft.ErrSessionExpired
	}

	text := strings.TrimSpace(input.Text)
	verb, rest := splitVerb(text)

	switch canonicalVerb(verb, rest) {
	case "confirm":
		indices, err := parseIndices(rest, len(sess.Proposals))
		if err != nil {
			return draft.CommandOutcome{Session: sess}, err
		}
		return uc.commitProposals(ctx, sc, key, sess, indices)

	case "edit":
		return uc.handleEdit(ctx, key, sess, rest, now)

	case "remove":
		return uc.handleRemove(ctx, key, sess, rest, now)

	case "cancel":
		sess.Status = draft.StatusCancelled
		uc.sessions.remove(key)
		uc.l.Infof(ctx, "ApplyCommand: session %s cancelled", sess.ID)
		return draft.CommandOutcome{Session: sess, Summary: "🗑 Đã huỷ bản nháp."}, nil

	case "show":
		return draft.CommandOutcome{Session: sess, Summary: renderSession(sess)}, nil
	}

	// No command verb: free text is a refinement against the proposal the
	// last bot turn asked about, if any.
	if sess.RefinementTarget > 0 && sess.RefinementTarget <= len(sess.Proposals) {
		return uc.applyRefinement(ctx, key, sess, sess.RefinementTarget, text, now)
	}

	return draft.CommandOutcome{
		Session: sess,
		Summary: "❓ Tôi chưa rõ bạn muốn sửa mục nào. Dùng `edit n <nội dung>` (ví dụ: `edit 1 high tomorrow 9am`).",
	}, nil
}

func (uc *implUseCase) handleEdit(ctx context.Context, key string, sess *draft.Session, rest string, now time.Time) (draft.CommandOutcome, error) {
	idxStr, instruction := splitVerb(rest)
	n, err := strconv.Atoi(idxStr)
	if err != nil || n < 1 || n > len(sess.Proposals) {
		return draft.CommandOutcome{Session: sess}, draft.ErrInvalidIndex
	}
	if strings.TrimSpace(instruction) == "" {
		sess.RefinementTarget = n
		sess.ExpiresAt = now.Add(uc.cfg.SessionTimeout)
		uc.sessions.put(key, sess)
		return draft.CommandOutcome{
			Session: sess,
			Summary: "✏️ Bạn muốn sửa mục " + idxStr + " thế nào? (ví dụ: `high tomorrow 9am`, `every:weekly`, hoặc tiêu đề mới)",
		}, nil
	}
	return uc.applyRefinement(ctx, key, sess, n, instruction, now)
}

func (uc *implUseCase) handleRemove(ctx context.Context, key string, sess *draft.Session, rest string, now time.Time) (draft.CommandOutcome, error) {
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n < 1 || n > len(sess.Proposals) {
		return draft.CommandOutcome{Session: sess}, draft.ErrInvalidIndex
	}

	sess.Proposals = append(sess.Proposals[:n-1], sess.Proposals[n:]...)
	renumber(sess.Proposals)
	sess.RefinementTarget = 0

	if len(sess.Proposals) == 0 {
		sess.Status = draft.StatusCancelled
		uc.sessions.remove(key)
		uc.l.Infof(ctx, "ApplyCommand: session %s cancelled after last removal", sess.ID)
		return draft.CommandOutcome{Session: sess, Summary: "🗑 Đã xoá mục cuối cùng, bản nháp được huỷ."}, nil
	}

	sess.ExpiresAt = now.Add(uc.cfg.SessionTimeout)
	uc.sessions.put(key, sess)
	return draft.CommandOutcome{Session: sess, Summary: renderSession(sess)}, nil
}

func (uc *implUseCase) applyRefinement(ctx context.Context, key string, sess *draft.Session, n int, instruction string, now time.Time) (draft.CommandOutcome, error) {
	updated, err := uc.refineProposal(ctx, sess.Proposals[n-1], instruction, now)
	if err != nil {
		return draft.CommandOutcome{Session: sess}, err
	}

	sess.Proposals[n-1] = updated
	sess.RefinementTarget = n
	sess.ExpiresAt = now.Add(uc.cfg.SessionTimeout)
	uc.sessions.put(key, sess)

	uc.l.Infof(ctx, "ApplyCommand: refined proposal %d in session %s", n, sess.ID)
	return draft.CommandOutcome{Session: sess, Summary: renderSession(sess)}, nil
}

// splitVerb splits text into its first field and the remainder.
func splitVerb(text string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) == 0 {
		return "", ""
	}
	verb := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return verb, ""
	}
	return verb, strings.TrimSpace(parts[1])
}

// canonicalVerb maps a verb and its aliases to a canonical command
// name, including the bare numeric quick menu (1 confirm, 2 show,
// 3 cancel). Returns "" for anything that is not a command.
func canonicalVerb(verb, rest string) string {
	if rest == "" {
		switch verb {
		case "1":
			return "confirm"
		case "2":
			return "show"
		case "3":
			return "cancel"
		}
	}
	switch verb {
	case "confirm", "c", "yes", "ok", "save":
		return "confirm"
	case "edit", "e":
		return "edit"
	case "remove", "rm", "r", "delete", "del":
		return "remove"
	case "cancel", "x", "stop", "discard":
		return "cancel"
	case "show", "s", "list", "status":
		return "show"
	}
	return ""
}

// parseIndices parses "1,3" or "1 3" into validated 1-based indices.
// Empty input selects every proposal.
func parseIndices(rest string, count int) ([]int, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var indices []int
	for _, tok := range strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > count {
			return nil, draft.ErrInvalidIndex
		}
		if !seen[n] {
			seen[n] = true
			indices = append(indices, n)
		}
	}
	if len(indices) == 0 {
		return nil, draft.ErrInvalidIndex
	}
	return indices, nil
}

func renumber(proposals []draft.Proposal) {
	for i := range proposals {
		proposals[i].Index = i + 1
	}
}
