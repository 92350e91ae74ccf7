package usecase

import (
	"context"
	"strings"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
)

// refineProposal applies a free-text edit instruction to one proposal.
// Field-scoped tokens (priority, recurrence, topics, link, notes, date
// phrases) each update their field; unrecognized fragments are ignored
// so a partially understood instruction still applies. Only when
// nothing at all is recognized does the text replace the title.
func (uc *implUseCase) refineProposal(ctx context.Context, p draft.Proposal, instruction string, ref time.Time) (draft.Proposal, error) {
	changed := false

	// Bare leading priority/recurrence words: "high tomorrow 9am"
	fields := strings.Fields(instruction)
	for len(fields) > 0 {
		low := strings.ToLower(fields[0])
		if prio, ok := parsePriorityWord(low); ok {
			p.Priority = prio
			changed = true
			fields = fields[1:]
			continue
		}
		if low == "urgent" || low == "asap" {
			p.Priority = model.PriorityHigh
			changed = true
			fields = fields[1:]
			continue
		}
		if rec, ok := parseRecurrenceWord(low); ok {
			p.Recurrence = rec
			changed = true
			fields = fields[1:]
			continue
		}
		break
	}
	rest := strings.Join(fields, " ")

	pl := parsePayload(rest)
	if pl.HasTitle {
		p.Title = pl.TitleOverride
		changed = true
	}
	if pl.HasPriority {
		p.Priority = pl.Priority
		changed = true
	}
	if pl.HasRecurrence {
		p.Recurrence = pl.Recurrence
		changed = true
	}
	if len(pl.Topics) > 0 {
		p.Topics = mergeTopics(p.Topics, pl.Topics)
		changed = true
	}
	if pl.Link != "" {
		p.Link = pl.Link
		changed = true
	}
	if pl.Notes != "" {
		p.Notes = pl.Notes
		changed = true
	}

	switch {
	case pl.NoDue:
		p.Due = nil
		changed = true
	case pl.RawDate != "":
		due, err := uc.resolveDue(ctx, pl.RawDate, ref)
		if err != nil {
			return p, err
		}
		if due != nil {
			p.Due = due
			changed = true
		}
	}

	leftover := pl.Title
	if leftover != "" && !pl.NoDue && pl.RawDate == "" {
		due, err := uc.resolveDue(ctx, leftover, ref)
		if err != nil {
			return p, err
		}
		if due != nil {
			p.Due = due
			changed = true
			if due.Matched != "" {
				leftover = cleanTitle(stripOnce(leftover, due.Matched))
			}
		}
	}

	if leftover != "" && !changed {
		p.Title = leftover
	}
	return p, nil
}

// mergeTopics appends new topics, keeping existing order and dropping
// duplicates case-insensitively.
func mergeTopics(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(t)] = true
	}
	for _, t := range added {
		if !seen[strings.ToLower(t)] {
			seen[strings.ToLower(t)] = true
			existing = append(existing, t)
		}
	}
	return existing
}
