package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
	"reminder-draft/pkg/gemini"
)

// Single-segment content longer than this is handed to the LLM for
// segmentation; deterministic splitting has given up at that point.
const longContentThreshold = 280

var reBulletPrefix = regexp.MustCompile(`^\s*(?:[-*•‣]|\d+[.)])\s+`)

// extractProposals turns raw content into candidate proposals. Bulleted
// or multi-line content is segmented deterministically; long prose and
// transcript/summary blocks fall back to LLM segmentation with a cap.
func (uc *implUseCase) extractProposals(ctx context.Context, content string, kind draft.ContentKind, sourceRefs []string, ref time.Time) ([]draft.Proposal, error) {
	segments := segmentContent(content)
	if len(segments) == 0 {
		return nil, draft.ErrExtractionEmpty
	}

	if len(segments) == 1 && uc.needsLLMSegmentation(segments[0], kind) {
		items, err := uc.extractItemsLLM(ctx, content, ref)
		if err != nil {
			uc.l.Warnf(ctx, "extract: LLM segmentation failed, using whole text (non-fatal): %v", err)
		} else if len(items) > 0 {
			return uc.proposalsFromItems(ctx, items, sourceRefs, ref)
		}
	}

	proposals := make([]draft.Proposal, 0, len(segments))
	for _, seg := range segments {
		p, err := uc.buildProposal(ctx, seg, sourceRefs, ref)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		p.Index = len(proposals) + 1
		proposals = append(proposals, *p)
	}

	if len(proposals) == 0 {
		return nil, draft.ErrExtractionEmpty
	}
	return proposals, nil
}

// segmentContent splits content into discrete action-item candidates:
// one per non-empty line, bullets stripped; a single line splits
// further on semicolons.
func segmentContent(content string) []string {
	var segments []string
	for _, line := range strings.Split(content, "\n") {
		line = reBulletPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			segments = append(segments, line)
		}
	}

	if len(segments) == 1 && strings.Contains(segments[0], ";") {
		parts := strings.Split(segments[0], ";")
		segments = segments[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				segments = append(segments, p)
			}
		}
	}
	return segments
}

func (uc *implUseCase) needsLLMSegmentation(segment string, kind draft.ContentKind) bool {
	if !uc.cfg.LLMFallback || uc.llm == nil {
		return false
	}
	if kind == draft.ContentTranscript || kind == draft.ContentSummary {
		return true
	}
	return len(segment) > longContentThreshold
}

// buildProposal parses one segment's inline grammar and resolves its
// due date. The resolver runs on the original token span, not the
// cleaned title, so time hints stripped during cleaning are not lost.
// Returns nil for segments with no usable title.
func (uc *implUseCase) buildProposal(ctx context.Context, segment string, sourceRefs []string, ref time.Time) (*draft.Proposal, error) {
	pl := parsePayload(segment)

	p := draft.Proposal{
		Title:      pl.Title,
		Notes:      pl.Notes,
		Link:       pl.Link,
		Priority:   model.PriorityMid,
		Recurrence: draft.RecurrenceNone,
		Topics:     pl.Topics,
		SourceRefs: sourceRefs,
	}
	if pl.HasTitle {
		p.Title = pl.TitleOverride
	}
	if pl.HasPriority {
		p.Priority = pl.Priority
	}
	if pl.HasRecurrence {
		p.Recurrence = pl.Recurrence
	}

	switch {
	case pl.NoDue:
		// Explicitly undated, leave Due nil
	case pl.RawDate != "":
		due, err := uc.resolveDue(ctx, pl.RawDate, ref)
		if err != nil {
			return nil, err
		}
		p.Due = due
	default:
		due, err := uc.resolveDue(ctx, segment, ref)
		if err != nil {
			return nil, err
		}
		p.Due = due
		if due != nil && due.Matched != "" {
			p.Title = cleanTitle(stripOnce(p.Title, due.Matched))
		}
	}

	if p.Title == "" {
		return nil, nil
	}
	return &p, nil
}

// extractItemsLLM delegates segmentation of inconclusive content to the
// LLM collaborator, capped at MaxLLMItems to bound fan-out.
func (uc *implUseCase) extractItemsLLM(ctx context.Context, content string, ref time.Time) ([]gemini.ExtractedItem, error) {
	prompt := gemini.BuildItemExtractionPrompt(content, ref.Format(time.RFC3339), uc.cfg.MaxLLMItems)

	raw, err := uc.llm.GenerateText(ctx, prompt, 2048)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	cleaned := sanitizeJSONResponse(raw)

	var items []gemini.ExtractedItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		uc.l.Errorf(ctx, "extract: failed to parse LLM response. Raw=%q Cleaned=%q", raw, cleaned)
		return nil, fmt.Errorf("failed to parse LLM JSON response: %w", err)
	}

	if len(items) > uc.cfg.MaxLLMItems {
		items = items[:uc.cfg.MaxLLMItems]
	}
	return items, nil
}

// proposalsFromItems converts LLM-extracted items into proposals. Dates
// still go through the deterministic resolver first; the model only
// localizes the date-bearing text.
func (uc *implUseCase) proposalsFromItems(ctx context.Context, items []gemini.ExtractedItem, sourceRefs []string, ref time.Time) ([]draft.Proposal, error) {
	proposals := make([]draft.Proposal, 0, len(items))
	for _, it := range items {
		title := cleanTitle(it.Title)
		if title == "" {
			continue
		}

		p := draft.Proposal{
			Title:      title,
			Notes:      it.Notes,
			Priority:   model.PriorityMid,
			Recurrence: draft.RecurrenceNone,
			Topics:     it.Topics,
			SourceRefs: sourceRefs,
		}
		if prio, ok := parsePriorityWord(it.PriorityHint); ok {
			p.Priority = prio
		}
		if rec, ok := parseRecurrenceWord(it.Recurrence); ok {
			p.Recurrence = rec
		}
		if it.RawDateText != "" {
			due, err := uc.resolveDue(ctx, it.RawDateText, ref)
			if err != nil {
				return nil, err
			}
			p.Due = due
		}

		p.Index = len(proposals) + 1
		proposals = append(proposals, p)
	}

	if len(proposals) == 0 {
		return nil, draft.ErrExtractionEmpty
	}
	return proposals, nil
}

// stripOnce removes the first case-insensitive occurrence of sub from s.
func stripOnce(s, sub string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(sub))
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(sub):]
}

// sanitizeJSONResponse removes markdown code fences and leading/trailing
// prose that LLMs often add around JSON output.
func sanitizeJSONResponse(text string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	if matches := re.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return text
	}
	end := strings.LastIndexAny(text, "]}")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}
