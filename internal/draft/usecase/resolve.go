package usecase

import (
	"context"
	"encoding/json"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/pkg/datemath"
	"reminder-draft/pkg/gemini"
)

// resolveDue resolves free text to a due date. Deterministic stages run
// first; the LLM is consulted only when they produce nothing or only a
// low-confidence hit. An LLM answer that lands on the same day as the
// deterministic result is treated as corroboration: the deterministic
// result is kept with its own confidence. A disagreement beyond a day
// against a low-confidence deterministic hit is surfaced as ambiguous
// rather than guessed.
func (uc *implUseCase) resolveDue(ctx context.Context, text string, ref time.Time) (*datemath.Result, error) {
	if text == "" {
		return nil, nil
	}

	res, ok := uc.resolver.Resolve(text, ref)
	if uc.cfg.ParseDebug && ok {
		uc.l.Debugf(ctx, "resolveDue: %q -> %s stage=%s confidence=%s matched=%q",
			text, res.Time.Format(time.RFC3339), res.Stage, res.Confidence, res.Matched)
	}

	if ok && res.Confidence != datemath.ConfidenceLow {
		return &res, nil
	}

	if !uc.cfg.LLMFallback || uc.llm == nil {
		if ok {
			return &res, nil
		}
		return nil, nil
	}

	llmRes := uc.resolveDateLLM(ctx, text, ref)
	if llmRes == nil {
		if ok {
			return &res, nil
		}
		return nil, nil
	}

	if ok {
		if res.SameDay(llmRes.Time) {
			return &res, nil
		}
		if d := llmRes.Time.Sub(res.Time); d > 24*time.Hour || d < -24*time.Hour {
			uc.l.Warnf(ctx, "resolveDue: deterministic %s and LLM %s disagree for %q",
				res.Time.Format(time.RFC3339), llmRes.Time.Format(time.RFC3339), text)
			return nil, draft.ErrAmbiguousDate
		}
		return &res, nil
	}

	return llmRes, nil
}

// resolveDateLLM asks the LLM collaborator for a date. The answer is
// accepted only when it is a syntactically valid RFC3339 instant;
// anything else is discarded. Confidence is always forced to low.
func (uc *implUseCase) resolveDateLLM(ctx context.Context, text string, ref time.Time) *datemath.Result {
	prompt := gemini.BuildDateFallbackPrompt(text, ref.Format(time.RFC3339), uc.cfg.Timezone)

	raw, err := uc.llm.GenerateText(ctx, prompt, 256)
	if err != nil {
		uc.l.Warnf(ctx, "resolveDateLLM: request failed (non-fatal): %v", err)
		return nil
	}

	var resolved gemini.ResolvedDate
	if err := json.Unmarshal([]byte(sanitizeJSONResponse(raw)), &resolved); err != nil {
		uc.l.Warnf(ctx, "resolveDateLLM: unparseable response %q: %v", raw, err)
		return nil
	}
	if resolved.DueAt == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, resolved.DueAt)
	if err != nil {
		uc.l.Warnf(ctx, "resolveDateLLM: invalid date %q from LLM: %v", resolved.DueAt, err)
		return nil
	}

	return &datemath.Result{
		Time:       t,
		Confidence: datemath.ConfidenceLow,
		AllDay:     resolved.AllDay,
		Stage:      datemath.StageLLMFallback,
		Matched:    text,
	}
}
