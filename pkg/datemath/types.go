package datemath

import "time"

// Confidence labels how trustworthy a resolved datetime is, derived from the
// pipeline stage that produced it.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Stage identifies which pipeline stage produced a result. Stages run in strict
// precedence order; resolution stops at the first stage producing any result.
type Stage string

const (
	StageExplicitDate   Stage = "explicit_date"
	StageRelativePhrase Stage = "relative_phrase"
	StageDirectParse    Stage = "direct_parse"
	StageSearchFallback Stage = "search_fallback"
	StageLLMFallback    Stage = "llm_fallback"
)

// Result is a resolved datetime with its confidence tag.
type Result struct {
	Time       time.Time
	Confidence Confidence
	AllDay     bool   // no explicit time-of-day token accompanied the date
	Stage      Stage  // producing stage, kept for diagnostics and precedence checks
	Matched    string // the text span that carried the date, for title stripping
}

// SameDay reports whether the result falls on the same calendar day as other,
// in the result's own location.
func (r Result) SameDay(other time.Time) bool {
	y1, m1, d1 := r.Time.Date()
	y2, m2, d2 := other.In(r.Time.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
