package datemath

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Resolver converts free-text date expressions to absolute time.Time values.
// Resolution runs a fixed pipeline of stages in strict precedence order:
// explicit calendar literals, a closed vocabulary of relative phrases, a looser
// direct parse of the whole text, and finally a token-window search for a
// date-bearing substring buried mid-sentence. The first stage that produces a
// result wins; later stages never override it.
type Resolver struct {
	location *time.Location
	dayFirst bool
}

// NewResolver creates a resolver for the given IANA timezone string,
// e.g. "Asia/Ho_Chi_Minh". dayFirst selects the locale convention for
// ambiguous numeric dates (3/4 = 3 April when true, March 4 when false);
// it is configured once, never inferred per message.
func NewResolver(timezone string, dayFirst bool) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Resolver{location: loc, dayFirst: dayFirst}, nil
}

// Location returns the resolver's timezone.
func (r *Resolver) Location() *time.Location { return r.location }

type stageFunc func(text string, ref time.Time) (Result, bool)

// Resolve parses text against the reference time. The boolean is false when
// every deterministic stage failed; callers may then consult an LLM fallback.
func (r *Resolver) Resolve(text string, ref time.Time) (Result, bool) {
	text = normalizeTypos(strings.TrimSpace(text))
	if text == "" {
		return Result{}, false
	}
	ref = ref.In(r.location)

	stages := []struct {
		name Stage
		fn   stageFunc
	}{
		{StageExplicitDate, r.explicitDate},
		{StageRelativePhrase, r.relativePhrase},
		{StageDirectParse, r.directParse},
		{StageSearchFallback, r.searchFallback},
	}
	for _, stage := range stages {
		if res, ok := stage.fn(text, ref); ok {
			res.Stage = stage.name
			return res, true
		}
	}
	return Result{}, false
}

// ── text normalization ─────────────────────────────────────────────────────

var typoFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\btomrrow\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\btmrrow\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\btommorow\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\btommorrow\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\btmrw\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\btmr\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\bthurday\b`), "thursday"},
	{regexp.MustCompile(`(?i)\bthur\b`), "thu"},
}

func normalizeTypos(text string) string {
	for _, fix := range typoFixes {
		text = fix.re.ReplaceAllString(text, fix.repl)
	}
	return text
}

// ── time-of-day detection ──────────────────────────────────────────────────

var (
	reClockAMPM = regexp.MustCompile(`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	reClock24   = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// wordTimes maps coarse time-of-day words to a default clock time.
var wordTimes = []struct {
	word string
	hour int
}{
	{"noon", 12},
	{"midnight", 0},
	{"morning", 9},
	{"afternoon", 15},
	{"evening", 19},
	{"tonight", 20},
}

func hasExplicitTime(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if reClockAMPM.MatchString(lowered) || reClock24.MatchString(lowered) {
		return true
	}
	for _, wt := range wordTimes {
		if strings.Contains(lowered, wt.word) {
			return true
		}
	}
	return false
}

func extractTimeOfDay(text string) (hour, minute int, ok bool) {
	lowered := strings.ToLower(text)
	if m := reClockAMPM.FindStringSubmatch(lowered); m != nil {
		hour, _ = strconv.Atoi(m[1])
		hour %= 12
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if m[3] == "pm" {
			hour += 12
		}
		return hour, minute, true
	}
	if m := reClock24.FindStringSubmatch(lowered); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute, true
	}
	for _, wt := range wordTimes {
		if strings.Contains(lowered, wt.word) {
			return wt.hour, 0, true
		}
	}
	return 0, 0, false
}

func (r *Resolver) at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, r.location)
}

// applyTime sets the time-of-day found in text onto day, or midnight with
// the all-day flag when no time token exists.
func (r *Resolver) applyTime(day time.Time, text string) (time.Time, bool) {
	if hour, minute, ok := extractTimeOfDay(text); ok {
		return r.at(day, hour, minute), false
	}
	return r.at(day, 0, 0), true
}

// ── stage 1: explicit calendar literals ────────────────────────────────────

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	reISODate     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`)
	reMonthDay    = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
	reDayMonth    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthAlt + `)(?:\s+(\d{4}))?\b`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func monthFromName(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthIndex[strings.ToLower(name[:3])]
	return m, ok
}

type dateCandidate struct {
	day      time.Time
	matched  string
	yearless bool
}

func (r *Resolver) explicitDate(text string, ref time.Time) (Result, bool) {
	var candidates []dateCandidate

	add := func(year int, month time.Month, day int, matched string, yearless bool) {
		if month < time.January || month > time.December || day < 1 || day > 31 {
			return
		}
		d := time.Date(year, month, day, 0, 0, 0, 0, r.location)
		if d.Month() != month || d.Day() != day {
			return // nonexistent date, e.g. Feb 30
		}
		candidates = append(candidates, dateCandidate{day: d, matched: matched, yearless: yearless})
	}

	for _, m := range reISODate.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		add(year, time.Month(month), day, m[0], false)
	}
	for _, m := range reNumericDate.FindAllStringSubmatch(text, -1) {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		day, month := a, b
		if !r.dayFirst {
			day, month = b, a
		}
		year := ref.Year()
		yearless := m[3] == ""
		if !yearless {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		add(year, time.Month(month), day, m[0], yearless)
	}
	for _, m := range reMonthDay.FindAllStringSubmatch(text, -1) {
		month, ok := monthFromName(m[1])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year := ref.Year()
		yearless := m[3] == ""
		if !yearless {
			year, _ = strconv.Atoi(m[3])
		}
		add(year, month, day, m[0], yearless)
	}
	for _, m := range reDayMonth.FindAllStringSubmatch(text, -1) {
		month, ok := monthFromName(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year := ref.Year()
		yearless := m[3] == ""
		if !yearless {
			year, _ = strconv.Atoi(m[3])
		}
		add(year, month, day, m[0], yearless)
	}

	if len(candidates) == 0 {
		return Result{}, false
	}

	// Year-less dates already behind the reference roll forward a year.
	cutoff := ref.AddDate(0, 0, -1)
	var future []dateCandidate
	for _, c := range candidates {
		if c.yearless && c.day.Before(cutoff) {
			c.day = c.day.AddDate(1, 0, 0)
		}
		if !c.day.Before(cutoff) {
			future = append(future, c)
		}
	}
	if len(future) == 0 {
		return Result{}, false
	}
	sort.Slice(future, func(i, j int) bool { return future[i].day.Before(future[j].day) })

	picked := future[0]
	t, allDay := r.applyTime(picked.day, text)
	return Result{Time: t, Confidence: ConfidenceHigh, AllDay: allDay, Matched: picked.matched}, true
}

// ── stage 2: closed relative-phrase vocabulary ─────────────────────────────

var (
	reSimpleDay  = regexp.MustCompile(`^(today|later today|tomorrow|tonight)\b`)
	reInDuration = regexp.MustCompile(`\bin (\d+) (day|days|week|weeks|month|months)\b`)
	reWeekday    = regexp.MustCompile(`\b(?:(next|this|coming|upcoming)\s+)?(mon(?:day)?|tue(?:s|sday)?|wed(?:nesday)?|thu(?:r|rs|rsday)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)\b`)
)

var weekdayIndex = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

func (r *Resolver) relativePhrase(text string, ref time.Time) (Result, bool) {
	cleaned := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if cleaned == "" {
		return Result{}, false
	}

	if m := reSimpleDay.FindStringSubmatch(cleaned); m != nil {
		day := ref
		if m[1] == "tomorrow" {
			day = ref.AddDate(0, 0, 1)
		}
		t, allDay := r.applyTime(day, text)
		return Result{Time: t, Confidence: ConfidenceHigh, AllDay: allDay, Matched: m[1]}, true
	}

	if m := reInDuration.FindStringSubmatch(cleaned); m != nil {
		amount, _ := strconv.Atoi(m[1])
		day := ref
		switch {
		case strings.HasPrefix(m[2], "day"):
			day = ref.AddDate(0, 0, amount)
		case strings.HasPrefix(m[2], "week"):
			day = ref.AddDate(0, 0, amount*7)
		case strings.HasPrefix(m[2], "month"):
			day = ref.AddDate(0, amount, 0)
		}
		t, allDay := r.applyTime(day, text)
		return Result{Time: t, Confidence: ConfidenceHigh, AllDay: allDay, Matched: m[0]}, true
	}

	if m := reWeekday.FindStringSubmatch(cleaned); m != nil {
		qualifier := m[1]
		target, ok := weekdayIndex[strings.ToLower(m[2][:3])]
		if !ok {
			return Result{}, false
		}
		daysAhead := (int(target) - int(ref.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7 // already passed today, roll forward
		}
		day := ref.AddDate(0, 0, daysAhead)
		t, allDay := r.applyTime(day, text)

		// A bare weekday with no qualifier is ambiguous (this week vs next).
		confidence := ConfidenceHigh
		if qualifier == "" && !hasExplicitTime(text) {
			confidence = ConfidenceMedium
		}
		return Result{Time: t, Confidence: confidence, AllDay: allDay, Matched: m[0]}, true
	}

	return Result{}, false
}

// ── stage 3: generalized direct parse ──────────────────────────────────────

var (
	reNextUnit   = regexp.MustCompile(`\bnext (week|month)\b`)
	reOrdinalDay = regexp.MustCompile(`\b(?:on )?(?:the )?(\d{1,2})(?:st|nd|rd|th)\b`)
)

// directParse handles looser phrasing the closed vocabulary misses: a bare
// time of day ("9am"), "next week", or a lone ordinal day ("the 24th").
func (r *Resolver) directParse(text string, ref time.Time) (Result, bool) {
	cleaned := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if cleaned == "" || len(strings.Fields(cleaned)) > 4 {
		return Result{}, false
	}

	if m := reNextUnit.FindStringSubmatch(cleaned); m != nil {
		day := ref.AddDate(0, 0, 7)
		if m[1] == "month" {
			day = ref.AddDate(0, 1, 0)
		}
		t, allDay := r.applyTime(day, text)
		return Result{Time: t, Confidence: ConfidenceMedium, AllDay: allDay, Matched: m[0]}, true
	}

	if m := reOrdinalDay.FindStringSubmatch(cleaned); m != nil {
		day, _ := strconv.Atoi(m[1])
		if day >= 1 && day <= 31 {
			d := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, r.location)
			if d.Day() == day {
				if d.Before(ref.AddDate(0, 0, -1)) {
					d = d.AddDate(0, 1, 0)
				}
				t, allDay := r.applyTime(d, text)
				return Result{Time: t, Confidence: ConfidenceMedium, AllDay: allDay, Matched: m[0]}, true
			}
		}
	}

	// A bare time of day only: anything longer carries non-time words and
	// belongs to the window search.
	if len(strings.Fields(cleaned)) <= 2 && hasExplicitTime(cleaned) {
		hour, minute, _ := extractTimeOfDay(cleaned)
		t := r.at(ref, hour, minute)
		if t.Before(ref) {
			t = t.AddDate(0, 0, 1) // that time already passed today
		}
		return Result{Time: t, Confidence: ConfidenceMedium, AllDay: false, Matched: cleaned}, true
	}

	return Result{}, false
}

// ── stage 4: token-window search ───────────────────────────────────────────

var reAllDigits = regexp.MustCompile(`^\d+$`)

// searchFallback scans all token windows of the text for any date-bearing
// substring. Real messages often bury a date mid-sentence where whole-string
// heuristics fail; this stage trades precision (confidence low) for recall.
func (r *Resolver) searchFallback(text string, ref time.Time) (Result, bool) {
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return Result{}, false
	}

	var best Result
	bestScore := -1
	maxWindow := 4
	if len(tokens) < maxWindow {
		maxWindow = len(tokens)
	}
	for size := maxWindow; size >= 1; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			span := strings.Join(tokens[start:start+size], " ")
			if reAllDigits.MatchString(span) {
				continue
			}
			res, ok := r.trySpan(span, ref)
			if !ok {
				continue
			}
			if score := scoreSpan(span); score > bestScore {
				bestScore = score
				res.Matched = span
				best = res
			}
		}
	}
	if bestScore < 0 {
		return Result{}, false
	}
	best.Confidence = ConfidenceLow
	return best, true
}

func (r *Resolver) trySpan(span string, ref time.Time) (Result, bool) {
	if res, ok := r.explicitDate(span, ref); ok {
		return res, true
	}
	if res, ok := r.relativePhrase(span, ref); ok {
		return res, true
	}
	return r.directParse(span, ref)
}

var relativeTokens = []string{"today", "tomorrow", "next", "this", "mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func scoreSpan(span string) int {
	lowered := strings.ToLower(span)
	score := 0
	if hasExplicitTime(lowered) {
		score += 3
	}
	for _, token := range relativeTokens {
		if strings.Contains(lowered, token) {
			score += 3
			break
		}
	}
	if reNumericDate.MatchString(lowered) {
		score += 2
	}
	return score
}

// ── day helpers ────────────────────────────────────────────────────────────

// StartOfDay returns midnight at the start of t's day in the resolver's timezone.
func (r *Resolver) StartOfDay(t time.Time) time.Time {
	t = t.In(r.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.location)
}

// EndOfDay returns 23:59:59 of t's day in the resolver's timezone.
func (r *Resolver) EndOfDay(t time.Time) time.Time {
	return r.StartOfDay(t).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
