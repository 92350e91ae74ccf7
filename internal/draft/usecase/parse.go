package usecase

import (
	"regexp"
	"strings"

	"reminder-draft/internal/draft"
	"reminder-draft/internal/model"
)

// payload is the result of parsing the inline token grammar of one
// content segment: "Pay rent p:high at:tomorrow 9am #home".
type payload struct {
	Title         string
	TitleOverride string // Text following title:, replaces the title outright
	HasTitle      bool
	RawDate       string // Text following at:, fed to the resolver
	NoDue         bool   // at: value named the no-due vocabulary
	Priority      model.Priority
	HasPriority   bool
	Recurrence    draft.Recurrence
	HasRecurrence bool
	Topics        []string
	Link          string
	Notes         string
}

var reRemindPrefix = regexp.MustCompile(`(?i)^\s*remind me( to)?\s+`)

// noDueVocab are at: values that explicitly mean "no due date".
var noDueVocab = map[string]bool{
	"none":        true,
	"no due":      true,
	"no due date": true,
	"no deadline": true,
	"someday":     true,
	"backlog":     true,
	"na":          true,
	"n/a":         true,
}

// parsePayload walks the segment token by token. at: and title: consume
// following tokens until the next recognized key, notes: consumes the
// rest of the segment. Everything unclaimed becomes the title.
func parsePayload(text string) payload {
	text = reRemindPrefix.ReplaceAllString(text, "")

	var p payload
	var title []string
	var titleSpan []string
	var due []string
	inDue := false
	inTitle := false

	fields := strings.Fields(text)
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		low := strings.ToLower(tok)

		if isKeyToken(low) {
			inDue = false
			inTitle = false
		} else if inDue {
			due = append(due, tok)
			continue
		} else if inTitle {
			titleSpan = append(titleSpan, tok)
			continue
		}

		switch {
		case strings.HasPrefix(low, "notes:"):
			rest := append([]string{tok[len("notes:"):]}, fields[i+1:]...)
			p.Notes = strings.TrimSpace(strings.Join(rest, " "))
			i = len(fields)

		case strings.HasPrefix(low, "link:"):
			p.Link = tok[len("link:"):]

		case strings.HasPrefix(low, "priority:"):
			p.Priority, p.HasPriority = parsePriorityWord(low[len("priority:"):])

		case strings.HasPrefix(low, "p:"):
			p.Priority, p.HasPriority = parsePriorityWord(low[len("p:"):])

		case low == "!i" || low == "!h" || low == "!m" || low == "!l":
			p.Priority, p.HasPriority = parsePriorityWord(low[1:])

		case low == "urgent" || low == "asap":
			p.Priority, p.HasPriority = model.PriorityHigh, true

		case strings.HasPrefix(low, "every:"):
			p.Recurrence, p.HasRecurrence = parseRecurrenceWord(low[len("every:"):])

		case low == "@daily" || low == "@weekly" || low == "@monthly":
			p.Recurrence, p.HasRecurrence = parseRecurrenceWord(low[1:])

		case strings.HasPrefix(low, "topic:"):
			if v := tok[len("topic:"):]; v != "" {
				p.Topics = append(p.Topics, v)
			}

		case strings.HasPrefix(low, "t:"):
			if v := tok[len("t:"):]; v != "" {
				p.Topics = append(p.Topics, v)
			}

		case strings.HasPrefix(low, "#") && len(low) > 1:
			p.Topics = append(p.Topics, strings.TrimPrefix(tok, "#"))

		case strings.HasPrefix(low, "at:"):
			inDue = true
			if v := tok[len("at:"):]; v != "" {
				due = append(due, v)
			}

		case strings.HasPrefix(low, "title:"):
			inTitle = true
			if v := tok[len("title:"):]; v != "" {
				titleSpan = append(titleSpan, v)
			}

		default:
			title = append(title, tok)
		}
	}

	p.Title = cleanTitle(strings.Join(title, " "))
	if override := cleanTitle(strings.Join(titleSpan, " ")); override != "" {
		p.TitleOverride = override
		p.HasTitle = true
	}
	rawDate := strings.TrimSpace(strings.Join(due, " "))
	if noDueVocab[strings.ToLower(rawDate)] {
		p.NoDue = true
	} else {
		p.RawDate = rawDate
	}
	return p
}

// isKeyToken reports whether a lowered token starts a new grammar key,
// which terminates an open at: span.
func isKeyToken(low string) bool {
	for _, prefix := range []string{"p:", "priority:", "every:", "topic:", "t:", "link:", "notes:", "at:", "title:", "#"} {
		if strings.HasPrefix(low, prefix) && len(low) > len(prefix) {
			return true
		}
	}
	switch low {
	case "!i", "!h", "!m", "!l", "@daily", "@weekly", "@monthly", "urgent", "asap":
		return true
	}
	return false
}

func parsePriorityWord(v string) (model.Priority, bool) {
	switch strings.ToLower(v) {
	case "i", "immediate", "now", "p0":
		return model.PriorityImmediate, true
	case "h", "high", "p1":
		return model.PriorityHigh, true
	case "m", "mid", "medium", "p2":
		return model.PriorityMid, true
	case "l", "low", "p3":
		return model.PriorityLow, true
	}
	return "", false
}

func parseRecurrenceWord(v string) (draft.Recurrence, bool) {
	switch strings.ToLower(v) {
	case "daily", "day":
		return draft.RecurrenceDaily, true
	case "weekly", "week":
		return draft.RecurrenceWeekly, true
	case "monthly", "month":
		return draft.RecurrenceMonthly, true
	case "none", "off", "once":
		return draft.RecurrenceNone, true
	}
	return "", false
}

// cleanTitle normalizes whitespace and trims dangling punctuation left
// behind by token stripping.
func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,;:.-")
	return s
}
