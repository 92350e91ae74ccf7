package gemini

import "fmt"

// ItemExtractionSystemPrompt is the system instruction for segmenting chat
// content into reminder candidates.
const ItemExtractionSystemPrompt = `You are a reminder extraction assistant. Your job is to split user content into individual actionable reminder items.

RULES:
1. Extract each discrete action item the user should be reminded about.
2. For each item, identify:
   - title: short, clear task phrase (required, imperative form)
   - notes: supporting details (can be empty string)
   - raw_date_text: the EXACT date/time words from the input, verbatim (e.g. "tomorrow 9am", "next friday", "15 March"). Empty string when no date is mentioned. NEVER invent a date.
   - priority_hint: one of "immediate", "high", "mid", "low" based on urgency words (default "mid")
   - recurrence: one of "none", "daily", "weekly", "monthly" (default "none")
   - topics: array of short topic labels inferred from context (max 3)
3. Return ONLY a valid JSON array, at most %d items. No markdown, no code blocks, no explanation text.
4. If nothing in the content is actionable, return an empty JSON array [].

EXAMPLE INPUT:
"need to pay rent tomorrow 9am, also call the dentist sometime next week about the crown"

EXAMPLE OUTPUT:
[
  {"title": "Pay rent", "notes": "", "raw_date_text": "tomorrow 9am", "priority_hint": "mid", "recurrence": "none", "topics": ["finance"]},
  {"title": "Call the dentist about the crown", "notes": "", "raw_date_text": "next week", "priority_hint": "mid", "recurrence": "none", "topics": ["health"]}
]`

// BuildItemExtractionPrompt builds the full prompt for reminder segmentation.
func BuildItemExtractionPrompt(content string, nowISO string, maxItems int) string {
	return fmt.Sprintf(ItemExtractionSystemPrompt, maxItems) +
		"\n\nCURRENT TIME (for context only, do not resolve dates yourself):\n" + nowISO +
		"\n\nNow extract reminder items from the following content and return ONLY the JSON array:\n" + content
}

// DateFallbackSystemPrompt is the system instruction for the last-resort date
// resolution query, used only after every deterministic stage has failed.
const DateFallbackSystemPrompt = `You are a date resolution assistant. Given a text fragment and the current time, determine the single date/time the text refers to.

RULES:
1. Return ONLY a JSON object, no markdown, no explanation:
   {"due_at": "<RFC3339 date-time>", "all_day": <true|false>, "confidence": "<high|medium|low>"}
2. all_day is true when the text names a day but no time of day.
3. If the text does not refer to any date or time, return {"due_at": "", "all_day": false, "confidence": "low"}.
4. Never guess beyond what the text supports.`

// BuildDateFallbackPrompt builds the full prompt for LLM date fallback.
func BuildDateFallbackPrompt(text string, nowISO string, timezone string) string {
	return DateFallbackSystemPrompt +
		"\n\nCURRENT TIME: " + nowISO +
		"\nTIMEZONE: " + timezone +
		"\n\nResolve the date in the following text and return ONLY the JSON object:\n" + text
}
