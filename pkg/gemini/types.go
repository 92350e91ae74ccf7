package gemini

// GenerateRequest is the top-level request body for the Gemini API.
type GenerateRequest struct {
	SystemInstruction *Content          `json:"system_instruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content wraps a list of Part objects to form a message.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part holds a text segment of a content message.
type Part struct {
	Text string `json:"text,omitempty"`
}

// GenerationConfig holds optional generation settings.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GenerateResponse is the top-level response body from the Gemini API.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate represents a single response candidate.
type Candidate struct {
	Content Content `json:"content"`
}

// ExtractedItem is one reminder candidate segmented from user content by the
// model. Dates come back as the raw text span, never a resolved value: the
// deterministic resolver owns date resolution.
type ExtractedItem struct {
	Title        string   `json:"title"`
	Notes        string   `json:"notes"`
	RawDateText  string   `json:"raw_date_text"`
	PriorityHint string   `json:"priority_hint"`
	Recurrence   string   `json:"recurrence"`
	Topics       []string `json:"topics"`
}

// ResolvedDate is the model's answer to a date-fallback query.
type ResolvedDate struct {
	DueAt      string `json:"due_at"` // RFC3339, validated by the caller
	AllDay     bool   `json:"all_day"`
	Confidence string `json:"confidence"`
}
