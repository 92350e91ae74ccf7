package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reminder-draft/internal/draft"
	"reminder-draft/pkg/datemath"
	"reminder-draft/pkg/gemini"
)

// fakeGemini answers date-fallback prompts based on the text being
// resolved: "offsite" gets a valid date, "festival" a far-away date,
// "vaguely" prose instead of JSON.
func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gemini.GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		prompt := req.Contents[0].Parts[0].Text

		text := `{"due_at": "", "all_day": false}`
		switch {
		case strings.Contains(prompt, "offsite"):
			text = `{"due_at": "2024-01-03T10:00:00Z", "all_day": false}`
		case strings.Contains(prompt, "festival"):
			text = `{"due_at": "2024-01-20T00:00:00Z", "all_day": true}`
		case strings.Contains(prompt, "vaguely"):
			text = "soonish, probably next week or so"
		case strings.Contains(prompt, "rent"):
			// Same day as the deterministic result for the rent text.
			// Checked after "vaguely": the system prompt contains the
			// word "current", which would otherwise match "rent".
			text = `{"due_at": "2024-01-02T09:30:00Z", "all_day": false}`
		}

		resp := gemini.GenerateResponse{
			Candidates: []gemini.Candidate{
				{Content: gemini.Content{Parts: []gemini.Part{{Text: text}}}},
			},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}))
}

func newLLMUseCase(t *testing.T, ts *httptest.Server) *implUseCase {
	t.Helper()
	llm := gemini.NewClient("test-key")
	llm.SetAPIURL(ts.URL)
	return newTestUseCase(&mockReminderRepo{}, llm, Config{LLMFallback: true})
}

func TestResolveDueLLMFallback(t *testing.T) {
	ts := fakeGemini(t)
	defer ts.Close()
	uc := newLLMUseCase(t, ts)
	ctx := context.Background()

	t.Run("LLM Answer When Stages Fail", func(t *testing.T) {
		res, err := uc.resolveDue(ctx, "before the big offsite thing", testRefTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res == nil {
			t.Fatal("expected an LLM result")
		}
		if res.Stage != datemath.StageLLMFallback {
			t.Errorf("stage = %s, want llm_fallback", res.Stage)
		}
		if res.Confidence != datemath.ConfidenceLow {
			t.Errorf("confidence = %s, LLM answers are always forced low", res.Confidence)
		}
		want := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
		if !res.Time.Equal(want) {
			t.Errorf("time = %v, want %v", res.Time, want)
		}
	})

	t.Run("Deterministic Corroboration Keeps Its Confidence", func(t *testing.T) {
		// The window search resolves this to tomorrow (low); the LLM agrees
		// on the day, so the deterministic result is kept, not overridden.
		res, err := uc.resolveDue(ctx, "pay the rent before tomorrow 9am please", testRefTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res == nil {
			t.Fatal("expected a result")
		}
		if res.Stage == datemath.StageLLMFallback {
			t.Errorf("deterministic result must win on corroboration, got stage %s", res.Stage)
		}
		want := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
		if !res.Time.Equal(want) {
			t.Errorf("time = %v, want deterministic %v", res.Time, want)
		}
	})

	t.Run("Disagreement Beyond A Day Is Ambiguous", func(t *testing.T) {
		// Deterministic low resolves to tomorrow, the LLM says Jan 20.
		_, err := uc.resolveDue(ctx, "the festival is around tomorrow 9am sometime", testRefTime)
		if !errors.Is(err, draft.ErrAmbiguousDate) {
			t.Errorf("expected ErrAmbiguousDate, got %v", err)
		}
	})

	t.Run("Invalid LLM Date Is Discarded", func(t *testing.T) {
		res, err := uc.resolveDue(ctx, "vaguely at some point whenever", testRefTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res != nil {
			t.Errorf("expected no result for an unparseable LLM answer, got %+v", res)
		}
	})

	t.Run("High Confidence Skips The LLM", func(t *testing.T) {
		// "offsite" would trigger an LLM answer, but the explicit time wins first.
		res, err := uc.resolveDue(ctx, "tomorrow 9am", testRefTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res == nil || res.Stage != datemath.StageRelativePhrase {
			t.Fatalf("expected the deterministic stage, got %+v", res)
		}
	})
}

func TestExtractItemsLLMSegmentation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := "```json\n" + `[
			{"title": "Book flights", "raw_date_text": "tomorrow", "priority_hint": "high"},
			{"title": "Renew passport", "raw_date_text": "", "topics": ["travel"]},
			{"title": "", "raw_date_text": ""}
		]` + "\n```"
		resp := gemini.GenerateResponse{
			Candidates: []gemini.Candidate{
				{Content: gemini.Content{Parts: []gemini.Part{{Text: items}}}},
			},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	uc := newLLMUseCase(t, ts)

	long := strings.Repeat("we talked about a lot of travel planning stuff ", 10)
	out, err := uc.StartDraft(context.Background(), testScope(), draft.StartDraftInput{
		Content: long,
		Kind:    draft.ContentTranscript,
		ChatID:  100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Session.Proposals) != 2 {
		t.Fatalf("expected 2 proposals (empty title dropped), got %d", len(out.Session.Proposals))
	}
	first := out.Session.Proposals[0]
	if first.Title != "Book flights" || first.Due == nil {
		t.Errorf("unexpected first proposal: %+v", first)
	}
	second := out.Session.Proposals[1]
	if second.Due != nil {
		t.Error("second proposal must stay undated, extraction never invents a date")
	}
	if len(second.Topics) != 1 || second.Topics[0] != "travel" {
		t.Errorf("second proposal topics = %v", second.Topics)
	}
}
