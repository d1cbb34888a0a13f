package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smart-planner-backend/internal/planner"
)

type fakeGen struct {
	calls    int
	response string
	err      error
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestHeuristicPriority(t *testing.T) {
	today := day("2025-06-10")
	soon := day("2025-06-11")
	nearby := day("2025-06-12")
	far := day("2025-06-25")

	tests := []struct {
		name         string
		title        string
		deadline     *time.Time
		wantPriority string
	}{
		{"urgency keyword", "URGENT: fix prod bug", nil, "high"},
		{"client keyword", "Call with client about renewal", nil, "high"},
		{"optional keyword", "maybe reorganize bookshelf", nil, "low"},
		{"keyword beats far deadline", "urgent cleanup", &far, "high"},
		{"imminent deadline", "water the plants", &soon, "high"},
		{"approaching deadline", "water the plants", &nearby, "medium"},
		{"far deadline", "water the plants", &far, "low"},
		{"no signal", "water the plants", nil, "medium"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, reasoning := heuristicPriority(tc.title, tc.deadline, today)
			if got != tc.wantPriority {
				t.Errorf("heuristicPriority() = %s, want %s", got, tc.wantPriority)
			}
			if reasoning == "" {
				t.Error("heuristicPriority() returned empty reasoning")
			}
		})
	}
}

func postPriority(t *testing.T, h http.HandlerFunc, payload map[string]string) prioritySuggestion {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/ai-suggest-priority", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out prioritySuggestion
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestSuggestPriorityNilGenerator(t *testing.T) {
	h := SuggestPriorityHandler(nil, planner.NewThrottle())
	out := postPriority(t, h, map[string]string{"task_title": "urgent budget review"})

	if out.Priority != "high" {
		t.Errorf("suggested_priority = %s, want high", out.Priority)
	}
	if out.AIGenerated {
		t.Error("ai_generated = true without a generator")
	}
}

func TestSuggestPriorityExternal(t *testing.T) {
	gen := &fakeGen{response: `Sure: {"priority": "low", "reasoning": "No signal of urgency"}`}
	h := SuggestPriorityHandler(gen, planner.NewThrottle())
	out := postPriority(t, h, map[string]string{"task_title": "sort inbox"})

	if out.Priority != "low" {
		t.Errorf("suggested_priority = %s, want low", out.Priority)
	}
	if !out.AIGenerated {
		t.Error("ai_generated = false, want true")
	}
	if out.Reasoning != "No signal of urgency" {
		t.Errorf("reasoning = %q", out.Reasoning)
	}
}

func TestSuggestPriorityCachesResult(t *testing.T) {
	gen := &fakeGen{response: `{"priority": "high", "reasoning": "r"}`}
	throttle := planner.NewThrottle()
	h := SuggestPriorityHandler(gen, throttle)

	postPriority(t, h, map[string]string{"task_title": "same task", "deadline": "2025-06-12"})
	postPriority(t, h, map[string]string{"task_title": "same task", "deadline": "2025-06-12"})

	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (second answer from cache)", gen.calls)
	}
}

func TestSuggestPriorityThrottledFallsBack(t *testing.T) {
	gen := &fakeGen{response: `{"priority": "low", "reasoning": "r"}`}
	throttle := planner.NewThrottle()
	throttle.MarkCall()
	h := SuggestPriorityHandler(gen, throttle)

	out := postPriority(t, h, map[string]string{"task_title": "exam prep"})
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0 while throttled", gen.calls)
	}
	if out.Priority != "high" {
		t.Errorf("suggested_priority = %s, want high from the keyword heuristic", out.Priority)
	}
}

func TestSuggestPriorityGeneratorErrorFallsBack(t *testing.T) {
	gen := &fakeGen{err: errors.New("boom")}
	h := SuggestPriorityHandler(gen, planner.NewThrottle())

	out := postPriority(t, h, map[string]string{"task_title": "sort inbox"})
	if out.AIGenerated {
		t.Error("ai_generated = true after a generator error")
	}
	if out.Priority != "medium" {
		t.Errorf("suggested_priority = %s, want medium default", out.Priority)
	}
}

func TestSuggestPriorityRejectsEmptyTitle(t *testing.T) {
	h := SuggestPriorityHandler(nil, planner.NewThrottle())
	body, _ := json.Marshal(map[string]string{"task_title": "  "})
	req := httptest.NewRequest(http.MethodPost, "/ai-suggest-priority", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
