package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smart-planner-backend/internal/planner"
)

type fakeGen struct {
	calls int
	reply string
	err   error
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestKeywordReply(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"How can I be more PRODUCTIVE?", fallbackReplies[0].reply},
		{"I can't focus today", fallbackReplies[1].reply},
		{"feeling overwhelmed by everything", fallbackReplies[2].reply},
		{"help me prioritize my work", fallbackReplies[3].reply},
		{"should I take a break?", fallbackReplies[4].reply},
		{"hello", defaultReply},
	}
	for _, tc := range tests {
		if got := keywordReply(tc.message); got != tc.want {
			t.Errorf("keywordReply(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func postChat(t *testing.T, h http.HandlerFunc, message string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"message": message})
	req := httptest.NewRequest(http.MethodPost, "/ai-chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestChatHandlerNilGenerator(t *testing.T) {
	h := ChatHandler(nil, planner.NewThrottle())
	out := postChat(t, h, "I need more focus")
	if out["reply"] != fallbackReplies[1].reply {
		t.Errorf("reply = %v, want the focus tip", out["reply"])
	}
}

func TestChatHandlerGeneratorReply(t *testing.T) {
	gen := &fakeGen{reply: "  Block your mornings for deep work.  "}
	h := ChatHandler(gen, planner.NewThrottle())
	out := postChat(t, h, "any advice?")
	if out["reply"] != "Block your mornings for deep work." {
		t.Errorf("reply = %v, want trimmed generator reply", out["reply"])
	}
}

func TestChatHandlerGeneratorErrorFallsBack(t *testing.T) {
	gen := &fakeGen{err: errors.New("boom")}
	h := ChatHandler(gen, planner.NewThrottle())
	out := postChat(t, h, "any advice?")
	reply, _ := out["reply"].(string)
	if !strings.Contains(reply, "I'm here to help") {
		t.Errorf("reply = %q, want the canned failure reply", reply)
	}
}

func TestChatHandlerCachesReplies(t *testing.T) {
	gen := &fakeGen{reply: "One thing at a time."}
	throttle := planner.NewThrottle()
	h := ChatHandler(gen, throttle)

	postChat(t, h, "same question")
	postChat(t, h, "same question")

	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (second answer from cache)", gen.calls)
	}
}

func TestChatHandlerThrottledUsesKeywords(t *testing.T) {
	gen := &fakeGen{reply: "external reply"}
	throttle := planner.NewThrottle()
	throttle.MarkCall()
	h := ChatHandler(gen, throttle)

	out := postChat(t, h, "I am overwhelmed")
	if out["reply"] != fallbackReplies[2].reply {
		t.Errorf("reply = %v, want the overwhelm tip while throttled", out["reply"])
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls)
	}
}

func TestChatHandlerRejectsEmptyMessage(t *testing.T) {
	h := ChatHandler(nil, planner.NewThrottle())
	body, _ := json.Marshal(map[string]string{"message": "   "})
	req := httptest.NewRequest(http.MethodPost, "/ai-chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
