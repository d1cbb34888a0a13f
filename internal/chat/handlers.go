package chat

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"smart-planner-backend/internal/planner"
)

// productivityPrompt frames the assistant for free-form chat.
const productivityPrompt = `You are a helpful productivity assistant for a daily planner app.
You help users with:
- Time management tips
- Task prioritization advice
- Work-life balance suggestions
- Productivity techniques (Pomodoro, time blocking, etc.)
- Motivation and focus strategies

Be concise, practical, and encouraging in your responses.
`

// Canned replies keyed by substring, used whenever the generator is
// missing, throttled or failing. Order matters: first match wins.
var fallbackReplies = []struct{ keyword, reply string }{
	{"productive", "Try the Pomodoro Technique: work for 25 minutes, then take a 5-minute break. This helps maintain focus and prevents burnout!"},
	{"focus", "Minimize distractions by turning off notifications, and try working in 90-minute focus blocks followed by short breaks."},
	{"overwhelm", "When feeling overwhelmed, start with your smallest task first. Completing it gives you momentum to tackle bigger challenges!"},
	{"priorit", "Use the Eisenhower Matrix: categorize tasks as urgent/important, important/not urgent, urgent/not important, or neither. Focus on important tasks first!"},
	{"break", "Taking regular breaks is essential! Step away from your desk, stretch, or take a short walk to refresh your mind."},
}

const defaultReply = "Great question! Here are some quick productivity tips: 1) Break large tasks into smaller ones, 2) Set specific goals for each work session, 3) Review your progress at the end of each day."

// ChatHandler — POST /ai-chat. Same generator and throttle as the
// scheduler; replies degrade to keyword-matched tips, never errors.
func ChatHandler(gen planner.Generator, throttle *planner.GenerationThrottle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.Message = strings.TrimSpace(body.Message)
		if body.Message == "" {
			http.Error(w, "message required", http.StatusBadRequest)
			return
		}

		reply := replyFor(r, gen, throttle, body.Message)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reply":     reply,
			"timestamp": time.Now().UTC(),
		})
	}
}

func replyFor(r *http.Request, gen planner.Generator, throttle *planner.GenerationThrottle, message string) string {
	if gen == nil {
		return keywordReply(message)
	}

	key := fingerprint(message)
	if v, ok := throttle.Lookup(key); ok {
		if cached, ok := v.(string); ok {
			return cached
		}
	}

	if !throttle.AllowCall() {
		return keywordReply(message)
	}

	throttle.MarkCall()
	prompt := productivityPrompt + "\n\nUser: " + message + "\n\nAssistant:"
	reply, err := gen.Generate(r.Context(), prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Printf("[WARN] ai chat failed, using canned reply: %v", err)
		return "I'm here to help with productivity tips! Try asking about focus techniques, time management, or task prioritization."
	}

	reply = strings.TrimSpace(reply)
	throttle.Store(key, reply)
	return reply
}

func keywordReply(message string) string {
	lower := strings.ToLower(message)
	for _, f := range fallbackReplies {
		if strings.Contains(lower, f.keyword) {
			return f.reply
		}
	}
	return defaultReply
}

func fingerprint(message string) string {
	sum := sha256.Sum256([]byte("chat:" + message))
	return hex.EncodeToString(sum[:])
}
