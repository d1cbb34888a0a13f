package assist

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"smart-planner-backend/internal/planner"
)

// Keyword lists for the heuristic priority fallback. First match wins
// over deadline proximity.
var (
	highKeywords = []string{
		"urgent", "asap", "important", "deadline", "meeting",
		"presentation", "exam", "interview", "client",
	}
	lowKeywords = []string{
		"maybe", "someday", "optional", "nice to have", "when free", "later",
	}
)

type prioritySuggestion struct {
	Task        string    `json:"task"`
	Priority    string    `json:"suggested_priority"`
	Reasoning   string    `json:"reasoning"`
	AIGenerated bool      `json:"ai_generated"`
	Timestamp   time.Time `json:"timestamp"`
}

// ------------------------------------------------------------------
// Priority suggestion: POST /ai-suggest-priority
// ------------------------------------------------------------------

// SuggestPriorityHandler analyzes a task title and optional deadline
// and suggests a priority level. Goes through the shared throttle:
// results are cached per title+deadline and a denied call routes to
// the keyword/deadline heuristic.
func SuggestPriorityHandler(gen planner.Generator, throttle *planner.GenerationThrottle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TaskTitle string `json:"task_title"`
			Deadline  string `json:"deadline"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.TaskTitle = strings.TrimSpace(body.TaskTitle)
		if body.TaskTitle == "" {
			http.Error(w, "task_title required", http.StatusBadRequest)
			return
		}

		var deadline *time.Time
		if body.Deadline != "" {
			d, err := time.Parse("2006-01-02", body.Deadline)
			if err != nil {
				http.Error(w, "deadline: must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			deadline = &d
		}

		key := fingerprint("priority", body.TaskTitle, body.Deadline)
		if v, ok := throttle.Lookup(key); ok {
			if cached, ok := v.(prioritySuggestion); ok {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(cached)
				return
			}
		}

		priority, reasoning := "", ""
		aiUsed := false

		if gen != nil && throttle.AllowCall() {
			throttle.MarkCall()
			if p, reason, err := suggestExternal(r, gen, body.TaskTitle, deadline); err == nil {
				priority, reasoning, aiUsed = p, reason, true
			} else {
				log.Printf("[WARN] ai priority suggestion failed: %v", err)
			}
		}

		if reasoning == "" {
			priority, reasoning = heuristicPriority(body.TaskTitle, deadline, time.Now().UTC())
		}

		out := prioritySuggestion{
			Task:        body.TaskTitle,
			Priority:    priority,
			Reasoning:   reasoning,
			AIGenerated: aiUsed,
			Timestamp:   time.Now().UTC(),
		}
		throttle.Store(key, out)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func suggestExternal(r *http.Request, gen planner.Generator, title string, deadline *time.Time) (string, string, error) {
	deadlineInfo := "No deadline set"
	daysLine := ""
	if deadline != nil {
		deadlineInfo = "Deadline: " + deadline.Format("2006-01-02")
		days := daysUntil(*deadline, time.Now().UTC())
		daysLine = fmt.Sprintf("Days until deadline: %d", days)
	}

	prompt := fmt.Sprintf(`Analyze this task and suggest a priority level (high, medium, or low).

Task: %s
%s
%s

Consider:
- Task urgency (deadline proximity)
- Task importance (based on keywords like "urgent", "important", "review", "meeting", etc.)
- Complexity indicators

Output ONLY valid JSON:
{"priority": "high|medium|low", "reasoning": "Brief explanation (1 sentence)"}`, title, deadlineInfo, daysLine)

	raw, err := gen.Generate(r.Context(), prompt)
	if err != nil {
		return "", "", err
	}

	frag, ok := jsonSpan(raw, "{", "}")
	if !ok {
		return "", "", fmt.Errorf("no JSON object in response")
	}
	var result struct {
		Priority  string `json:"priority"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(frag), &result); err != nil {
		return "", "", err
	}
	if result.Priority == "" {
		result.Priority = "medium"
	}
	return result.Priority, result.Reasoning, nil
}

// heuristicPriority is the no-AI path: urgency keywords first, then
// deadline proximity, then a neutral default.
func heuristicPriority(title string, deadline *time.Time, today time.Time) (string, string) {
	lower := strings.ToLower(title)

	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return "high", "Task contains urgency indicators"
		}
	}
	for _, kw := range lowKeywords {
		if strings.Contains(lower, kw) {
			return "low", "Task appears to be optional or flexible"
		}
	}

	if deadline != nil {
		switch days := daysUntil(*deadline, today); {
		case days <= 1:
			return "high", "Deadline is imminent (within 24 hours)"
		case days <= 3:
			return "medium", "Deadline is approaching (within 3 days)"
		default:
			return "low", "Deadline is far enough to be flexible"
		}
	}

	return "medium", "Standard task with no urgency indicators"
}

func daysUntil(deadline, today time.Time) int {
	d := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}
