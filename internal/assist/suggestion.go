package assist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"smart-planner-backend/internal/auth"
	"smart-planner-backend/internal/planner"
)

// taskCounts is the per-user task state the suggestion and summary
// endpoints reason over.
type taskCounts struct {
	Total          int
	Completed      int
	Pending        int
	HighPending    int
	Overdue        int
	TodayTasks     int
	TodayCompleted int
}

func (c taskCounts) completionRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total) * 100
}

func loadTaskCounts(ctx context.Context, dbx *sql.DB, uid int, today string) (taskCounts, error) {
	var c taskCounts
	err := dbx.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'pending' AND priority = 'high'),
		       COUNT(*) FILTER (WHERE status = 'pending' AND deadline < $2),
		       COUNT(*) FILTER (WHERE deadline = $2),
		       COUNT(*) FILTER (WHERE deadline = $2 AND status = 'completed')
		FROM tasks
		WHERE user_id = $1
	`, uid, today).Scan(&c.Total, &c.Completed, &c.Pending,
		&c.HighPending, &c.Overdue, &c.TodayTasks, &c.TodayCompleted)
	return c, err
}

// ------------------------------------------------------------------
// Smart suggestion: POST /smart-suggestion
// ------------------------------------------------------------------

// SmartSuggestionHandler returns one personalized productivity tip
// derived from the user's current task state. The generator sees the
// state as context; without it the tip comes from a fixed decision
// chain over overdue/priority/pending counts and the time of day.
func SmartSuggestionHandler(dbx *sql.DB, gen planner.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// context is optional; an empty body is fine
		var body struct {
			Context string `json:"context"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		now := time.Now()
		counts, err := loadTaskCounts(r.Context(), dbx, uid, now.UTC().Format("2006-01-02"))
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		suggestion := ""
		if gen != nil {
			suggestion, err = suggestionExternal(r, gen, counts, body.Context, now)
			if err != nil {
				log.Printf("[WARN] ai suggestion failed: %v", err)
			}
		}
		if suggestion == "" {
			suggestion = cannedSuggestion(counts, now.Hour())
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"suggestion": suggestion,
			"context": map[string]any{
				"pending_tasks":   counts.Pending,
				"high_priority":   counts.HighPending,
				"overdue":         counts.Overdue,
				"completion_rate": round1(counts.completionRate()),
			},
			"timestamp": time.Now().UTC(),
		})
	}
}

func suggestionExternal(r *http.Request, gen planner.Generator, counts taskCounts, extra string, now time.Time) (string, error) {
	additional := ""
	if extra != "" {
		additional = "User context: " + extra
	}

	prompt := fmt.Sprintf(`You are an AI productivity coach. Based on the user's current tasks and schedule, provide ONE personalized productivity tip.

Current context:
- Total pending tasks: %d
- High priority tasks: %d
- Overdue tasks: %d
- Current time: %s
- Completion rate: %.1f%%

%s

Provide a brief, actionable suggestion (2-3 sentences max). Be specific and motivating.`,
		counts.Pending, counts.HighPending, counts.Overdue,
		now.Format("03:04 PM"), counts.completionRate(), additional)

	return gen.Generate(r.Context(), prompt)
}

// cannedSuggestion is the no-AI decision chain: most pressing signal
// first, time-of-day advice last.
func cannedSuggestion(c taskCounts, hour int) string {
	switch {
	case c.Overdue > 0:
		return fmt.Sprintf("⚠️ You have %d overdue task%s! Consider tackling the most critical one first to reduce stress and build momentum.",
			c.Overdue, plural(c.Overdue))
	case c.HighPending > 0:
		return fmt.Sprintf("🎯 You have %d high-priority task%s waiting. Try the 'eat the frog' technique - tackle the hardest one first while your energy is high!",
			c.HighPending, plural(c.HighPending))
	case c.Pending == 0 && c.Total > 0:
		return "🎉 Amazing! All tasks completed! Take a well-deserved break or use this momentum to plan tomorrow's tasks."
	case c.Pending > 5:
		return fmt.Sprintf("📋 You have %d tasks pending. Consider using the Pomodoro technique: 25 minutes of focused work, then a 5-minute break. Start with just one task!",
			c.Pending)
	case hour < 12:
		return "☀️ Morning is the best time for complex tasks! Your brain is fresh - tackle something challenging while you're at peak performance."
	case hour < 17:
		return "🌤️ Afternoon energy dip? Try a quick walk or stretch, then return to knock out a quick task to rebuild momentum."
	default:
		return "🌙 Evening is great for planning! Review today's progress and set up tomorrow's priorities for a productive start."
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
