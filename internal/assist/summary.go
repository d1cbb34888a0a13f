package assist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"smart-planner-backend/internal/auth"
	"smart-planner-backend/internal/planner"
)

// ------------------------------------------------------------------
// Daily summary: GET /daily-summary
// ------------------------------------------------------------------

// DailySummaryHandler returns a short motivational summary of the
// user's day, AI-written when a generator is wired, otherwise phrased
// from the completion rate.
func DailySummaryHandler(dbx *sql.DB, gen planner.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		today := time.Now().UTC().Format("2006-01-02")
		counts, err := loadTaskCounts(r.Context(), dbx, uid, today)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		summary := ""
		if gen != nil {
			summary, err = summaryExternal(r, gen, counts)
			if err != nil {
				log.Printf("[WARN] ai summary failed: %v", err)
				summary = ""
			}
		}
		if summary == "" {
			summary = cannedSummary(counts)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"summary": summary,
			"stats": map[string]any{
				"total_tasks":     counts.Total,
				"completed":       counts.Completed,
				"pending":         counts.Pending,
				"overdue":         counts.Overdue,
				"today_tasks":     counts.TodayTasks,
				"today_completed": counts.TodayCompleted,
				"completion_rate": round1(counts.completionRate()),
			},
			"date":         today,
			"generated_at": time.Now().UTC(),
		})
	}
}

func summaryExternal(r *http.Request, gen planner.Generator, counts taskCounts) (string, error) {
	prompt := fmt.Sprintf(`Generate a brief, motivating daily productivity summary (2-3 sentences) based on:
- Total tasks: %d
- Completed: %d (%.1f%%)
- Pending: %d
- Overdue: %d
- Today's tasks: %d (completed: %d)

Be encouraging but honest. If there are overdue tasks, gently remind about them.`,
		counts.Total, counts.Completed, counts.completionRate(),
		counts.Pending, counts.Overdue, counts.TodayTasks, counts.TodayCompleted)

	return gen.Generate(r.Context(), prompt)
}

func cannedSummary(c taskCounts) string {
	rate := c.completionRate()
	switch {
	case c.Total == 0:
		return "Welcome to your productivity journey! Add some tasks to get started and let's make today count! 🚀"
	case rate >= 80:
		return fmt.Sprintf("Outstanding work! You've completed %d out of %d tasks (%.1f%% completion rate). Keep up the amazing momentum! 🎉",
			c.Completed, c.Total, round1(rate))
	case rate >= 50:
		return fmt.Sprintf("Great progress! You've completed %d tasks so far. %d tasks remaining - you've got this! 💪",
			c.Completed, c.Pending)
	case c.Overdue > 0:
		return fmt.Sprintf("You have %d overdue tasks that need attention. Focus on those first, then tackle the remaining %d tasks. Every step forward counts! 🎯",
			c.Overdue, c.Pending-c.Overdue)
	default:
		return fmt.Sprintf("You have %d tasks ahead of you today. Start with the high-priority ones and build momentum. You can do this! ✨",
			c.Pending)
	}
}
