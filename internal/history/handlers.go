package history

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/lib/pq"

	"smart-planner-backend/internal/auth"
)

// ------------------------------------------------------------------
// Read: GET /history?limit=N
// ------------------------------------------------------------------

func GetHistoryHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			limit = 10
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT id, to_char(date, 'YYYY-MM-DD'), total_tasks, completed_tasks,
			       schedule_data::text, wellness_tips
			FROM plan_history
			WHERE user_id = $1
			ORDER BY date DESC
			LIMIT $2
		`, uid, limit)
		if err != nil {
			http.Error(w, "db query error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		entries := []map[string]any{}
		for rows.Next() {
			var (
				id, total, completed int
				date, scheduleData   string
				tips                 []string
			)
			if err := rows.Scan(&id, &date, &total, &completed, &scheduleData, pq.Array(&tips)); err != nil {
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}

			var schedule []map[string]any
			_ = json.Unmarshal([]byte(scheduleData), &schedule)

			rate := 0.0
			if total > 0 {
				rate = math.Round(float64(completed)/float64(total)*100*10) / 10
			}

			entries = append(entries, map[string]any{
				"id":              id,
				"date":            date,
				"total_tasks":     total,
				"completed_tasks": completed,
				"completion_rate": rate,
				"schedule":        schedule,
				"wellness_tips":   tips,
			})
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"history": entries})
	}
}

// ------------------------------------------------------------------
// Snapshot: POST /history — save today's plan state
// ------------------------------------------------------------------

func SaveHistoryHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		today := time.Now().UTC().Format("2006-01-02")

		var total, completed int
		err := dbx.QueryRow(`
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE status = 'completed')
			FROM tasks
			WHERE user_id = $1 AND deadline = $2
		`, uid, today).Scan(&total, &completed)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		rows, err := dbx.Query(`
			SELECT task_title, start_time, end_time
			FROM schedule
			WHERE user_id = $1 AND date = $2
			ORDER BY start_time
		`, uid, today)
		if err != nil {
			http.Error(w, "db query error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		schedule := []map[string]string{}
		for rows.Next() {
			var task, start, end string
			if err := rows.Scan(&task, &start, &end); err != nil {
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}
			schedule = append(schedule, map[string]string{"task": task, "start": start, "end": end})
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		data, _ := json.Marshal(schedule)
		_, err = dbx.Exec(`
			INSERT INTO plan_history (user_id, date, total_tasks, completed_tasks, schedule_data)
			VALUES ($1, $2, $3, $4, $5::jsonb)
			ON CONFLICT (user_id, date) DO UPDATE SET
				total_tasks     = EXCLUDED.total_tasks,
				completed_tasks = EXCLUDED.completed_tasks,
				schedule_data   = EXCLUDED.schedule_data
		`, uid, today, total, completed, string(data))
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Plan history saved",
			"date":    today,
		})
	}
}
