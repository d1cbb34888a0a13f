package schedule

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lib/pq"

	"smart-planner-backend/internal/analytics"
	"smart-planner-backend/internal/auth"
	"smart-planner-backend/internal/planner"
	"smart-planner-backend/internal/tasks"
)

// ------------------------------------------------------------------
// Generate: POST /generate-schedule
// ------------------------------------------------------------------

func GenerateScheduleHandler(dbx *sql.DB, arb *planner.Arbiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		pending, err := tasks.PendingTasks(dbx, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		today := time.Now().UTC().Format("2006-01-02")

		if len(pending) == 0 {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message":  "No pending tasks to schedule",
				"date":     today,
				"schedule": []planner.ScheduleItem{},
			})
			return
		}

		res := arb.GenerateSchedule(r.Context(), pending)

		if err := ReplaceDaySchedule(r.Context(), dbx, uid, today, res.Schedule); err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// snapshot into plan history so today's plan survives the next run
		if data, err := json.Marshal(res.Schedule); err == nil {
			_, _ = dbx.ExecContext(r.Context(), `
				INSERT INTO plan_history (user_id, date, total_tasks, schedule_data, wellness_tips)
				VALUES ($1, $2, $3, $4::jsonb, $5)
				ON CONFLICT (user_id, date) DO UPDATE SET
					total_tasks   = EXCLUDED.total_tasks,
					schedule_data = EXCLUDED.schedule_data,
					wellness_tips = EXCLUDED.wellness_tips
			`, uid, today, len(pending), string(data), pq.Array(res.Advice))
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "schedule_generated", map[string]any{
			"source":     res.Source,
			"task_count": len(pending),
			"item_count": len(res.Schedule),
		}, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":  "Schedule generated successfully",
			"date":     today,
			"schedule": res.Schedule,
			"review":   res.Advice,
			"source":   res.Source,
		})
	}
}

// ------------------------------------------------------------------
// Read: GET /schedule?date=YYYY-MM-DD
// ------------------------------------------------------------------

type Item struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	TaskTitle string `json:"task_title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Date      string `json:"date"`
}

func GetScheduleHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Error(w, "date: must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT id, user_id, task_title, start_time, end_time, to_char(date, 'YYYY-MM-DD')
			FROM schedule
			WHERE user_id=$1 AND date=$2
			ORDER BY start_time
		`, uid, date)
		if err != nil {
			http.Error(w, "db query error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		list := []Item{}
		for rows.Next() {
			var it Item
			if err := rows.Scan(&it.ID, &it.UserID, &it.TaskTitle, &it.StartTime, &it.EndTime, &it.Date); err != nil {
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}
			list = append(list, it)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}
