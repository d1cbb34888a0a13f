package tasks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smart-planner-backend/internal/analytics"
	"smart-planner-backend/internal/auth"
	"smart-planner-backend/internal/planner"
	"smart-planner-backend/internal/streaks"
)

// ------------------------------------------------------------------
// Create: POST /tasks
// ------------------------------------------------------------------

func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Title         string  `json:"title"`
			Duration      float64 `json:"duration"`
			Priority      string  `json:"priority"`
			Deadline      string  `json:"deadline"`
			PreferredTime string  `json:"preferred_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		deadline, err := time.Parse("2006-01-02", body.Deadline)
		if err != nil {
			http.Error(w, "deadline: must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		candidate := planner.Task{
			Title:         strings.TrimSpace(body.Title),
			DurationHours: body.Duration,
			Priority:      body.Priority,
			Deadline:      deadline,
			PreferredTime: body.PreferredTime,
		}
		if err := candidate.Validate(); err != nil {
			var verr *planner.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "invalid task", http.StatusBadRequest)
			return
		}

		t := Task{
			UserID:        uid,
			Title:         candidate.Title,
			Duration:      body.Duration,
			Priority:      body.Priority,
			Deadline:      body.Deadline,
			PreferredTime: body.PreferredTime,
		}
		err = dbx.QueryRow(`
			INSERT INTO tasks (user_id, title, duration, priority, deadline, preferred_time)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
			RETURNING id, status, created_at
		`, uid, t.Title, t.Duration, t.Priority, t.Deadline, t.PreferredTime).
			Scan(&t.ID, &t.Status, &t.CreatedAt)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "task_created", map[string]any{
			"task_id":  t.ID,
			"priority": t.Priority,
			"duration": t.Duration,
		}, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// ------------------------------------------------------------------
// List: GET /tasks?status=&priority=
// ------------------------------------------------------------------

func ListTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		query := `
			SELECT id, user_id, title, duration, priority,
			       to_char(deadline, 'YYYY-MM-DD'), COALESCE(preferred_time, ''),
			       status, created_at
			FROM tasks
			WHERE user_id = $1`
		args := []any{uid}

		if s := r.URL.Query().Get("status"); s != "" {
			args = append(args, s)
			query += ` AND status = $` + strconv.Itoa(len(args))
		}
		if p := r.URL.Query().Get("priority"); p != "" {
			args = append(args, p)
			query += ` AND priority = $` + strconv.Itoa(len(args))
		}
		query += ` ORDER BY deadline, id`

		rows, err := dbx.QueryContext(r.Context(), query, args...)
		if err != nil {
			http.Error(w, "db query error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		list := []Task{}
		for rows.Next() {
			var t Task
			if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Duration, &t.Priority,
				&t.Deadline, &t.PreferredTime, &t.Status, &t.CreatedAt); err != nil {
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}
			list = append(list, t)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// ------------------------------------------------------------------
// Get one: GET /tasks/{id}
// ------------------------------------------------------------------

func GetTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var t Task
		err = dbx.QueryRow(`
			SELECT id, user_id, title, duration, priority,
			       to_char(deadline, 'YYYY-MM-DD'), COALESCE(preferred_time, ''),
			       status, created_at
			FROM tasks
			WHERE id=$1 AND user_id=$2
		`, id, uid).Scan(&t.ID, &t.UserID, &t.Title, &t.Duration, &t.Priority,
			&t.Deadline, &t.PreferredTime, &t.Status, &t.CreatedAt)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// ------------------------------------------------------------------
// Status update: PATCH /tasks/{id}
// ------------------------------------------------------------------

func UpdateTaskStatusHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Status != "pending" && body.Status != "completed" {
			http.Error(w, "status must be pending or completed", http.StatusBadRequest)
			return
		}

		var prevStatus string
		var createdAt time.Time
		_ = dbx.QueryRow(`
			SELECT status, created_at FROM tasks WHERE id=$1 AND user_id=$2
		`, id, uid).Scan(&prevStatus, &createdAt)

		res, err := dbx.Exec(`
			UPDATE tasks SET status = $1 WHERE id = $2 AND user_id = $3
		`, body.Status, id, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		// completing a task counts as today's activity
		if prevStatus != "completed" && body.Status == "completed" {
			_, _ = streaks.CheckIn(r.Context(), dbx, uid)

			env := analytics.FromRequest(r)
			env.UserID = uid
			_ = analytics.Log(r.Context(), dbx, env, "task_completed", map[string]any{
				"task_id":                id,
				"time_since_created_sec": int(time.Now().UTC().Sub(createdAt).Seconds()),
			}, analytics.SourceEventKeyFromRequest(r))
		}

		var t Task
		err = dbx.QueryRow(`
			SELECT id, user_id, title, duration, priority,
			       to_char(deadline, 'YYYY-MM-DD'), COALESCE(preferred_time, ''),
			       status, created_at
			FROM tasks
			WHERE id=$1 AND user_id=$2
		`, id, uid).Scan(&t.ID, &t.UserID, &t.Title, &t.Duration, &t.Priority,
			&t.Deadline, &t.PreferredTime, &t.Status, &t.CreatedAt)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// ------------------------------------------------------------------
// Delete: DELETE /tasks/{id}
// ------------------------------------------------------------------

func DeleteTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		res, err := dbx.Exec(`DELETE FROM tasks WHERE id=$1 AND user_id=$2`, id, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "task deleted",
			"id":      id,
		})
	}
}

// PendingTasks loads the user's pending tasks as planner tasks, the
// shape the scheduler consumes. Rows with unparseable dates are
// skipped rather than failing the run.
func PendingTasks(dbx *sql.DB, uid int) ([]planner.Task, error) {
	rows, err := dbx.Query(`
		SELECT title, duration, priority,
		       to_char(deadline, 'YYYY-MM-DD'), COALESCE(preferred_time, '')
		FROM tasks
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY id
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []planner.Task
	for rows.Next() {
		var t planner.Task
		var deadline string
		if err := rows.Scan(&t.Title, &t.DurationHours, &t.Priority, &deadline, &t.PreferredTime); err != nil {
			return nil, err
		}
		d, err := time.Parse("2006-01-02", deadline)
		if err != nil {
			continue
		}
		t.Deadline = d
		list = append(list, t)
	}
	return list, rows.Err()
}
