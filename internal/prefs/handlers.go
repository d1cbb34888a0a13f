package prefs

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"smart-planner-backend/internal/analytics"
	"smart-planner-backend/internal/auth"
)

type Preferences struct {
	WorkStyle        string `json:"work_style"`
	ProductivityGoal string `json:"productivity_goal"`
	WorkHoursStart   string `json:"work_hours_start"`
	WorkHoursEnd     string `json:"work_hours_end"`
	BreakPreference  string `json:"break_preference"`
	BiggestChallenge string `json:"biggest_challenge"`
}

// SavePreferencesHandler — POST /preferences: upsert onboarding answers.
func SavePreferencesHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body Preferences
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.WorkHoursStart == "" {
			body.WorkHoursStart = "09:00"
		}
		if body.WorkHoursEnd == "" {
			body.WorkHoursEnd = "18:00"
		}

		_, err := dbx.Exec(`
			INSERT INTO user_preferences (
				user_id, work_style, productivity_goal,
				work_hours_start, work_hours_end,
				break_preference, biggest_challenge
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id) DO UPDATE SET
				work_style        = EXCLUDED.work_style,
				productivity_goal = EXCLUDED.productivity_goal,
				work_hours_start  = EXCLUDED.work_hours_start,
				work_hours_end    = EXCLUDED.work_hours_end,
				break_preference  = EXCLUDED.break_preference,
				biggest_challenge = EXCLUDED.biggest_challenge,
				updated_at        = now()
		`, uid, body.WorkStyle, body.ProductivityGoal,
			body.WorkHoursStart, body.WorkHoursEnd,
			body.BreakPreference, body.BiggestChallenge)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "onboarding_completed", map[string]any{
			"work_style":        body.WorkStyle,
			"productivity_goal": body.ProductivityGoal,
		}, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":     "Preferences saved successfully",
			"preferences": body,
		})
	}
}

// GetPreferencesHandler — GET /preferences.
func GetPreferencesHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var p Preferences
		err := dbx.QueryRow(`
			SELECT work_style, productivity_goal, work_hours_start, work_hours_end,
			       break_preference, biggest_challenge
			FROM user_preferences
			WHERE user_id = $1
		`, uid).Scan(&p.WorkStyle, &p.ProductivityGoal, &p.WorkHoursStart,
			&p.WorkHoursEnd, &p.BreakPreference, &p.BiggestChallenge)

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"preferences":              nil,
				"has_completed_onboarding": false,
			})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"preferences":              p,
			"has_completed_onboarding": true,
		})
	}
}
