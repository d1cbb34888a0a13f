package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ------------------------------------------------------------------
// Registration: POST /auth/register
// ------------------------------------------------------------------

func RegisterHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.Email = strings.TrimSpace(body.Email)
		if body.Email == "" || body.Password == "" {
			http.Error(w, "email & password required", http.StatusBadRequest)
			return
		}
		if len(body.Password) < 6 {
			http.Error(w, "password must be at least 6 characters", http.StatusBadRequest)
			return
		}

		// check duplicate email
		var exists int
		err := dbx.QueryRow(`SELECT COUNT(*) FROM users WHERE email=$1`, body.Email).Scan(&exists)
		if err == nil && exists > 0 {
			http.Error(w, "email already registered", http.StatusBadRequest)
			return
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

		var id int
		err = dbx.QueryRow(`
			INSERT INTO users (email, name, password)
			VALUES ($1, $2, $3)
			RETURNING id
		`, body.Email, body.Name, string(hash)).Scan(&id)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// every user starts with an empty streak record
		_, _ = dbx.Exec(`INSERT INTO streaks (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id)

		token, _ := GenerateToken(secret, id)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "User registered successfully",
			"token":   token,
			"user": map[string]any{
				"id":    id,
				"email": body.Email,
				"name":  body.Name,
			},
		})
	}
}

// ------------------------------------------------------------------
// Login: POST /auth/login
// ------------------------------------------------------------------

func LoginHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var (
			id        int
			name      string
			hash      string
			createdAt time.Time
		)
		err := dbx.QueryRow(`
			SELECT id, name, password, created_at FROM users WHERE email=$1
		`, body.Email).Scan(&id, &name, &hash, &createdAt)
		if err != nil {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}

		token, _ := GenerateToken(secret, id)

		// streak summary for the login screen
		var streak map[string]any
		var (
			current, longest, totalDays int
			lastActive                  sql.NullTime
		)
		err = dbx.QueryRow(`
			SELECT current_streak, longest_streak, total_active_days, last_active_date
			FROM streaks WHERE user_id=$1
		`, id).Scan(&current, &longest, &totalDays, &lastActive)
		if err == nil {
			status := "broken"
			var lastStr any
			if lastActive.Valid {
				days := int(time.Now().UTC().Truncate(24*time.Hour).Sub(lastActive.Time.Truncate(24*time.Hour)).Hours() / 24)
				if days == 0 {
					status = "active"
				} else if days == 1 {
					status = "at_risk"
				}
				lastStr = lastActive.Time.Format("2006-01-02")
			}
			streak = map[string]any{
				"current_streak":    current,
				"longest_streak":    longest,
				"total_active_days": totalDays,
				"last_active_date":  lastStr,
				"streak_status":     status,
			}
		}

		// onboarding preferences, if the user completed onboarding
		var prefs map[string]any
		var workStyle, goal, hoursStart, hoursEnd, breakPref, challenge string
		err = dbx.QueryRow(`
			SELECT work_style, productivity_goal, work_hours_start, work_hours_end,
			       break_preference, biggest_challenge
			FROM user_preferences WHERE user_id=$1
		`, id).Scan(&workStyle, &goal, &hoursStart, &hoursEnd, &breakPref, &challenge)
		if err == nil {
			prefs = map[string]any{
				"work_style":        workStyle,
				"productivity_goal": goal,
				"work_hours_start":  hoursStart,
				"work_hours_end":    hoursEnd,
				"break_preference":  breakPref,
				"biggest_challenge": challenge,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"token":   token,
			"user": map[string]any{
				"id":         id,
				"email":      body.Email,
				"name":       name,
				"created_at": createdAt,
			},
			"streak":                   streak,
			"preferences":              prefs,
			"has_completed_onboarding": prefs != nil,
		})
	}
}

// ------------------------------------------------------------------
// Current user: GET /auth/me
// ------------------------------------------------------------------

func MeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var email, name string
		err := dbx.QueryRow(`SELECT email, name FROM users WHERE id=$1`, uid).Scan(&email, &name)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": uid,
			"email":   email,
			"name":    name,
		})
	}
}

// ------------------------------------------------------------------
// Account removal: DELETE /auth/account
// ------------------------------------------------------------------

func DeleteAccountHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tx, err := dbx.Begin()
		if err != nil {
			http.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		for _, table := range []string{
			"analytics_events", "plan_history", "schedule",
			"tasks", "streaks", "user_preferences",
		} {
			if _, err := tx.Exec(`DELETE FROM `+table+` WHERE user_id = $1`, uid); err != nil {
				http.Error(w, "delete "+table+" failed", http.StatusInternalServerError)
				return
			}
		}

		if _, err := tx.Exec(`DELETE FROM users WHERE id = $1`, uid); err != nil {
			http.Error(w, "delete user failed", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
