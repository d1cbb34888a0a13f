package seed

import (
	"database/sql"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoEmail    = "demo@smartplanner.com"
	demoPassword = "demo123"
)

var demoTips = [][]string{
	{"Take a 5-minute stretch break every hour", "Stay hydrated - aim for 8 glasses of water"},
	{"Practice deep breathing during transitions", "Take a short walk after lunch"},
	{"Do eye exercises every 2 hours", "Stand and stretch between meetings"},
	{"Try the 20-20-20 rule for eye health", "Get some natural light exposure"},
}

type demoTask struct {
	title    string
	priority string
	duration float64
	status   string
}

var demoTasks = []demoTask{
	{"Review quarterly metrics dashboard", "high", 2.0, "pending"},
	{"Finalize MVP feature list", "high", 1.5, "pending"},
	{"Team 1:1 meetings", "medium", 1.0, "completed"},
	{"Update sprint backlog", "medium", 0.5, "completed"},
	{"Research AI integration options", "high", 2.0, "pending"},
	{"Fix mobile responsiveness issues", "medium", 1.0, "completed"},
	{"Prepare demo presentation", "high", 1.5, "pending"},
	{"Code documentation", "low", 1.0, "pending"},
}

var demoSchedule = [][3]string{
	{"Morning standup", "09:00", "09:30"},
	{"Deep work: Feature development", "09:30", "12:00"},
	{"Lunch break", "12:00", "13:00"},
	{"Code review session", "13:00", "14:30"},
	{"Client meeting", "14:30", "15:30"},
	{"Documentation update", "15:30", "16:30"},
	{"Email & Slack catchup", "16:30", "17:00"},
	{"End of day review", "17:00", "17:30"},
}

// IfEmpty seeds a demo account when the users table is empty, and
// keeps the demo streak fresh across restarts so the account always
// looks alive.
func IfEmpty(dbx *sql.DB) error {
	var count int
	if err := dbx.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return refreshDemoStreak(dbx)
	}

	log.Println("🌱 Seeding demo data...")

	hash, _ := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	var uid int
	err := dbx.QueryRow(`
		INSERT INTO users (email, name, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`, demoEmail, "Alex Johnson", string(hash)).Scan(&uid)
	if err != nil {
		return err
	}

	_, err = dbx.Exec(`
		INSERT INTO user_preferences (
			user_id, work_style, productivity_goal,
			work_hours_start, work_hours_end,
			break_preference, biggest_challenge
		)
		VALUES ($1, 'early_bird', 'focus', '08:00', '18:00', 'pomodoro', 'distractions')
	`, uid)
	if err != nil {
		return err
	}

	today := time.Now().UTC().Format("2006-01-02")
	_, err = dbx.Exec(`
		INSERT INTO streaks (user_id, current_streak, longest_streak, total_active_days, last_active_date)
		VALUES ($1, 21, 21, 45, $2)
	`, uid, today)
	if err != nil {
		return err
	}

	for _, t := range demoTasks {
		if _, err := dbx.Exec(`
			INSERT INTO tasks (user_id, title, duration, priority, deadline, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uid, t.title, t.duration, t.priority, today, t.status); err != nil {
			return err
		}
	}

	for _, s := range demoSchedule {
		if _, err := dbx.Exec(`
			INSERT INTO schedule (user_id, task_title, start_time, end_time, date)
			VALUES ($1, $2, $3, $4, $5)
		`, uid, s[0], s[1], s[2], today); err != nil {
			return err
		}
	}

	if err := seedHistory(dbx, uid); err != nil {
		return err
	}

	log.Printf("✅ Demo data seeded (user: %s, password: %s)", demoEmail, demoPassword)
	return nil
}

func seedHistory(dbx *sql.DB, uid int) error {
	sample, _ := json.Marshal([]map[string]string{
		{"task": "Morning standup", "start": "09:00", "end": "09:30"},
		{"task": "Deep work session", "start": "09:30", "end": "12:00"},
		{"task": "Code review", "start": "13:00", "end": "14:30"},
	})

	for i := 0; i < 7; i++ {
		day := time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")
		total := 6 + rand.Intn(5)
		completed := 5 + rand.Intn(total-4)
		tips := demoTips[rand.Intn(len(demoTips))]

		_, err := dbx.Exec(`
			INSERT INTO plan_history (user_id, date, total_tasks, completed_tasks, schedule_data, wellness_tips)
			VALUES ($1, $2, $3, $4, $5::jsonb, $6)
			ON CONFLICT (user_id, date) DO NOTHING
		`, uid, day, total, completed, string(sample), pq.Array(tips))
		if err != nil {
			return err
		}
	}
	return nil
}

// refreshDemoStreak keeps the demo user's 21-day streak current so it
// never shows as broken at a presentation.
func refreshDemoStreak(dbx *sql.DB) error {
	var uid int
	err := dbx.QueryRow(`SELECT id FROM users WHERE email=$1`, demoEmail).Scan(&uid)
	if err != nil {
		// no demo user — nothing to refresh
		return nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	_, err = dbx.Exec(`
		UPDATE streaks
		SET current_streak=21, longest_streak=21, total_active_days=45,
		    last_active_date=$1, updated_at=now()
		WHERE user_id=$2
	`, today, uid)
	if err == nil {
		log.Println("✅ Demo user streak refreshed")
	}
	return err
}
