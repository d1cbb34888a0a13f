package db

import "database/sql"

// InitSchema creates all tables on startup, like the classic
// create-if-missing bootstrap. Safe to run on every boot.
func InitSchema(dbx *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          SERIAL PRIMARY KEY,
			email       TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL DEFAULT '',
			password    TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id                 SERIAL PRIMARY KEY,
			user_id            INT NOT NULL UNIQUE,
			work_style         TEXT NOT NULL DEFAULT '',
			productivity_goal  TEXT NOT NULL DEFAULT '',
			work_hours_start   TEXT NOT NULL DEFAULT '09:00',
			work_hours_end     TEXT NOT NULL DEFAULT '18:00',
			break_preference   TEXT NOT NULL DEFAULT '',
			biggest_challenge  TEXT NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS streaks (
			id                SERIAL PRIMARY KEY,
			user_id           INT NOT NULL UNIQUE,
			current_streak    INT NOT NULL DEFAULT 0,
			longest_streak    INT NOT NULL DEFAULT 0,
			total_active_days INT NOT NULL DEFAULT 0,
			last_active_date  DATE,
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id             SERIAL PRIMARY KEY,
			user_id        INT NOT NULL,
			title          TEXT NOT NULL,
			duration       DOUBLE PRECISION NOT NULL,
			priority       TEXT NOT NULL,
			deadline       DATE NOT NULL,
			preferred_time TEXT,
			status         TEXT NOT NULL DEFAULT 'pending',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS schedule (
			id          SERIAL PRIMARY KEY,
			user_id     INT NOT NULL,
			task_title  TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			date        DATE NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS plan_history (
			id              SERIAL PRIMARY KEY,
			user_id         INT NOT NULL,
			date            DATE NOT NULL,
			total_tasks     INT NOT NULL DEFAULT 0,
			completed_tasks INT NOT NULL DEFAULT 0,
			schedule_data   JSONB NOT NULL DEFAULT '[]'::jsonb,
			wellness_tips   TEXT[] NOT NULL DEFAULT '{}',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id               SERIAL PRIMARY KEY,
			event_name       TEXT NOT NULL,
			event_time       TIMESTAMPTZ NOT NULL,
			user_id          INT NOT NULL,
			session_id       TEXT,
			platform         TEXT,
			app_version      TEXT,
			device_locale    TEXT,
			source_event_key TEXT UNIQUE,
			properties       JSONB
		)`,
	}

	for _, s := range stmts {
		if _, err := dbx.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
