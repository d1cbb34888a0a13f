package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DAY_START", "")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, want 5432", cfg.DBPort)
	}
	if cfg.JWTSecret == "" {
		t.Error("JWTSecret is empty, want fallback secret")
	}
	if cfg.DayStart != "09:00" {
		t.Errorf("DayStart = %s, want 09:00", cfg.DayStart)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DAY_START", "07:00")
	t.Setenv("GEMINI_API_KEY", "key-123")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.DBPort != 5433 {
		t.Errorf("DBPort = %d, want 5433", cfg.DBPort)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %s, want s3cret", cfg.JWTSecret)
	}
	if cfg.DayStart != "07:00" {
		t.Errorf("DayStart = %s, want 07:00", cfg.DayStart)
	}
	if cfg.GeminiKey != "key-123" {
		t.Errorf("GeminiKey = %s, want key-123", cfg.GeminiKey)
	}
}

func TestConnString(t *testing.T) {
	cfg := &Config{DBHost: "localhost", DBPort: 5432, DBUser: "app", DBPassword: "pw", DBName: "planner"}
	got := cfg.ConnString()
	want := "host=localhost port=5432 user=app password=pw dbname=planner sslmode=disable"
	if got != want {
		t.Errorf("ConnString() = %q, want %q", got, want)
	}
}
