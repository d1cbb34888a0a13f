package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"smart-planner-backend/internal/ai"
	"smart-planner-backend/internal/analytics"
	"smart-planner-backend/internal/assist"
	"smart-planner-backend/internal/auth"
	"smart-planner-backend/internal/chat"
	"smart-planner-backend/internal/config"
	"smart-planner-backend/internal/db"
	"smart-planner-backend/internal/history"
	"smart-planner-backend/internal/planner"
	"smart-planner-backend/internal/prefs"
	"smart-planner-backend/internal/schedule"
	"smart-planner-backend/internal/seed"
	"smart-planner-backend/internal/streaks"
	"smart-planner-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	if err := db.InitSchema(database); err != nil {
		log.Fatal("❌ Failed to init schema:", err)
	}

	if err := seed.IfEmpty(database); err != nil {
		log.Printf("[WARN] demo seed failed: %v", err)
	}

	// AI wiring: without a key every scheduling run is a fallback run
	var gen planner.Generator
	if cfg.GeminiKey != "" {
		client := ai.New(cfg.GeminiKey)
		if cfg.GeminiBaseURL != "" {
			client.BaseURL = cfg.GeminiBaseURL
		}
		gen = client
		log.Println("✅ Gemini API key detected")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set — schedules will use the deterministic fallback")
	}

	throttle := planner.NewThrottle()
	arbiter := planner.NewArbiter(gen, throttle, cfg.DayStart)

	secret := []byte(cfg.JWTSecret)
	mw := auth.New(secret)

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","message":"Smart Daily Planner API is running!"}`))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"healthy","database":"connected","gemini_configured":%t}`,
			cfg.GeminiKey != "")
	})

	// ----- AUTH API -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("GET /auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("DELETE /auth/account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- TASKS API -----
	mux.HandleFunc("POST /tasks", mw.Wrap(tasks.CreateTaskHandler(database)))
	mux.HandleFunc("GET /tasks", mw.Wrap(tasks.ListTasksHandler(database)))
	mux.HandleFunc("GET /tasks/{id}", mw.Wrap(tasks.GetTaskHandler(database)))
	mux.HandleFunc("PATCH /tasks/{id}", mw.Wrap(tasks.UpdateTaskStatusHandler(database)))
	mux.HandleFunc("DELETE /tasks/{id}", mw.Wrap(tasks.DeleteTaskHandler(database)))

	// ----- SCHEDULING API -----
	mux.HandleFunc("POST /generate-schedule", mw.Wrap(schedule.GenerateScheduleHandler(database, arbiter)))
	mux.HandleFunc("GET /schedule", mw.Wrap(schedule.GetScheduleHandler(database)))

	// ----- ONBOARDING / PREFERENCES -----
	mux.HandleFunc("POST /preferences", mw.Wrap(prefs.SavePreferencesHandler(database)))
	mux.HandleFunc("GET /preferences", mw.Wrap(prefs.GetPreferencesHandler(database)))

	// ----- STREAKS -----
	mux.HandleFunc("GET /streak", mw.Wrap(streaks.GetStreakHandler(database)))
	mux.HandleFunc("POST /streak/checkin", mw.Wrap(streaks.CheckinHandler(database)))

	// ----- PLAN HISTORY -----
	mux.HandleFunc("GET /history", mw.Wrap(history.GetHistoryHandler(database)))
	mux.HandleFunc("POST /history", mw.Wrap(history.SaveHistoryHandler(database)))

	// ----- AI CHAT & STATS -----
	mux.HandleFunc("POST /ai-chat", mw.Wrap(chat.ChatHandler(gen, throttle)))
	mux.HandleFunc("GET /stats", mw.Wrap(analytics.StatsHandler(database)))
	mux.HandleFunc("GET /stats/detailed", mw.Wrap(analytics.DetailedStatsHandler(database)))

	// ----- AI ASSIST -----
	mux.HandleFunc("POST /ai-suggest-priority", mw.Wrap(assist.SuggestPriorityHandler(gen, throttle)))
	mux.HandleFunc("POST /ai-breakdown", mw.Wrap(assist.BreakdownHandler(gen)))
	mux.HandleFunc("POST /ai-goal-recommendations", mw.Wrap(assist.GoalRecommendationsHandler(gen)))
	mux.HandleFunc("POST /smart-suggestion", mw.Wrap(assist.SmartSuggestionHandler(database, gen)))
	mux.HandleFunc("GET /daily-summary", mw.Wrap(assist.DailySummaryHandler(database, gen)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("🚀 API server is running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
