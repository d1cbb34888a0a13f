package assist

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"smart-planner-backend/internal/planner"
)

type Goal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var roleGoals = map[string][]Goal{
	"student": {
		{"Maintain study schedule", "Consistent study times improve retention and reduce stress"},
		{"Balance academics and rest", "Prevent burnout with proper breaks"},
		{"Complete assignments early", "Avoid last-minute stress and improve quality"},
		{"Review notes daily", "Reinforce learning through spaced repetition"},
	},
	"professional": {
		{"Prioritize high-impact tasks", "Focus on work that drives results"},
		{"Maintain work-life boundaries", "Protect personal time for sustainability"},
		{"Block deep work sessions", "Uninterrupted focus time for complex tasks"},
		{"End-of-day planning", "Review today and prepare for tomorrow"},
	},
	"freelancer": {
		{"Track billable hours", "Maximize income and identify time sinks"},
		{"Set client boundaries", "Protect your schedule from scope creep"},
		{"Batch similar tasks", "Reduce context switching overhead"},
		{"Schedule admin time", "Don't let invoicing and emails pile up"},
	},
}

// ------------------------------------------------------------------
// Goal recommendations: POST /ai-goal-recommendations
// ------------------------------------------------------------------

// GoalRecommendationsHandler suggests four productivity goals tuned to
// the user's role and daily hours; unknown roles get the professional
// set.
func GoalRecommendationsHandler(gen planner.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Role      string `json:"role"`
			WorkHours int    `json:"work_hours"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.Role = strings.TrimSpace(body.Role)
		if body.Role == "" {
			http.Error(w, "role required", http.StatusBadRequest)
			return
		}
		if body.WorkHours == 0 {
			body.WorkHours = 8
		}

		var goals []Goal
		if gen != nil {
			var err error
			goals, err = recommendExternal(r, gen, body.Role, body.WorkHours)
			if err != nil {
				log.Printf("[WARN] ai goal recommendations failed: %v", err)
			}
		}
		if len(goals) == 0 {
			goals = goalsForRole(body.Role)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"role":            body.Role,
			"recommendations": goals,
			"ai_generated":    gen != nil,
			"timestamp":       time.Now().UTC(),
		})
	}
}

func recommendExternal(r *http.Request, gen planner.Generator, role string, workHours int) ([]Goal, error) {
	prompt := fmt.Sprintf(`You are a productivity coach. Based on the user's profile, suggest 4 personalized productivity goals.

User Profile:
- Role: %s
- Daily working hours: %d hours

For each goal, provide:
1. A clear, actionable goal title (short)
2. A brief description of why it's important

Output ONLY valid JSON array like:
[{"title": "Goal title", "description": "Why this goal matters"}]

Make goals specific to their role and realistic for their schedule.`, role, workHours)

	raw, err := gen.Generate(r.Context(), prompt)
	if err != nil {
		return nil, err
	}

	frag, ok := jsonSpan(raw, "[", "]")
	if !ok {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var goals []Goal
	if err := json.Unmarshal([]byte(frag), &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func goalsForRole(role string) []Goal {
	if goals, ok := roleGoals[role]; ok {
		return goals
	}
	return roleGoals["professional"]
}
