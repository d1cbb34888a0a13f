package assist

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"smart-planner-backend/internal/planner"
)

type Subtask struct {
	Subtask         string `json:"subtask"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ------------------------------------------------------------------
// Task breakdown: POST /ai-breakdown
// ------------------------------------------------------------------

// BreakdownHandler splits a complex task into 3-5 actionable subtasks
// with time estimates. Without a generator (or when it fails) the
// subtasks come from per-category templates keyed on the task title.
func BreakdownHandler(gen planner.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TaskTitle string `json:"task_title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.TaskTitle = strings.TrimSpace(body.TaskTitle)
		if body.TaskTitle == "" {
			http.Error(w, "task_title required", http.StatusBadRequest)
			return
		}

		var subtasks []Subtask
		if gen != nil {
			var err error
			subtasks, err = breakdownExternal(r, gen, body.TaskTitle)
			if err != nil {
				log.Printf("[WARN] ai breakdown failed: %v", err)
			}
		}
		if len(subtasks) == 0 {
			subtasks = templateSubtasks(body.TaskTitle)
		}

		total := 0
		for _, s := range subtasks {
			total += s.DurationMinutes
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"original_task":           body.TaskTitle,
			"subtasks":                subtasks,
			"total_estimated_minutes": total,
			"recommendation": fmt.Sprintf(
				"This task can be completed in approximately %d minutes if you focus on one subtask at a time.", total),
		})
	}
}

func breakdownExternal(r *http.Request, gen planner.Generator, title string) ([]Subtask, error) {
	prompt := fmt.Sprintf(`Break down this task into 3-5 actionable subtasks with time estimates.
For each subtask, provide a clear, specific title and estimated duration in minutes (be realistic).

Output ONLY valid JSON array like:
[{"subtask": "Subtask name", "duration_minutes": 30}]

Task to break down: %s`, title)

	raw, err := gen.Generate(r.Context(), prompt)
	if err != nil {
		return nil, err
	}

	frag, ok := jsonSpan(raw, "[", "]")
	if !ok {
		frag = raw
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(frag), &items); err != nil {
		return nil, err
	}
	return coerceSubtasks(items), nil
}

// coerceSubtasks tolerates missing or non-numeric durations; an
// unspecified estimate counts as 30 minutes.
func coerceSubtasks(items []map[string]any) []Subtask {
	out := make([]Subtask, 0, len(items))
	for _, m := range items {
		s := Subtask{DurationMinutes: 30}
		if name, ok := m["subtask"].(string); ok {
			s.Subtask = name
		}
		if d, ok := m["duration_minutes"].(float64); ok {
			s.DurationMinutes = int(d)
		}
		out = append(out, s)
	}
	return out
}

func templateSubtasks(title string) []Subtask {
	lower := strings.ToLower(title)

	switch {
	case containsAny(lower, "write", "essay", "report", "document"):
		return []Subtask{
			{"Research and gather information", 30},
			{"Create outline and structure", 15},
			{"Write first draft", 45},
			{"Review and edit", 20},
			{"Final proofread and submit", 10},
		}
	case containsAny(lower, "code", "develop", "build", "implement", "program"):
		return []Subtask{
			{"Plan and design solution", 20},
			{"Set up environment/dependencies", 15},
			{"Implement core functionality", 45},
			{"Test and debug", 25},
			{"Review and refactor", 15},
		}
	case containsAny(lower, "study", "learn", "read"):
		return []Subtask{
			{"Preview material and set goals", 10},
			{"Active reading/studying session 1", 25},
			{"Take a short break", 5},
			{"Active reading/studying session 2", 25},
			{"Review and summarize key points", 15},
		}
	case containsAny(lower, "meeting", "present", "prepare"):
		return []Subtask{
			{"Define objectives and agenda", 15},
			{"Gather necessary materials", 20},
			{"Create presentation/notes", 30},
			{"Practice and rehearse", 15},
		}
	default:
		return []Subtask{
			{"Plan approach for: " + title, 15},
			{"Gather required resources", 10},
			{"Work on main task", 40},
			{"Review and finalize", 15},
		}
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
