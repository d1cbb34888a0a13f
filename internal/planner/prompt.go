package planner

import "encoding/json"

// schedulingPrompt carries the full contract for the external
// generator: the schedule rules are stated explicitly because the model
// is not trusted to infer them.
const schedulingPrompt = `You are an intelligent daily planning assistant and productivity coach.

Input:
You will receive:
- A list of user tasks with title, duration (in hours), priority (high/medium/low), deadline, and PREFERRED TIME if specified.
- The user's available working hours for today.

Your job has two parts:

PART 1: Generate Daily Schedule
Create an optimized daily schedule by:
1. **IMPORTANT: If a task has a "preferred_time", schedule it at or very close to that time!**
2. Prioritizing high-priority tasks first.
3. Respecting task durations.
4. Considering deadlines.
5. Avoiding overlapping time slots.
6. Distributing workload realistically across the day.
7. Default working hours are 09:00-18:00, but respect user's preferred times even if outside this range.

PART 2: Personalized Wellness Tips Based on the Schedule
IMPORTANT: Analyze the ACTUAL TASKS in the schedule and give SPECIFIC, PERSONALIZED advice.
- If there's a "fitness" or "workout" task: suggest pre-workout hydration, stretching tips, or post-workout nutrition
- If there's a "study" or "exam" task: suggest focus techniques, break intervals, brain food
- If there's a "meeting" or "presentation" task: suggest preparation time, calming techniques
- If there's a "coding" or "development" task: suggest eye breaks, posture checks, stand-up intervals
- If workload is heavy (>6 hours of tasks): warn about overload and suggest breaks
- If tasks span long continuous hours: recommend micro-breaks
- Reference the actual task names and scheduled times in your tips!

Return the final response in this JSON format only:
{
  "schedule": [
    {"task":"Task name","start":"HH:MM","end":"HH:MM"}
  ],
  "review": [
    "Your fitness session is scheduled at 17:00 - have a light snack 30 minutes before!",
    "After the coding task at 10:00, take a 5-minute eye break.",
    "You have 3 high-priority tasks today. Great job tackling them in the morning!"
  ]
}

Do not return any explanation or extra text.
Only return valid JSON.

Tasks to schedule:
`

type promptTask struct {
	Title         string  `json:"title"`
	DurationHours float64 `json:"duration_hours"`
	Priority      string  `json:"priority"`
	Deadline      string  `json:"deadline"`
	PreferredTime string  `json:"preferred_time,omitempty"`
}

// BuildSchedulingPrompt embeds the task list into the scheduling prompt.
func BuildSchedulingPrompt(tasks []Task) string {
	entries := make([]promptTask, 0, len(tasks))
	for _, t := range tasks {
		entries = append(entries, promptTask{
			Title:         t.Title,
			DurationHours: t.DurationHours,
			Priority:      t.Priority,
			Deadline:      t.Deadline.Format("2006-01-02"),
			PreferredTime: t.PreferredTime,
		})
	}
	b, _ := json.MarshalIndent(entries, "", "  ")
	return schedulingPrompt + string(b)
}

// DefaultAdvice is returned whenever the generator supplies no tips,
// including on every fallback run.
func DefaultAdvice() []string {
	return []string{
		"💧 Remember to stay hydrated throughout the day!",
		"🚶 Take a 5-minute walk between tasks to refresh your mind.",
		"🎯 Focus on one task at a time for maximum productivity.",
	}
}
