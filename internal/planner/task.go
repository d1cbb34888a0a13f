package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority levels accepted on a task.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is the schedulable unit. Immutable once handed to the scheduler.
type Task struct {
	Title         string
	DurationHours float64
	Priority      string
	Deadline      time.Time // date only
	PreferredTime string    // "HH:MM", empty when the user has no preference
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Validate checks the construction invariants. All failures are
// *ValidationError and are the only errors surfaced to callers.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if t.DurationHours <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be > 0"}
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	if t.Deadline.IsZero() {
		return &ValidationError{Field: "deadline", Reason: "required"}
	}
	if t.PreferredTime != "" {
		if _, _, err := ParseClock(t.PreferredTime); err != nil {
			return &ValidationError{Field: "preferred_time", Reason: "must be HH:MM"}
		}
	}
	return nil
}

func priorityWeight(p string) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParseClock parses a same-day "HH:MM" clock time.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hour, minute, nil
}

// formatClock renders a minute count as HH:MM. Counts past midnight are
// kept as-is (25:30 etc.) — the scheduler never clamps at end of day.
func formatClock(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}
