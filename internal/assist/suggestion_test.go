package assist

import (
	"strings"
	"testing"
)

func TestCannedSuggestion(t *testing.T) {
	tests := []struct {
		name   string
		counts taskCounts
		hour   int
		want   string
	}{
		{"overdue wins", taskCounts{Total: 5, Pending: 5, Overdue: 2, HighPending: 3}, 10, "2 overdue tasks"},
		{"single overdue not pluralized", taskCounts{Total: 2, Pending: 2, Overdue: 1}, 10, "1 overdue task!"},
		{"high priority next", taskCounts{Total: 5, Pending: 3, HighPending: 2}, 10, "high-priority task"},
		{"all done", taskCounts{Total: 4, Completed: 4}, 10, "All tasks completed"},
		{"many pending", taskCounts{Total: 9, Pending: 7}, 10, "Pomodoro"},
		{"morning", taskCounts{Total: 3, Pending: 2}, 9, "Morning"},
		{"afternoon", taskCounts{Total: 3, Pending: 2}, 14, "Afternoon"},
		{"evening", taskCounts{Total: 3, Pending: 2}, 20, "Evening"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cannedSuggestion(tc.counts, tc.hour)
			if !strings.Contains(got, tc.want) {
				t.Errorf("cannedSuggestion() = %q, want mention of %q", got, tc.want)
			}
		})
	}
}

func TestCannedSummary(t *testing.T) {
	tests := []struct {
		name   string
		counts taskCounts
		want   string
	}{
		{"empty account", taskCounts{}, "Welcome"},
		{"strong rate", taskCounts{Total: 10, Completed: 9, Pending: 1}, "Outstanding"},
		{"decent rate", taskCounts{Total: 10, Completed: 6, Pending: 4}, "Great progress"},
		{"overdue below half", taskCounts{Total: 10, Completed: 2, Pending: 8, Overdue: 3}, "overdue tasks"},
		{"slow start", taskCounts{Total: 10, Completed: 1, Pending: 9}, "high-priority"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cannedSummary(tc.counts)
			if !strings.Contains(got, tc.want) {
				t.Errorf("cannedSummary() = %q, want mention of %q", got, tc.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	if got := (taskCounts{}).completionRate(); got != 0 {
		t.Errorf("completionRate() = %v for no tasks, want 0", got)
	}
	if got := (taskCounts{Total: 4, Completed: 3}).completionRate(); got != 75 {
		t.Errorf("completionRate() = %v, want 75", got)
	}
}
