package planner

import (
	"errors"
	"testing"
	"time"
)

func validTask() Task {
	return Task{
		Title:         "Write report",
		DurationHours: 2,
		Priority:      PriorityHigh,
		Deadline:      date("2025-06-01"),
	}
}

func TestTaskValidate_OK(t *testing.T) {
	if err := validTask().Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	withPref := validTask()
	withPref.PreferredTime = "14:00"
	if err := withPref.Validate(); err != nil {
		t.Fatalf("Validate() with preferred time error: %v", err)
	}
}

func TestTaskValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Task)
		field  string
	}{
		{"empty title", func(x *Task) { x.Title = "  " }, "title"},
		{"zero duration", func(x *Task) { x.DurationHours = 0 }, "duration"},
		{"negative duration", func(x *Task) { x.DurationHours = -1 }, "duration"},
		{"unknown priority", func(x *Task) { x.Priority = "urgent" }, "priority"},
		{"no deadline", func(x *Task) { x.Deadline = time.Time{} }, "deadline"},
		{"bad preferred time", func(x *Task) { x.PreferredTime = "25:99" }, "preferred_time"},
		{"preferred time not a clock", func(x *Task) { x.PreferredTime = "noonish" }, "preferred_time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mutate(&task)
			err := task.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error type %T, want *ValidationError", err)
			}
			if tc.field != "" && verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("14:05")
	if err != nil {
		t.Fatalf("ParseClock() error: %v", err)
	}
	if h != 14 || m != 5 {
		t.Errorf("ParseClock(14:05) = %d:%d, want 14:5", h, m)
	}

	for _, bad := range []string{"", "14", "14:5:0", "24:00", "12:60", "ab:cd", "-1:30"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) = nil error, want failure", bad)
		}
	}
}

func TestFormatClock_PastMidnight(t *testing.T) {
	if got := formatClock(25*60 + 30); got != "25:30" {
		t.Errorf("formatClock = %s, want 25:30", got)
	}
	if got := formatClock(9 * 60); got != "09:00" {
		t.Errorf("formatClock = %s, want 09:00", got)
	}
}
