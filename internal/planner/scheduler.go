package planner

import (
	"math"
	"sort"
)

// DefaultDayStart is where the fallback schedule begins when no working
// hours are configured.
const DefaultDayStart = "09:00"

// ScheduleItem is one assigned slot. Start/End stay in wire format.
type ScheduleItem struct {
	Task  string `json:"task"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Schedule is the deterministic scheduler: tasks sorted by priority
// (high first) then deadline, packed back to back from dayStart. Same
// input always yields the same output; ties keep their input order.
//
// Preferred times are deliberately not honored here — only the external
// generator is asked to anchor tasks near them.
func Schedule(tasks []Task, dayStart string) []ScheduleItem {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		wi, wj := priorityWeight(sorted[i].Priority), priorityWeight(sorted[j].Priority)
		if wi != wj {
			return wi > wj
		}
		return sorted[i].Deadline.Before(sorted[j].Deadline)
	})

	h, m, err := ParseClock(dayStart)
	if err != nil {
		h, m, _ = ParseClock(DefaultDayStart)
	}

	items := make([]ScheduleItem, 0, len(sorted))
	cursor := h*60 + m
	for _, t := range sorted {
		end := cursor + int(math.Round(t.DurationHours*60))
		items = append(items, ScheduleItem{
			Task:  t.Title,
			Start: formatClock(cursor),
			End:   formatClock(end),
		})
		cursor = end
	}
	return items
}
