package planner

import (
	"encoding/json"
	"errors"
	"strings"
)

// parsedSchedule is what survives a successful parse of a generator
// response.
type parsedSchedule struct {
	Schedule []ScheduleItem
	Review   []string
}

// parseScheduleResponse digs the first top-level JSON object out of the
// raw model output, tolerating prose around it. If no decodable object
// is found it accepts a bare bracket-delimited array (legacy shape) as
// the schedule with no advice.
func parseScheduleResponse(raw string) (*parsedSchedule, error) {
	if frag, ok := between(raw, "{", "}"); ok {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(frag), &fields); err == nil {
			if rawItems, ok := fields["schedule"]; ok {
				var items []map[string]any
				if err := json.Unmarshal(rawItems, &items); err != nil {
					return nil, err
				}
				// review is best effort: anything non-string-array is ignored
				var review []string
				if rawReview, ok := fields["review"]; ok {
					_ = json.Unmarshal(rawReview, &review)
				}
				return &parsedSchedule{Schedule: coerceItems(items), Review: review}, nil
			}
			// object without a "schedule" key: treat as a single bare item
			var single map[string]any
			_ = json.Unmarshal([]byte(frag), &single)
			return &parsedSchedule{Schedule: coerceItems([]map[string]any{single})}, nil
		}
		// the brace span was not an object, e.g. item objects inside a
		// bare array; try the array shape below
	}

	if frag, ok := between(raw, "[", "]"); ok {
		var items []map[string]any
		if err := json.Unmarshal([]byte(frag), &items); err != nil {
			return nil, err
		}
		return &parsedSchedule{Schedule: coerceItems(items)}, nil
	}

	return nil, errors.New("no JSON object or array in response")
}

// between slices the greedy first-open to last-close span, mirroring
// how the response is expected to embed exactly one JSON value.
func between(s, open, close string) (string, bool) {
	i := strings.Index(s, open)
	j := strings.LastIndex(s, close)
	if i == -1 || j == -1 || j < i {
		return "", false
	}
	return s[i : j+1], true
}

// coerceItems turns loosely-typed item maps into ScheduleItems. Missing
// or non-string fields get defaults instead of rejecting the response.
func coerceItems(raw []map[string]any) []ScheduleItem {
	items := make([]ScheduleItem, 0, len(raw))
	for _, m := range raw {
		items = append(items, ScheduleItem{
			Task:  stringField(m, "task", "Unknown Task"),
			Start: stringField(m, "start", "09:00"),
			End:   stringField(m, "end", "10:00"),
		})
	}
	return items
}

func stringField(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}
