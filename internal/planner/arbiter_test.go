package planner

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeGenerator struct {
	calls    int
	response string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testClock() (*time.Time, func() time.Time) {
	t := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &t, func() time.Time { return t }
}

func someTasks() []Task {
	return []Task{
		{Title: "Write report", DurationHours: 2, Priority: PriorityHigh, Deadline: date("2025-06-02")},
		{Title: "Email replies", DurationHours: 0.5, Priority: PriorityLow, Deadline: date("2025-06-03")},
	}
}

func TestArbiterExternalSuccess(t *testing.T) {
	gen := &fakeGenerator{response: `Here's the plan: {"schedule":[{"task":"Write report","start":"08:00","end":"10:00"}],"review":["start strong"]}`}
	_, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	res := arb.GenerateSchedule(context.Background(), someTasks())

	if res.Source != SourceExternal {
		t.Fatalf("source = %s, want external", res.Source)
	}
	if len(res.Schedule) != 1 || res.Schedule[0].Start != "08:00" {
		t.Errorf("schedule = %v, want the generated item", res.Schedule)
	}
	if len(res.Advice) != 1 || res.Advice[0] != "start strong" {
		t.Errorf("advice = %v, want [start strong]", res.Advice)
	}
}

func TestArbiterTransportErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	_, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	res := arb.GenerateSchedule(context.Background(), someTasks())

	if res.Source != SourceFallback {
		t.Fatalf("source = %s, want fallback", res.Source)
	}
	want := Schedule(someTasks(), DefaultDayStart)
	if len(res.Schedule) != len(want) {
		t.Fatalf("len(schedule) = %d, want %d", len(res.Schedule), len(want))
	}
	for i := range want {
		if res.Schedule[i] != want[i] {
			t.Errorf("schedule[%d] = %v, want %v", i, res.Schedule[i], want[i])
		}
	}
}

func TestArbiterMalformedResponseFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "I am unable to schedule anything today."}
	_, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	res := arb.GenerateSchedule(context.Background(), someTasks())
	if res.Source != SourceFallback {
		t.Errorf("source = %s, want fallback", res.Source)
	}
}

func TestArbiterEmptyScheduleFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: `{"schedule":[],"review":["nothing to do"]}`}
	_, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	res := arb.GenerateSchedule(context.Background(), someTasks())
	if res.Source != SourceFallback {
		t.Fatalf("source = %s, want fallback", res.Source)
	}
	if len(res.Schedule) == 0 {
		t.Error("fallback schedule is empty, want deterministic items")
	}
}

func TestArbiterDefaultAdviceWhenReviewMissing(t *testing.T) {
	gen := &fakeGenerator{response: `{"schedule":[{"task":"A","start":"09:00","end":"10:00"}]}`}
	_, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	res := arb.GenerateSchedule(context.Background(), someTasks())
	if res.Source != SourceExternal {
		t.Fatalf("source = %s, want external", res.Source)
	}
	if len(res.Advice) != len(DefaultAdvice()) {
		t.Errorf("advice = %v, want the default set", res.Advice)
	}
}

func TestArbiterNilGeneratorFallsBack(t *testing.T) {
	_, now := testClock()
	arb := NewArbiter(nil, NewThrottleAt(now), "")

	res := arb.GenerateSchedule(context.Background(), someTasks())
	if res.Source != SourceFallback {
		t.Errorf("source = %s, want fallback", res.Source)
	}
}

func TestArbiterCacheHitSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{response: `{"schedule":[{"task":"A","start":"09:00","end":"10:00"}]}`}
	clock, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	first := arb.GenerateSchedule(context.Background(), someTasks())
	if first.Source != SourceExternal {
		t.Fatalf("first source = %s, want external", first.Source)
	}

	// Well past the cooldown but well inside the cache TTL.
	*clock = clock.Add(10 * time.Second)
	second := arb.GenerateSchedule(context.Background(), someTasks())

	if second.Source != SourceExternal {
		t.Errorf("second source = %s, want external from cache", second.Source)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestArbiterCacheExpiryRecalls(t *testing.T) {
	gen := &fakeGenerator{response: `{"schedule":[{"task":"A","start":"09:00","end":"10:00"}]}`}
	clock, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	arb.GenerateSchedule(context.Background(), someTasks())
	*clock = clock.Add(CacheTTL + time.Second)
	arb.GenerateSchedule(context.Background(), someTasks())

	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 after TTL expiry", gen.calls)
	}
}

func TestArbiterCooldownForcesFallback(t *testing.T) {
	gen := &fakeGenerator{response: `{"schedule":[{"task":"A","start":"09:00","end":"10:00"}]}`}
	clock, now := testClock()
	arb := NewArbiter(gen, NewThrottleAt(now), "")

	arb.GenerateSchedule(context.Background(), someTasks())

	// Different tasks so the cache misses; inside the cooldown window.
	*clock = clock.Add(time.Second)
	other := []Task{{Title: "New thing", DurationHours: 1, Priority: PriorityMedium, Deadline: date("2025-06-05")}}
	res := arb.GenerateSchedule(context.Background(), other)

	if res.Source != SourceFallback {
		t.Errorf("source = %s, want fallback while throttled", res.Source)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestArbiterCustomDayStartUsedInFallback(t *testing.T) {
	_, now := testClock()
	arb := NewArbiter(nil, NewThrottleAt(now), "07:30")

	res := arb.GenerateSchedule(context.Background(), someTasks())
	if res.Schedule[0].Start != "07:30" {
		t.Errorf("first start = %s, want 07:30", res.Schedule[0].Start)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	a := someTasks()
	b := someTasks()
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("identical task lists produced different fingerprints")
	}
	b[0].PreferredTime = "morning"
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("fingerprint ignored preferred_time change")
	}
}
