package planner

import (
	"testing"
	"time"
)

func TestThrottleGateInterval(t *testing.T) {
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	th := NewThrottleAt(func() time.Time { return clock })

	if !th.AllowCall() {
		t.Fatal("AllowCall() = false before any call, want true")
	}
	th.MarkCall()

	if th.AllowCall() {
		t.Error("AllowCall() = true immediately after MarkCall, want false")
	}

	clock = clock.Add(MinCallInterval - time.Millisecond)
	if th.AllowCall() {
		t.Error("AllowCall() = true just inside the cooldown, want false")
	}

	clock = clock.Add(time.Millisecond)
	if !th.AllowCall() {
		t.Error("AllowCall() = false at the cooldown boundary, want true")
	}
}

func TestThrottleCacheTTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	th := NewThrottleAt(func() time.Time { return clock })

	th.Store("k", "v")

	if v, ok := th.Lookup("k"); !ok || v != "v" {
		t.Fatalf("Lookup() = %v, %v, want v, true", v, ok)
	}

	clock = clock.Add(CacheTTL - time.Second)
	if _, ok := th.Lookup("k"); !ok {
		t.Error("Lookup() miss just inside TTL, want hit")
	}

	clock = clock.Add(time.Second)
	if _, ok := th.Lookup("k"); ok {
		t.Error("Lookup() hit at TTL, want miss")
	}
}

func TestThrottleMissingKey(t *testing.T) {
	th := NewThrottle()
	if _, ok := th.Lookup("absent"); ok {
		t.Error("Lookup() hit for unknown key, want miss")
	}
}

func TestThrottleStoreOverwrites(t *testing.T) {
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	th := NewThrottleAt(func() time.Time { return clock })

	th.Store("k", "old")
	clock = clock.Add(CacheTTL - time.Second)
	th.Store("k", "new")

	clock = clock.Add(2 * time.Second)
	v, ok := th.Lookup("k")
	if !ok {
		t.Fatal("Lookup() miss after overwrite, want hit with refreshed TTL")
	}
	if v != "new" {
		t.Errorf("Lookup() = %v, want new", v)
	}
}
