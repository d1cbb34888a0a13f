package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors a Generator may wrap so the arbiter can classify the
// failed attempt. Classification only affects logging — every failure
// ends in the same deterministic fallback.
var (
	ErrRateLimited      = errors.New("generation rate limited")
	ErrModelUnavailable = errors.New("no generation model available")
)

// Generator is the opaque external text-generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Source string

const (
	SourceExternal Source = "external"
	SourceFallback Source = "fallback"
)

// PlanResult is a finished scheduling run: a valid, ordered schedule
// plus advice, from either the external generator or the fallback.
type PlanResult struct {
	Schedule []ScheduleItem `json:"schedule"`
	Advice   []string       `json:"review"`
	Source   Source         `json:"source"`
}

// generationAttempt exists only for the duration of one call and feeds
// the warn line when the external path is abandoned.
type generationAttempt struct {
	id          string
	fingerprint string
	outcome     string // success | malformed | rate_limited | transport_error | model_unavailable | empty
}

// Arbiter decides between the external generator's schedule and the
// deterministic one. It never fails: a bad, slow, throttled or missing
// generator degrades to Schedule().
type Arbiter struct {
	gen      Generator
	throttle *GenerationThrottle
	dayStart string
}

// NewArbiter wires an arbiter. gen may be nil (no API key configured) —
// every run is then a fallback run. dayStart "" means DefaultDayStart.
func NewArbiter(gen Generator, throttle *GenerationThrottle, dayStart string) *Arbiter {
	if dayStart == "" {
		dayStart = DefaultDayStart
	}
	return &Arbiter{gen: gen, throttle: throttle, dayStart: dayStart}
}

// GenerateSchedule produces the day plan for tasks. The returned
// schedule replaces, never merges with, whatever the caller stored for
// the day.
func (a *Arbiter) GenerateSchedule(ctx context.Context, tasks []Task) PlanResult {
	attempt := generationAttempt{
		id:          uuid.New().String()[:8],
		fingerprint: Fingerprint(tasks),
	}

	if v, ok := a.throttle.Lookup(attempt.fingerprint); ok {
		if cached, ok := v.(*parsedSchedule); ok {
			return PlanResult{
				Schedule: cached.Schedule,
				Advice:   adviceOrDefault(cached.Review),
				Source:   SourceExternal,
			}
		}
	}

	parsed, err := a.callExternal(ctx, tasks, &attempt)
	if err != nil {
		log.Printf("[WARN] ai scheduling failed (attempt=%s outcome=%s), using fallback: %v",
			attempt.id, attempt.outcome, err)
		return PlanResult{
			Schedule: Schedule(tasks, a.dayStart),
			Advice:   DefaultAdvice(),
			Source:   SourceFallback,
		}
	}

	a.throttle.Store(attempt.fingerprint, parsed)
	return PlanResult{
		Schedule: parsed.Schedule,
		Advice:   adviceOrDefault(parsed.Review),
		Source:   SourceExternal,
	}
}

func (a *Arbiter) callExternal(ctx context.Context, tasks []Task, attempt *generationAttempt) (*parsedSchedule, error) {
	if a.gen == nil {
		attempt.outcome = "transport_error"
		return nil, errors.New("no generator configured")
	}
	if !a.throttle.AllowCall() {
		attempt.outcome = "rate_limited"
		return nil, ErrRateLimited
	}

	a.throttle.MarkCall()
	raw, err := a.gen.Generate(ctx, BuildSchedulingPrompt(tasks))
	if err != nil {
		switch {
		case errors.Is(err, ErrRateLimited):
			attempt.outcome = "rate_limited"
		case errors.Is(err, ErrModelUnavailable):
			attempt.outcome = "model_unavailable"
		default:
			attempt.outcome = "transport_error"
		}
		return nil, err
	}

	parsed, err := parseScheduleResponse(raw)
	if err != nil {
		attempt.outcome = "malformed"
		return nil, err
	}
	if len(parsed.Schedule) == 0 {
		attempt.outcome = "empty"
		return nil, errors.New("generator returned no schedule items")
	}

	attempt.outcome = "success"
	return parsed, nil
}

func adviceOrDefault(review []string) []string {
	if len(review) == 0 {
		return DefaultAdvice()
	}
	return review
}

// Fingerprint derives the cache key for a task list from every field
// that shapes the prompt.
func Fingerprint(tasks []Task) string {
	var b strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&b, "%s|%g|%s|%s|%s;",
			t.Title, t.DurationHours, t.Priority,
			t.Deadline.Format("2006-01-02"), t.PreferredTime)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
