package planner

import (
	"sync"
	"time"
)

const (
	// MinCallInterval is the cooldown between external generation calls.
	MinCallInterval = 2 * time.Second
	// CacheTTL is how long a cached generation result stays valid.
	CacheTTL = 300 * time.Second
)

type cacheEntry struct {
	insertedAt time.Time
	value      any
}

// GenerationThrottle is shared by every call site that talks to the
// external generator: a permit/deny cooldown between calls plus a
// short-lived response cache. A denied call does not queue — the caller
// routes to the deterministic fallback instead.
type GenerationThrottle struct {
	mu          sync.Mutex
	lastCall    time.Time
	cache       map[string]cacheEntry
	minInterval time.Duration
	ttl         time.Duration
	now         func() time.Time
}

func NewThrottle() *GenerationThrottle {
	return &GenerationThrottle{
		cache:       map[string]cacheEntry{},
		minInterval: MinCallInterval,
		ttl:         CacheTTL,
		now:         time.Now,
	}
}

// NewThrottleAt builds a throttle with an injected clock, for tests.
func NewThrottleAt(now func() time.Time) *GenerationThrottle {
	t := NewThrottle()
	t.now = now
	return t
}

// AllowCall reports whether enough time has passed since the last
// external call.
func (g *GenerationThrottle) AllowCall() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Sub(g.lastCall) >= g.minInterval
}

// MarkCall records that an external call was just made.
func (g *GenerationThrottle) MarkCall() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastCall = g.now()
}

// Lookup returns the cached value for key if it is still fresh. Stale
// entries are simply skipped; there is no active eviction.
func (g *GenerationThrottle) Lookup(key string) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.cache[key]
	if !ok || g.now().Sub(e.insertedAt) >= g.ttl {
		return nil, false
	}
	return e.value, true
}

// Store caches a generation result under key, overwriting any previous
// entry.
func (g *GenerationThrottle) Store(key string, value any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache[key] = cacheEntry{insertedAt: g.now(), value: value}
}
