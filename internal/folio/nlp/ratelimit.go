package nlp

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the number of model calls allowed per session per
	// minute when no explicit limit is configured.
	DefaultRateLimit = 20

	defaultRateLimitWindow = time.Minute
)

// RateLimiter enforces a per-session sliding-window limit on model calls.
// Stale timestamps are pruned on every Allow, so memory stays at O(limit)
// per active session.
//
// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	counters map[string][]time.Time // session ID → call timestamps in window
}

// NewRateLimiter allows at most limit calls per session within window.
// Non-positive arguments select the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		counters: make(map[string][]time.Time),
	}
}

// WithClock replaces the time source. Intended for tests.
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

// Allow records a call for session and reports whether it was within the
// limit. A refused call is not recorded.
func (r *RateLimiter) Allow(session string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	valid := r.prune(session, now)
	if len(valid) >= r.limit {
		r.counters[session] = valid
		return false
	}
	r.counters[session] = append(valid, now)
	return true
}

// Remaining returns how many calls session can still make in the current
// window.
func (r *RateLimiter) Remaining(session string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	valid := r.prune(session, r.now())
	r.counters[session] = valid
	if rem := r.limit - len(valid); rem > 0 {
		return rem
	}
	return 0
}

func (r *RateLimiter) prune(session string, now time.Time) []time.Time {
	cutoff := now.Add(-r.window)
	existing := r.counters[session]
	valid := existing[:0]
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}
