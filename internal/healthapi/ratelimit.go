package healthapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Default limits applied until the API reports its own
const (
	defaultMinuteLimit = 60
	defaultDailyLimit  = 5000
	defaultMinInterval = 50 * time.Millisecond
)

// window tracks usage of one rate-limit window
type window struct {
	limit    int
	usage    int
	length   time.Duration
	resetsAt time.Time
}

func (w *window) roll(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = now.Add(w.length)
	}
}

// RateLimiter keeps request volume within the API's per-minute and daily quotas
type RateLimiter struct {
	mu sync.Mutex

	minute window
	daily  window

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time

	now func() time.Time
}

// NewRateLimiter creates a rate limiter with the default quotas
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		minute:      window{limit: defaultMinuteLimit, length: time.Minute, resetsAt: now.Add(time.Minute)},
		daily:       window{limit: defaultDailyLimit, length: 24 * time.Hour, resetsAt: now.Add(24 * time.Hour)},
		minInterval: defaultMinInterval,
		now:         time.Now,
	}
}

// Wait blocks until a request can be made without exceeding rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range []*window{&r.minute, &r.daily} {
		w.roll(r.now())
		if w.usage < w.limit {
			continue
		}
		if err := r.sleep(ctx, w.resetsAt.Sub(r.now())); err != nil {
			return err
		}
		w.usage = 0
		w.resetsAt = r.now().Add(w.length)
	}

	// Enforce minimum interval between requests
	if elapsed := r.now().Sub(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.minute.usage++
	r.daily.usage++
	r.lastRequest = r.now()

	return nil
}

// sleep waits for d with the lock released. Must be called with r.mu held.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r.mu.Unlock()
	defer r.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders updates rate limit state from response headers.
// The API returns X-RateLimit-Limit: "60,5000" and X-RateLimit-Remaining: "12,4100"
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	minuteLimit, dailyLimit, okLimit := parsePair(h.Get("X-RateLimit-Limit"))
	if okLimit {
		r.minute.limit = minuteLimit
		r.daily.limit = dailyLimit
	}

	if minuteLeft, dailyLeft, ok := parsePair(h.Get("X-RateLimit-Remaining")); ok {
		r.minute.usage = r.minute.limit - minuteLeft
		r.daily.usage = r.daily.limit - dailyLeft
	}
}

// Status returns the remaining requests in each window
func (r *RateLimiter) Status() (minuteRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minute.limit - r.minute.usage, r.daily.limit - r.daily.usage
}

func parsePair(v string) (int, int, bool) {
	first, second, found := strings.Cut(v, ",")
	if !found {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(first))
	b, errB := strconv.Atoi(strings.TrimSpace(second))
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}
