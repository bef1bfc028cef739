// Package throttle paces outbound API calls with a rate limit that adapts to
// how the remote side answers. Calls are made once: a rejected call lowers
// the rate for the next ones but is never repeated.
package throttle

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdaptiveLimiter raises its rate on success and cuts it when the remote side
// reports overload. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	cooldown  time.Duration
	lastError time.Time
	now       func() time.Time
	classify  Classifier
}

type Option func(*AdaptiveLimiter)

// WithCooldown is how long after an overload the rate stays put.
func WithCooldown(d time.Duration) Option {
	return func(a *AdaptiveLimiter) { a.cooldown = d }
}

func WithClassifier(c Classifier) Option {
	return func(a *AdaptiveLimiter) { a.classify = c }
}

func WithClock(now func() time.Time) Option {
	return func(a *AdaptiveLimiter) { a.now = now }
}

// NewAdaptiveLimiter starts at initial requests per second and stays within
// [lo, hi]. stepUp is added on success, stepDown multiplies the rate on
// overload.
func NewAdaptiveLimiter(initial, lo, hi rate.Limit, stepUp rate.Limit, stepDown float64, opts ...Option) *AdaptiveLimiter {
	lo = max(lo, 1)
	hi = max(hi, lo)
	initial = min(max(initial, lo), hi)
	a := &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max(1, int(initial))),
		minLimit: lo,
		maxLimit: hi,
		stepUp:   stepUp,
		stepDown: stepDown,
		cooldown: 10 * time.Second,
		now:      time.Now,
		classify: DefaultClassifier,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Wait blocks until a token is available or the context is canceled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless an overload happened within the cooldown.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.now().Sub(a.lastError) > a.cooldown {
		a.adjustLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited cuts the rate after an overload answer.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = a.now()
	a.adjustLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// Do waits for a token and calls fn once, adapting the rate to its result.
func (a *AdaptiveLimiter) Do(ctx context.Context, fn func() error) error {
	if err := a.Wait(ctx); err != nil {
		return err
	}
	err := fn()
	switch {
	case err == nil:
		a.Success()
	case a.classify(err):
		a.RateLimited()
	}
	return err
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

// CurrentBurst returns the current burst size.
func (a *AdaptiveLimiter) CurrentBurst() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.limiter.Burst()
}

func (a *AdaptiveLimiter) MaxLimit() rate.Limit { return a.maxLimit }

func (a *AdaptiveLimiter) MinLimit() rate.Limit { return a.minLimit }

func (a *AdaptiveLimiter) adjustLimit(newLimit rate.Limit) {
	newLimit = min(max(newLimit, a.minLimit), a.maxLimit)
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(max(1, int(newLimit)))
	}
}

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// Classifier reports whether err means the remote side is overloaded.
type Classifier func(error) bool

// DefaultClassifier matches 429 and 5xx answers.
func DefaultClassifier(err error) bool {
	var h HTTPError
	if !errors.As(err, &h) {
		return false
	}
	code := h.StatusCode()
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}
