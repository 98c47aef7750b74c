package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter enforces a minimum delay between consecutive requests. The
// first request goes out immediately; each later one waits for whatever is
// left of the delay since the previous one. A zero delay disables waiting,
// but the request time is still recorded so a later delay counts from it.
type rateLimiter struct {
	delay   time.Duration
	limiter *rate.Limiter // nil while the delay is zero
	last    time.Time
}

func newRateLimiter(delay time.Duration) *rateLimiter {
	r := &rateLimiter{}
	r.SetDelay(delay)
	return r
}

// Wait blocks until the next request may be issued and returns how long it
// waited.
func (r *rateLimiter) Wait() time.Duration {
	start := time.Now()
	if r.limiter != nil {
		// Wait only fails on cancellation or n > burst; neither can happen here.
		_ = r.limiter.Wait(context.Background())
	}
	r.last = time.Now()
	return r.last.Sub(start)
}

// SetDelay replaces the limiter with one for delay whose single token was
// spent at the previous request.
func (r *rateLimiter) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	r.delay = delay
	if delay == 0 {
		r.limiter = nil
		return
	}

	r.limiter = rate.NewLimiter(rate.Every(delay), 1)
	if !r.last.IsZero() {
		r.limiter.AllowN(r.last, 1)
	}
}

func (r *rateLimiter) Delay() time.Duration {
	return r.delay
}
