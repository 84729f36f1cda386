package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound requests per host. Reference data updates
// hit a handful of statistical agencies; each gets its own token bucket so
// a slow host never starves the others.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewLimiter creates a per-host limiter with the given default rate.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the host of rawURL may be contacted, honoring an
// additional delay (e.g. a robots.txt crawl-delay) on top of the bucket.
func (l *Limiter) Wait(ctx context.Context, rawURL string, extraDelay time.Duration) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	if err := l.hostLimiter(parsed.Host).Wait(ctx); err != nil {
		return err
	}

	if extraDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(extraDelay):
		}
	}
	return nil
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.limiters[host] = lim
	return lim
}
