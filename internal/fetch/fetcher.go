package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojiplus/lostyears/internal/cache"
	"github.com/gojiplus/lostyears/internal/model"
	"github.com/gojiplus/lostyears/internal/worker"
)

// Fetcher downloads reference data from the upstream statistical agencies.
// Every request passes the per-host rate limiter and the robots.txt gate;
// successful payloads go through the cache so repeated update runs within
// the TTL stay offline.
type Fetcher struct {
	client   *http.Client
	ua       string
	maxBytes int64
	limiter  *worker.Limiter
	robots   *Robots
	store    cache.Cache // nil when caching is disabled
	ttl      time.Duration
}

// New creates a fetcher from the update configuration. store may be nil.
func New(cfg model.UpdateConfig, store cache.Cache, ttl time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		ua:       cfg.UserAgent,
		maxBytes: cfg.MaxBodyBytes,
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		robots:   NewRobots(cfg.UserAgent, cfg.Timeout),
		store:    store,
		ttl:      ttl,
	}
}

// Fetch retrieves the payload at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.store != nil {
		if data, ok := f.store.Get(cache.Key(rawURL)); ok {
			return data, nil
		}
	}

	allowed, delay, err := f.robots.Check(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}

	if err := f.limiter.Wait(ctx, rawURL, delay); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.store != nil {
		_ = f.store.Set(cache.Key(rawURL), body, f.ttl)
	}
	return body, nil
}
