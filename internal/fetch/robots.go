package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// Robots gates outbound requests on the target host's robots.txt. Parsed
// files are cached per host for the life of the process; an unreachable
// robots.txt allows fetching by default.
type Robots struct {
	mu     sync.Mutex
	byHost map[string]*robotstxt.RobotsData
	client *http.Client
	agent  string
}

// NewRobots creates a robots.txt gate for the given user agent.
func NewRobots(userAgent string, timeout time.Duration) *Robots {
	return &Robots{
		byHost: make(map[string]*robotstxt.RobotsData),
		client: &http.Client{Timeout: timeout},
		agent:  userAgent,
	}
}

// Check reports whether rawURL may be fetched and any crawl delay the host
// requests for our agent.
func (r *Robots) Check(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data, err := r.data(ctx, parsed)
	if err != nil {
		// Robots unavailable: do not block the update.
		return true, 0, nil
	}

	allowed := data.TestAgent(parsed.Path, r.agent)
	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

func (r *Robots) data(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	cached, ok := r.byHost[target.Host]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.byHost[target.Host] = data
	r.mu.Unlock()
	return data, nil
}
