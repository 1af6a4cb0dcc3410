package stealth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

type robotsEntry struct {
	data    *robotstxt.RobotsData
	expires time.Time
}

// RobotsChecker fetches and caches robots.txt per origin.
type RobotsChecker struct {
	client *http.Client
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]robotsEntry
}

// NewRobotsChecker returns a checker that re-fetches robots.txt after ttl.
func NewRobotsChecker(client *http.Client, ttl time.Duration) *RobotsChecker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RobotsChecker{
		client: client,
		ttl:    ttl,
		cache:  make(map[string]robotsEntry),
	}
}

// Allowed reports whether userAgent may fetch u. A robots.txt that cannot
// be fetched or parsed allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, userAgent string, u *url.URL) bool {
	data, err := r.rules(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return true
	}
	return data.TestAgent(u.Path, userAgent)
}

func (r *RobotsChecker) rules(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cache[origin]; ok && time.Now().Before(e.expires) {
		return e.data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cache[origin] = robotsEntry{data: data, expires: time.Now().Add(r.ttl)}
	return data, nil
}
