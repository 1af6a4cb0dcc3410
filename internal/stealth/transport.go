package stealth

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Transport is the RoundTripper used for catalog searches. Each request goes
// through fingerprint, robots.txt, rate limiter, jitter, then proxy or Base.
// Any nil stage is skipped.
type Transport struct {
	Base         http.RoundTripper
	Fingerprints *FingerprintPool
	Robots       *RobotsChecker
	Limiter      *rate.Limiter
	Jitter       Jitter
	Proxies      *ProxyPool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	ua := out.Header.Get("User-Agent")
	if t.Fingerprints != nil {
		fp := t.Fingerprints.Next()
		ua = fp.UserAgent
		out.Header.Set("User-Agent", ua)
		for key, vals := range fp.Headers {
			if out.Header.Get(key) == "" {
				out.Header[key] = vals
			}
		}
	}

	if t.Robots != nil && !t.Robots.Allowed(ctx, ua, out.URL) {
		return nil, fmt.Errorf("blocked by robots.txt: %s", out.URL.Path)
	}

	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if err := t.Jitter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("delay: %w", err)
	}

	base := t.Base
	if t.Proxies != nil {
		base = t.Proxies.Next()
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(out)
}
