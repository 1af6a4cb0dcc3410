package stealth

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
)

// ProxyPool round-robins requests over a fixed set of HTTP proxies.
type ProxyPool struct {
	mu         sync.Mutex
	transports []http.RoundTripper
	next       int
}

// NewProxyPool builds one transport per proxy URL. nil is returned for an
// empty list so callers can treat "no pool" as direct traffic.
func NewProxyPool(rawURLs []string) (*ProxyPool, error) {
	if len(rawURLs) == 0 {
		return nil, nil
	}
	p := &ProxyPool{}
	for _, raw := range rawURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", raw)
		}
		p.transports = append(p.transports, &http.Transport{
			Proxy:             http.ProxyURL(u),
			DisableKeepAlives: true,
		})
	}
	return p, nil
}

// LoadProxyFile reads one proxy URL per line, skipping blanks and # comments.
func LoadProxyFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}
	return urls, nil
}

// Next returns the transport for the next proxy.
func (p *ProxyPool) Next() http.RoundTripper {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.transports[p.next%len(p.transports)]
	p.next++
	return t
}
