package stealth

import (
	"net/http"
	"sync"
)

// Fingerprint is a browser identity: a User-Agent plus the client hints
// that browser sends with a same-origin fetch().
type Fingerprint struct {
	UserAgent string
	Headers   http.Header
}

// FingerprintPool hands out fingerprints in round-robin order.
type FingerprintPool struct {
	mu   sync.Mutex
	list []Fingerprint
	next int
}

// NewFingerprintPool returns a pool of current desktop browser identities.
func NewFingerprintPool() *FingerprintPool {
	return &FingerprintPool{list: []Fingerprint{
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
			Headers:   chromiumHints("Google Chrome", "142", `"Windows"`),
		},
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
			Headers:   chromiumHints("Google Chrome", "142", `"macOS"`),
		},
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36 Edg/142.0.0.0",
			Headers:   chromiumHints("Microsoft Edge", "142", `"Windows"`),
		},
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:144.0) Gecko/20100101 Firefox/144.0",
			Headers:   fetchHints(),
		},
	}}
}

// Next returns the next fingerprint.
func (p *FingerprintPool) Next() Fingerprint {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.list[p.next%len(p.list)]
	p.next++
	return f
}

func chromiumHints(brand, version, platform string) http.Header {
	h := fetchHints()
	h.Set("Sec-Ch-Ua", `"Chromium";v="`+version+`", "`+brand+`";v="`+version+`", "Not_A Brand";v="99"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", platform)
	return h
}

func fetchHints() http.Header {
	h := http.Header{}
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	return h
}
