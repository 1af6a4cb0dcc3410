package httputil

import (
	"net/http"
	"net/url"
)

// JioMartSearchHeaders returns the headers the JioMart web app sends with a
// catalog search. cookie may be empty.
func JioMartSearchHeaders(query, cookie string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", "en-GB,en-US;q=0.9,en;q=0.8,hi;q=0.7")
	h.Set("Cache-Control", "no-cache")
	h.Set("Origin", "https://www.jiomart.com")
	h.Set("Referer", "https://www.jiomart.com/search?q="+url.QueryEscape(query))
	if cookie != "" {
		h.Set("Cookie", cookie)
	}
	return h
}

// JSONHeaders returns headers for a plain JSON API call.
func JSONHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	return h
}
