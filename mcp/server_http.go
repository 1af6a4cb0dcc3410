package mcp

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/metrics"
	"github.com/mark3labs/mcp-go/server"
)

// Router serves the MCP endpoint plus health, metrics and a read-only deals API.
// apiKey, when set, guards /mcp and /api.
func Router(a *app.App, apiKey string) http.Handler {
	mcpHTTP := server.NewStreamableHTTPServer(newServer(a), server.WithStateLess(true))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if apiKey != "" {
			r.Use(bearerAuth(apiKey))
		}
		r.Handle("/mcp", mcpHTTP)
		r.Get("/api/deals", func(w http.ResponseWriter, req *http.Request) {
			deals, err := a.SavedDeals(req.Context())
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deals": deals, "count": len(deals)})
		})
	})
	return r
}

// ServeHTTP starts the HTTP server on addr.
func ServeHTTP(addr, apiKey string, a *app.App, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      Router(a, apiKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	logger.Info("martdash HTTP server listening", "addr", addr, "auth", apiKey != "")
	return srv.ListenAndServe()
}

func bearerAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="martdash"`)
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
				return
			}
			token, found := strings.CutPrefix(auth, "Bearer ")
			if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="martdash", error="invalid_token"`)
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
