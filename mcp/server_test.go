package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/dealstore"
	"github.com/lukman83/martdash/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func testApp(t *testing.T) *app.App {
	t.Helper()
	store := dealstore.NewCSVStore(filepath.Join(t.TempDir(), "deals.csv"))
	_, err := store.Record(context.Background(), []models.SavedDeal{{Title: "Ghee", SellingPrice: 300}})
	if err != nil {
		t.Fatalf("seed deals: %v", err)
	}
	return &app.App{
		Deals:        store,
		HotThreshold: 30,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRouterHealthAndMetrics(t *testing.T) {
	h := Router(testApp(t), "secret")

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestBearerAuth(t *testing.T) {
	h := Router(testApp(t), "secret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"ok", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestDealsAPI(t *testing.T) {
	rec := httptest.NewRecorder()
	Router(testApp(t), "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deals", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count int                `json:"count"`
		Deals []models.SavedDeal `json:"deals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Deals[0].Title != "Ghee" {
		t.Fatalf("body = %+v", body)
	}
}

func callTool(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("tool returned error: %v", err)
	}
	var text string
	if len(res.Content) > 0 {
		if tc, ok := res.Content[0].(mcp.TextContent); ok {
			text = tc.Text
		}
	}
	return res, text
}

func TestAnalyzeListingTool(t *testing.T) {
	tl := &tools{app: testApp(t)}

	res, text := callTool(t, tl.handleAnalyzeListing, map[string]any{
		"listing": "A|x|x|x|70|60|x|x|14\nB|x|x|x|70|70|x|x|0\n",
	})
	if res.IsError {
		t.Fatalf("error result: %s", text)
	}
	var out struct {
		Discount float64 `json:"headline_discount"`
		Label    string  `json:"headline_label"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Label != "vs 2nd Best" || out.Discount < 14.28 || out.Discount > 14.29 {
		t.Fatalf("out = %+v", out)
	}

	_, text = callTool(t, tl.handleAnalyzeListing, map[string]any{"listing": "too|short"})
	if !strings.Contains(text, "no valid price rows") {
		t.Fatalf("short listing text = %q", text)
	}
}

func TestToolsValidateArguments(t *testing.T) {
	tl := &tools{app: testApp(t)}

	if res, _ := callTool(t, tl.handleSearchDeals, map[string]any{"query": " , "}); !res.IsError {
		t.Error("search_deals accepted an empty query")
	}
	if res, _ := callTool(t, tl.handleRiderTrip, map[string]any{}); !res.IsError {
		t.Error("rider_trip accepted a missing mobile")
	}
	if res, _ := callTool(t, tl.handleCompleteDelivery, map[string]any{"mobile": "9"}); !res.IsError {
		t.Error("complete_delivery accepted a missing shipment")
	}
	res, text := callTool(t, tl.handleRiderTrip, map[string]any{"mobile": "9"})
	if !res.IsError || !strings.Contains(text, "not configured") {
		t.Errorf("rider_trip without rider service = %q", text)
	}
}

func TestSavedDealsTool(t *testing.T) {
	tl := &tools{app: testApp(t)}
	_, text := callTool(t, tl.handleSavedDeals, nil)
	if !strings.Contains(text, `"Ghee"`) {
		t.Fatalf("text = %q", text)
	}
}

func TestSplitQueries(t *testing.T) {
	got := splitQueries(" ghee, ,atta ")
	if len(got) != 2 || got[0] != "ghee" || got[1] != "atta" {
		t.Fatalf("got %v", got)
	}
}
