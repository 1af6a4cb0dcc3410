package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/pricing"
	"github.com/lukman83/martdash/internal/rider"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type tools struct {
	app *app.App
}

func registerTools(s *server.MCPServer, t *tools) {
	// search_deals
	s.AddTool(mcp.NewTool("search_deals",
		mcp.WithDescription("Search JioMart, rank each product's sellers and flag hot deals"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keyword; separate several with commas"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Products per query (default: 50)"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Hot-deal discount threshold in percent (default: 30)"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Save hot deals to the deal store (default: true)"),
		),
	), t.handleSearchDeals)

	// analyze_listing
	s.AddTool(mcp.NewTool("analyze_listing",
		mcp.WithDescription("Rank a raw multi-seller listing (one '|'-separated line per seller)"),
		mcp.WithString("listing",
			mcp.Required(),
			mcp.Description("Listing lines separated by newlines"),
		),
	), t.handleAnalyzeListing)

	// saved_deals
	s.AddTool(mcp.NewTool("saved_deals",
		mcp.WithDescription("List the hot deals saved so far"),
	), t.handleSavedDeals)

	// rider_trip
	s.AddTool(mcp.NewTool("rider_trip",
		mcp.WithDescription("Show the assigned trip for a logged-in rider"),
		mcp.WithString("mobile",
			mcp.Required(),
			mcp.Description("Rider mobile number"),
		),
	), t.handleRiderTrip)

	// complete_delivery
	s.AddTool(mcp.NewTool("complete_delivery",
		mcp.WithDescription("Arrive, resolve orders and confirm cash payment for one shipment"),
		mcp.WithString("mobile",
			mcp.Required(),
			mcp.Description("Rider mobile number"),
		),
		mcp.WithString("shipment_id",
			mcp.Required(),
			mcp.Description("Shipment to deliver"),
		),
	), t.handleCompleteDelivery)
}

func (t *tools) handleSearchDeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	queries := splitQueries(request.GetString("query", ""))
	if len(queries) == 0 {
		return mcp.NewToolResultError("query is required"), nil
	}

	report, err := t.app.SearchDeals(ctx, app.SearchRequest{
		Queries:   queries,
		Limit:     request.GetInt("limit", 0),
		Threshold: request.GetFloat("threshold", t.app.HotThreshold),
		Save:      request.GetBool("save", true),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}
	return jsonResult(report)
}

func (t *tools) handleAnalyzeListing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("listing", "")
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	a := pricing.Analyze(lines)
	if a == nil {
		return mcp.NewToolResultText("no valid price rows in listing"), nil
	}
	pct, label := pricing.Headline(a)
	return jsonResult(map[string]any{
		"analysis":          a,
		"top3":              a.Top3(),
		"headline_discount": pct,
		"headline_label":    label,
	})
}

func (t *tools) handleSavedDeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deals, err := t.app.SavedDeals(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deal store error: %v", err)), nil
	}
	return jsonResult(deals)
}

func (t *tools) handleRiderTrip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mobile := request.GetString("mobile", "")
	if mobile == "" {
		return mcp.NewToolResultError("mobile is required"), nil
	}
	trip, err := t.app.Trip(ctx, mobile)
	if errors.Is(err, rider.ErrNoTrip) {
		return mcp.NewToolResultText("no trip assigned"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trip error: %v", err)), nil
	}
	return jsonResult(trip)
}

func (t *tools) handleCompleteDelivery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mobile := request.GetString("mobile", "")
	shipmentID := request.GetString("shipment_id", "")
	if mobile == "" || shipmentID == "" {
		return mcp.NewToolResultError("mobile and shipment_id are required"), nil
	}
	res, err := t.app.Deliver(ctx, mobile, shipmentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delivery error: %v", err)), nil
	}
	return jsonResult(res)
}

func splitQueries(s string) []string {
	var out []string
	for _, q := range strings.Split(s, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
