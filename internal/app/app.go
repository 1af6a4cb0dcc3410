// Package app wires search, pricing, storage and the rider workflow into
// the operations the CLI and the MCP server expose.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lukman83/martdash/internal/accounts"
	"github.com/lukman83/martdash/internal/dealstore"
	"github.com/lukman83/martdash/internal/metrics"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
	"github.com/lukman83/martdash/internal/pricing"
	"github.com/lukman83/martdash/internal/rider"
)

var (
	ErrRiderNotConfigured = errors.New("rider service not configured: set MARTDASH_RIDER_BASE_URL")
	ErrShipmentNotFound   = errors.New("shipment not in assigned trip")
)

// RiderAPI is the rider service as the app uses it.
type RiderAPI interface {
	rider.AuthAPI
	rider.DeliveryAPI
}

// App holds the long-lived dependencies. Nil stores or a nil Rider make the
// operations that need them fail with an error instead of panicking.
type App struct {
	Searcher      platform.Searcher
	Deals         dealstore.Store
	Accounts      accounts.Store
	Rider         RiderAPI
	HotThreshold  float64
	MaxConcurrent int
	Logger        *slog.Logger
}

// Close releases the stores.
func (a *App) Close() error {
	var errs []error
	if a.Deals != nil {
		errs = append(errs, a.Deals.Close())
	}
	if a.Accounts != nil {
		errs = append(errs, a.Accounts.Close())
	}
	return errors.Join(errs...)
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// SearchRequest describes one search run.
type SearchRequest struct {
	Queries   []string
	Limit     int
	Threshold float64
	Save      bool
}

// QueryReport is the priced outcome of one query.
type QueryReport struct {
	Query       string               `json:"query"`
	Products    int                  `json:"products"`
	Evaluations []pricing.Evaluation `json:"evaluations"`
}

// SearchReport is the outcome of SearchDeals.
type SearchReport struct {
	Queries []QueryReport      `json:"queries"`
	Hot     []models.SavedDeal `json:"hot_deals"`
	Saved   int                `json:"saved"`
}

// SearchDeals searches every query, prices each product and collects the
// hot deals. With Save set the hot deals go to the deal store.
func (a *App) SearchDeals(ctx context.Context, req SearchRequest) (*SearchReport, error) {
	if a.Searcher == nil {
		return nil, errors.New("no searcher configured")
	}
	results, err := platform.SearchMany(ctx, a.Searcher, req.Queries, platform.SearchOpts{Limit: req.Limit}, a.MaxConcurrent)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search: %w", err)
	}
	metrics.SearchesTotal.WithLabelValues("ok").Add(float64(len(results)))

	report := &SearchReport{}
	for _, r := range results {
		evals := pricing.Evaluate(r.Products, req.Threshold)
		report.Queries = append(report.Queries, QueryReport{Query: r.Query, Products: len(r.Products), Evaluations: evals})
		report.Hot = append(report.Hot, pricing.HotDeals(evals)...)
	}
	metrics.HotDealsTotal.Add(float64(len(report.Hot)))

	if req.Save && len(report.Hot) > 0 {
		if a.Deals == nil {
			return report, errors.New("no deal store configured")
		}
		n, err := a.Deals.Record(ctx, report.Hot)
		if err != nil {
			return report, fmt.Errorf("save deals: %w", err)
		}
		report.Saved = n
		metrics.DealsSavedTotal.Add(float64(n))
		a.logger().Info("hot deals saved", "found", len(report.Hot), "new", n)
	}
	return report, nil
}

func (a *App) SavedDeals(ctx context.Context) ([]models.SavedDeal, error) {
	if a.Deals == nil {
		return nil, errors.New("no deal store configured")
	}
	return a.Deals.List(ctx)
}

func (a *App) ClearDeals(ctx context.Context) error {
	if a.Deals == nil {
		return errors.New("no deal store configured")
	}
	return a.Deals.Clear(ctx)
}
