// Package jiomart searches the JioMart catalog and returns each product
// with its raw multi-seller price listing.
package jiomart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
)

// PlatformName is the registry key for this searcher.
const PlatformName = "jiomart"

// Scraper implements platform.Searcher by trying strategies in order.
type Scraper struct {
	strategies []platform.Strategy
	logger     *slog.Logger
}

// NewScraper returns a scraper that tries each strategy in turn until one succeeds.
func NewScraper(logger *slog.Logger, strategies ...platform.Strategy) *Scraper {
	return &Scraper{
		strategies: strategies,
		logger:     logger.With("component", "jiomart"),
	}
}

// Search returns the products for query. The first strategy that answers
// wins, even with zero results; later strategies only run after an error.
func (s *Scraper) Search(ctx context.Context, query string, opts platform.SearchOpts) ([]models.Product, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}

	var errs []error
	for _, st := range s.strategies {
		platform.Reportf(ctx, "Searching '%s' via %s...", query, st.Name())
		products, err := st.Search(ctx, query, opts)
		if err == nil {
			s.logger.Debug("search done", "query", query, "strategy", st.Name(), "products", len(products))
			return products, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("search strategy failed", "query", query, "strategy", st.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", st.Name(), err))
	}
	if len(errs) == 0 {
		return nil, errors.New("no search strategies configured")
	}
	return nil, fmt.Errorf("all strategies failed for %q: %w", query, errors.Join(errs...))
}
