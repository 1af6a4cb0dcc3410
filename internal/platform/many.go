package platform

import (
	"context"

	"github.com/lukman83/martdash/internal/models"
	"golang.org/x/sync/errgroup"
)

// QueryResult is the outcome of one query in SearchMany.
type QueryResult struct {
	Query    string           `json:"query"`
	Products []models.Product `json:"products"`
}

// SearchMany runs queries against s with at most limit in flight and
// returns results in query order. The first failure cancels the rest.
func SearchMany(ctx context.Context, s Searcher, queries []string, opts SearchOpts, limit int) ([]QueryResult, error) {
	if limit <= 0 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]QueryResult, len(queries))
	for i, q := range queries {
		g.Go(func() error {
			products, err := s.Search(ctx, q, opts)
			if err != nil {
				return err
			}
			results[i] = QueryResult{Query: q, Products: products}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
