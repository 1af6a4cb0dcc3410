package platform

import (
	"context"

	"github.com/lukman83/martdash/internal/models"
)

// SearchOpts tunes a catalog search.
type SearchOpts struct {
	Limit int
}

// Strategy is one way of fetching search results (plain HTTP, headless browser).
type Strategy interface {
	Name() string
	Search(ctx context.Context, query string, opts SearchOpts) ([]models.Product, error)
}

// Searcher is a marketplace that can be searched by keyword.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOpts) ([]models.Product, error)
}
