// Package dealstore persists hot deals, de-duplicated on title and selling price.
package dealstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lukman83/martdash/internal/models"
)

// TimeLayout is how the date_added column is written.
const TimeLayout = "2006-01-02 15:04:05"

// Store records and lists saved deals.
type Store interface {
	// Record inserts deals whose (title, selling price) pair is new and
	// returns how many were inserted.
	Record(ctx context.Context, deals []models.SavedDeal) (int, error)
	List(ctx context.Context) ([]models.SavedDeal, error)
	// Clear removes every saved deal. Clearing an empty store succeeds.
	Clear(ctx context.Context) error
	Close() error
}

type dealKey struct {
	title string
	price float64
}

func keyOf(d models.SavedDeal) dealKey {
	return dealKey{title: d.Title, price: d.SellingPrice}
}

// fresh drops deals already present in seen, or repeated within deals,
// and stamps the survivors with now. seen is updated in place.
func fresh(deals []models.SavedDeal, seen map[dealKey]struct{}, now time.Time) []models.SavedDeal {
	var out []models.SavedDeal
	for _, d := range deals {
		k := keyOf(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		d.DateAdded = now
		out = append(out, d)
	}
	return out
}

// Open picks a backend from a location string: "sqlite:<path>" opens the
// SQLite store, anything else ("csv:<path>" or a bare path) the CSV store.
func Open(location string) (Store, error) {
	kind, path, found := strings.Cut(location, ":")
	if !found {
		return NewCSVStore(location), nil
	}
	switch kind {
	case "csv":
		return NewCSVStore(path), nil
	case "sqlite":
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown deal store %q", kind)
	}
}
