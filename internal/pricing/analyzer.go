// Package pricing ranks the seller offers of a product listing and works out
// how much cheaper the best offer is than the runner-up ranks.
package pricing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lukman83/martdash/internal/models"
)

// Listing line layout: store|...|...|...|mrp|selling|...|...|discount
const (
	fieldSeparator = "|"
	minFields      = 9

	colStoreID  = 0
	colMRP      = 4
	colSelling  = 5
	colDiscount = 8
)

// Reference labels.
const (
	LabelThirdBest  = "vs 3rd Best"
	LabelSecondBest = "vs 2nd Best"
	LabelBestPrice  = "Best Price"
	LabelMRP        = "MRP Discount"
)

// Analyze parses listing lines into offers and ranks them. It returns nil
// when the listing is empty, too narrow, or has no offer with a usable
// selling price.
func Analyze(lines []string) *models.AnalysisResult {
	if len(lines) == 0 {
		return nil
	}

	records := make([][]string, len(lines))
	width := 0
	for i, line := range lines {
		records[i] = strings.Split(line, fieldSeparator)
		width = max(width, len(records[i]))
	}
	if width < minFields {
		return nil
	}

	rows := make([]models.PriceRow, 0, len(records))
	for _, rec := range records {
		price, ok := parseNumber(field(rec, colSelling))
		if !ok {
			continue
		}
		rows = append(rows, models.PriceRow{
			StoreID:         field(rec, colStoreID),
			MRP:             numberOrZero(field(rec, colMRP)),
			SellingPrice:    price,
			DiscountPercent: numberOrZero(field(rec, colDiscount)),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	ranked := rank(rows)
	best := ranked[0]
	ref := reference(ranked)

	var discount float64
	if ref.Valid && ref.Price > 0 {
		discount = (ref.Price - best.SellingPrice) / ref.Price * 100
	}

	return &models.AnalysisResult{
		Best:            best,
		Ranked:          ranked,
		Reference:       ref,
		DiscountPercent: discount,
	}
}

// rank sorts offers by selling price and keeps the first offer at each price.
func rank(rows []models.PriceRow) []models.PriceRow {
	sorted := make([]models.PriceRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SellingPrice < sorted[j].SellingPrice
	})

	out := sorted[:0]
	for i, r := range sorted {
		if i > 0 && r.SellingPrice == out[len(out)-1].SellingPrice {
			continue
		}
		out = append(out, r)
	}
	return out
}

func reference(ranked []models.PriceRow) models.Reference {
	switch {
	case len(ranked) >= 3:
		return models.Reference{Price: ranked[2].SellingPrice, Label: LabelThirdBest, Valid: true}
	case len(ranked) == 2:
		return models.Reference{Price: ranked[1].SellingPrice, Label: LabelSecondBest, Valid: true}
	default:
		return models.Reference{Price: ranked[0].SellingPrice, Label: LabelBestPrice}
	}
}

// Headline returns the discount figure to display for a result and its label.
// Without a valid comparison rank it falls back to the best offer's own
// MRP discount.
func Headline(a *models.AnalysisResult) (float64, string) {
	if a.Reference.Valid {
		return a.DiscountPercent, a.Reference.Label
	}
	return a.Best.DiscountPercent, LabelMRP
}

// IsHot reports whether the headline discount is above threshold.
func IsHot(a *models.AnalysisResult, threshold float64) bool {
	pct, _ := Headline(a)
	return pct > threshold
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func numberOrZero(s string) float64 {
	v, ok := parseNumber(s)
	if !ok {
		return 0
	}
	return v
}
