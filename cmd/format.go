package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/pricing"
	"github.com/lukman83/martdash/internal/rider"
)

// printSearchReport prints each query's priced products in a card layout.
func printSearchReport(r *app.SearchReport, hotOnly bool) {
	for qi, q := range r.Queries {
		if qi > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, "== %s: %d products, %d with prices ==\n", q.Query, q.Products, len(q.Evaluations))
		n := 0
		for _, e := range q.Evaluations {
			if hotOnly && !e.Hot {
				continue
			}
			n++
			printEvaluation(n, e)
		}
		if n == 0 {
			fmt.Fprintln(os.Stdout, "    (nothing to show)")
		}
	}
	fmt.Fprintf(os.Stdout, "\nHot deals: %d", len(r.Hot))
	if r.Saved > 0 {
		fmt.Fprintf(os.Stdout, " (%d new saved)", r.Saved)
	}
	fmt.Fprintln(os.Stdout)
}

func printEvaluation(i int, e pricing.Evaluation) {
	title := truncate(e.Product.Title, 70)
	if e.Hot {
		title = "[HOT] " + title
	}
	fmt.Fprintf(os.Stdout, " %d. %s\n", i, title)
	best := e.Analysis.Best
	fmt.Fprintf(os.Stdout, "    Best: %s  (MRP %s)  |  Store: %s  |  %s %s\n",
		formatPrice(best.SellingPrice), formatPrice(best.MRP), best.StoreID, formatPercent(e.Discount), e.Label)
	var top []string
	for _, row := range e.Analysis.Top3() {
		top = append(top, fmt.Sprintf("%s@%s", row.StoreID, formatPrice(row.SellingPrice)))
	}
	fmt.Fprintf(os.Stdout, "    Top: %s\n", strings.Join(top, ", "))
	if e.Product.URL != "" {
		fmt.Fprintf(os.Stdout, "    %s\n", cleanURL(e.Product.URL))
	}
}

// printAnalysis prints a full ranking, used by the analyze command.
func printAnalysis(a *models.AnalysisResult) {
	pct, label := pricing.Headline(a)
	fmt.Fprintf(os.Stdout, "Best: %s at %s (MRP %s, %s off MRP)\n",
		a.Best.StoreID, formatPrice(a.Best.SellingPrice), formatPrice(a.Best.MRP), formatPercent(a.Best.DiscountPercent))
	if a.Reference.Valid {
		fmt.Fprintf(os.Stdout, "Reference: %s %s\n", formatPrice(a.Reference.Price), a.Reference.Label)
	}
	fmt.Fprintf(os.Stdout, "Headline: %s %s\n\n", formatPercent(pct), label)
	for i, row := range a.Ranked {
		fmt.Fprintf(os.Stdout, " %2d. %-16s %10s  (MRP %s)\n", i+1, row.StoreID, formatPrice(row.SellingPrice), formatPrice(row.MRP))
	}
}

func printDeals(deals []models.SavedDeal) {
	if len(deals) == 0 {
		fmt.Fprintln(os.Stdout, "No saved deals.")
		return
	}
	for i, d := range deals {
		fmt.Fprintf(os.Stdout, " %2d. %s\n", i+1, truncate(d.Title, 70))
		fmt.Fprintf(os.Stdout, "     %s (MRP %s)  %s %s  |  Store: %s  |  %s\n",
			formatPrice(d.SellingPrice), formatPrice(d.MRP), formatPercent(d.DiscountPercent), d.ReferenceLabel,
			d.StoreID, d.DateAdded.Format("2006-01-02 15:04"))
	}
}

func printTrip(t models.Trip) {
	fmt.Fprintf(os.Stdout, "Trip %s: %d shipments\n", t.TripID, len(t.Shipments))
	for i, s := range t.Shipments {
		fmt.Fprintf(os.Stdout, "\n %d. %s  [%s]\n", i+1, s.ShipmentID, s.Status)
		fmt.Fprintf(os.Stdout, "    %s (%s)\n", s.CustomerName, s.CustomerNumber)
		fmt.Fprintf(os.Stdout, "    %s\n", s.CustomerAddress)
		fmt.Fprintf(os.Stdout, "    COD: %s  |  Payment: %s\n", formatPrice(s.CODAmount), s.ModeOfPayment)
		for _, sku := range s.SKUs {
			fmt.Fprintf(os.Stdout, "      - %dx %s\n", sku.TotalQuantity, sku.Name)
		}
	}
}

func printResults(results []rider.Result) {
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matching shipments.")
		return
	}
	delivered := 0
	for _, r := range results {
		line := fmt.Sprintf(" %-20s %s", r.ShipmentID, r.Outcome)
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		if r.OK() {
			delivered++
		}
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "\nDelivered %d/%d\n", delivered, len(results))
}

// formatPrice formats a rupee amount as "₹1,234.5".
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)
	out := "₹" + strings.Join(parts, ",")
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// cleanURL strips query params and returns just the product page URL.
func cleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
