package pricing

import "github.com/lukman83/martdash/internal/models"

// DefaultHotThreshold is the headline discount above which a product is a hot deal.
const DefaultHotThreshold = 30.0

// Evaluation pairs a product with its analysis.
type Evaluation struct {
	Product  models.Product         `json:"product"`
	Analysis *models.AnalysisResult `json:"analysis"`
	Discount float64                `json:"discount"`
	Label    string                 `json:"label"`
	Hot      bool                   `json:"hot"`
}

// Evaluate analyzes every product that carries a listing. Products without
// a listing or without a usable offer are left out.
func Evaluate(products []models.Product, threshold float64) []Evaluation {
	var out []Evaluation
	for _, p := range products {
		if len(p.Listing) == 0 {
			continue
		}
		a := Analyze(p.Listing)
		if a == nil {
			continue
		}
		pct, label := Headline(a)
		out = append(out, Evaluation{
			Product:  p,
			Analysis: a,
			Discount: pct,
			Label:    label,
			Hot:      pct > threshold,
		})
	}
	return out
}

// HotDeals converts the hot evaluations into rows ready to be saved.
func HotDeals(evals []Evaluation) []models.SavedDeal {
	var deals []models.SavedDeal
	for _, e := range evals {
		if !e.Hot {
			continue
		}
		deals = append(deals, models.SavedDeal{
			Title:           e.Product.Title,
			SellingPrice:    e.Analysis.Best.SellingPrice,
			MRP:             e.Analysis.Best.MRP,
			DiscountPercent: e.Discount,
			StoreID:         e.Analysis.Best.StoreID,
			ReferenceLabel:  e.Label,
			ProductURL:      e.Product.URL,
		})
	}
	return deals
}
