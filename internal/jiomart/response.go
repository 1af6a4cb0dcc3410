package jiomart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lukman83/martdash/internal/models"
)

const unknownTitle = "Unknown Product"

type searchResponse struct {
	Results []struct {
		Product searchProduct `json:"product"`
	} `json:"results"`
}

type searchProduct struct {
	Title    string    `json:"title"`
	Variants []variant `json:"variants"`
	Images   []struct {
		URI string `json:"uri"`
	} `json:"images"`
	URI     string `json:"uri"`
	URLPath string `json:"url_path"`
}

type variant struct {
	Attributes struct {
		BuyboxMRP struct {
			Text []string `json:"text"`
		} `json:"buybox_mrp"`
	} `json:"attributes"`
}

// parseSearchResponse decodes an autoSearch body. An empty result list is
// not an error.
func parseSearchResponse(data []byte) ([]models.Product, error) {
	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}
	products := make([]models.Product, 0, len(resp.Results))
	for _, r := range resp.Results {
		products = append(products, toProduct(r.Product))
	}
	return products, nil
}

func toProduct(sp searchProduct) models.Product {
	p := models.Product{
		Title:   sp.Title,
		URL:     productURL(sp),
		Listing: listingLines(sp),
	}
	if p.Title == "" {
		p.Title = unknownTitle
	}
	if len(sp.Images) > 0 {
		p.ImageURL = sp.Images[0].URI
	}
	return p
}

// listingLines returns the multi-seller buybox lines of the first variant.
func listingLines(sp searchProduct) []string {
	if len(sp.Variants) == 0 {
		return nil
	}
	return sp.Variants[0].Attributes.BuyboxMRP.Text
}

func productURL(sp searchProduct) string {
	if sp.URLPath != "" {
		if strings.HasPrefix(sp.URLPath, "http") {
			return sp.URLPath
		}
		return baseURL + "/" + strings.TrimPrefix(sp.URLPath, "/")
	}
	return sp.URI
}
