package models

import "time"

// Product is one catalog search hit together with its raw seller listing.
type Product struct {
	Title    string   `json:"title"`
	URL      string   `json:"url,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Listing  []string `json:"listing,omitempty"`
}

// PriceRow is a single seller offer parsed out of a listing line.
type PriceRow struct {
	StoreID         string  `json:"store_id"`
	MRP             float64 `json:"mrp"`
	SellingPrice    float64 `json:"selling_price"`
	DiscountPercent float64 `json:"discount_percent"`
}

// Reference is the comparison rank the best price is measured against.
type Reference struct {
	Price float64 `json:"price"`
	Label string  `json:"label"`
	Valid bool    `json:"valid"`
}

// AnalysisResult is the outcome of ranking one product's offers.
type AnalysisResult struct {
	Best            PriceRow   `json:"best"`
	Ranked          []PriceRow `json:"ranked"`
	Reference       Reference  `json:"reference"`
	DiscountPercent float64    `json:"discount_percent"`
}

// Top3 returns at most the three cheapest distinct offers.
func (a *AnalysisResult) Top3() []PriceRow {
	if len(a.Ranked) <= 3 {
		return a.Ranked
	}
	return a.Ranked[:3]
}

// SavedDeal is a persisted hot deal row.
type SavedDeal struct {
	Title           string    `json:"title"`
	SellingPrice    float64   `json:"selling_price"`
	MRP             float64   `json:"mrp"`
	DiscountPercent float64   `json:"discount_percent"`
	StoreID         string    `json:"store_id"`
	ReferenceLabel  string    `json:"reference_label"`
	ProductURL      string    `json:"product_url"`
	DateAdded       time.Time `json:"date_added"`
}

// AuthSession holds the rider tokens issued after OTP verification.
type AuthSession struct {
	MobileNumber string `json:"mobile_number"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SKU is one line item of a shipment.
type SKU struct {
	Name          string `json:"name"`
	TotalQuantity int    `json:"total_quantity"`
	ImageLink     string `json:"image_link"`
}

// Shipment is one delivery stop. Only the remote service changes it.
type Shipment struct {
	ShipmentID        string  `json:"shipment_id"`
	CustomerName      string  `json:"customer_name"`
	CustomerNumber    string  `json:"customer_number"`
	CustomerAddress   string  `json:"customer_address"`
	CustomerLatitude  float64 `json:"customer_latitude"`
	CustomerLongitude float64 `json:"customer_longitude"`
	CODAmount         float64 `json:"cod_amount"`
	ModeOfPayment     string  `json:"mode_of_payment"`
	Status            string  `json:"status"`
	SKUs              []SKU   `json:"skus"`
}

// Trip is the rider's assigned trip with its shipments in listing order.
type Trip struct {
	TripID    string     `json:"trip_id"`
	Shipments []Shipment `json:"shipments"`
}

// Shipment looks up a shipment by id.
func (t *Trip) Shipment(id string) (Shipment, bool) {
	for _, s := range t.Shipments {
		if s.ShipmentID == id {
			return s, true
		}
	}
	return Shipment{}, false
}
