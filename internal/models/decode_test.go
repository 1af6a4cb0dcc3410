package models

import (
	"encoding/json"
	"testing"
)

func TestShipmentDecodeToleratesTypes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Shipment
	}{
		{
			name: "well formed",
			in:   `{"shipment_id":"S1","customer_number":"98","customer_latitude":26.2,"customer_longitude":91.7,"cod_amount":250.5,"status":"pending"}`,
			want: Shipment{ShipmentID: "S1", CustomerNumber: "98", CustomerLatitude: 26.2, CustomerLongitude: 91.7, CODAmount: 250.5, Status: "pending"},
		},
		{
			name: "numeric strings and numeric ids",
			in:   `{"shipment_id":1001,"customer_number":9876543210,"customer_latitude":"26.2","customer_longitude":" 91.7 ","cod_amount":"120"}`,
			want: Shipment{ShipmentID: "1001", CustomerNumber: "9876543210", CustomerLatitude: 26.2, CustomerLongitude: 91.7, CODAmount: 120},
		},
		{
			name: "unusable values default",
			in:   `{"shipment_id":null,"customer_latitude":"north","customer_longitude":{},"cod_amount":"Infinity","customer_address":["x"]}`,
			want: Shipment{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Shipment
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.ShipmentID != tt.want.ShipmentID || got.CustomerNumber != tt.want.CustomerNumber ||
				got.CustomerLatitude != tt.want.CustomerLatitude || got.CustomerLongitude != tt.want.CustomerLongitude ||
				got.CODAmount != tt.want.CODAmount || got.CustomerAddress != tt.want.CustomerAddress || got.Status != tt.want.Status {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTripDecodeKeepsShipments(t *testing.T) {
	var trip Trip
	in := `{"trip_id":42,"shipments":[{"shipment_id":"S1","skus":[{"name":"Atta","total_quantity":2}]},{"shipment_id":2}]}`
	if err := json.Unmarshal([]byte(in), &trip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trip.TripID != "42" || len(trip.Shipments) != 2 {
		t.Fatalf("trip = %+v", trip)
	}
	if trip.Shipments[0].SKUs[0].TotalQuantity != 2 || trip.Shipments[1].ShipmentID != "2" {
		t.Fatalf("shipments = %+v", trip.Shipments)
	}
}
