package rider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
)

type mockDeliveryAPI struct {
	arriveErr error
	cartErr   error
	cartIDs   []OrderID
	payErr    error

	arriveCalls int
	cartCalls   int
	payCalls    int
	paidIDs     []OrderID
	paidCOD     float64
	order       []string
}

func (m *mockDeliveryAPI) MarkArrived(ctx context.Context, sess models.AuthSession, shipmentID string, lat, lng float64) error {
	m.arriveCalls++
	m.order = append(m.order, "arrive:"+shipmentID)
	return m.arriveErr
}

func (m *mockDeliveryAPI) CartOrderIDs(ctx context.Context, sess models.AuthSession, tripID, shipmentID string) ([]OrderID, error) {
	m.cartCalls++
	m.order = append(m.order, "cart:"+shipmentID)
	return m.cartIDs, m.cartErr
}

func (m *mockDeliveryAPI) ConfirmCashPayment(ctx context.Context, sess models.AuthSession, shipmentID string, orderIDs []OrderID, cod, lat, lng float64) error {
	m.payCalls++
	m.paidIDs = orderIDs
	m.paidCOD = cod
	m.order = append(m.order, "pay:"+shipmentID)
	return m.payErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var shipment = models.Shipment{ShipmentID: "S1", CODAmount: 199, CustomerLatitude: 1, CustomerLongitude: 2}

func TestCompleteDelivery(t *testing.T) {
	boom := errors.New("boom")
	ids := []OrderID{NewOrderID("A"), NewOrderID("B")}

	tests := []struct {
		name      string
		api       *mockDeliveryAPI
		want      Outcome
		wantCart  int
		wantPay   int
		wantErrIs error
	}{
		{"delivered", &mockDeliveryAPI{cartIDs: ids}, OutcomeDelivered, 1, 1, nil},
		{"arrival fails", &mockDeliveryAPI{arriveErr: boom, cartIDs: ids}, OutcomeArrivalFailed, 0, 0, boom},
		{"cart fetch fails", &mockDeliveryAPI{cartErr: boom}, OutcomeCartFetchFailed, 1, 0, boom},
		{"no orders", &mockDeliveryAPI{}, OutcomeNoOrdersFound, 1, 0, ErrNoOrders},
		{"payment fails", &mockDeliveryAPI{cartIDs: ids, payErr: boom}, OutcomeDeliveryFailed, 1, 1, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(tt.api, quietLogger())
			res := o.CompleteDelivery(context.Background(), testSession, "T1", shipment)

			if res.Outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", res.Outcome, tt.want)
			}
			if tt.api.arriveCalls != 1 {
				t.Errorf("arrive calls = %d", tt.api.arriveCalls)
			}
			if tt.api.cartCalls != tt.wantCart || tt.api.payCalls != tt.wantPay {
				t.Errorf("cart=%d pay=%d, want cart=%d pay=%d", tt.api.cartCalls, tt.api.payCalls, tt.wantCart, tt.wantPay)
			}
			if tt.wantErrIs == nil && res.Err != nil {
				t.Errorf("err = %v", res.Err)
			}
			if tt.wantErrIs != nil && !errors.Is(res.Err, tt.wantErrIs) {
				t.Errorf("err = %v, want %v", res.Err, tt.wantErrIs)
			}
		})
	}
}

func TestCompleteDeliveryPassesOrderIDsAndCOD(t *testing.T) {
	api := &mockDeliveryAPI{cartIDs: []OrderID{NewOrderID("A"), NewOrderID("B")}}
	NewOrchestrator(api, quietLogger()).CompleteDelivery(context.Background(), testSession, "T1", shipment)

	if len(api.paidIDs) != 2 || api.paidIDs[0].String() != "A" || api.paidIDs[1].String() != "B" {
		t.Errorf("paid ids = %v", api.paidIDs)
	}
	if api.paidCOD != 199 {
		t.Errorf("cod = %v", api.paidCOD)
	}
}

func TestDeliverAll(t *testing.T) {
	trip := models.Trip{TripID: "T1", Shipments: []models.Shipment{
		{ShipmentID: "S1", CustomerAddress: "4 Lake View Road", Status: "pending"},
		{ShipmentID: "S2", CustomerAddress: "9 Hill Street", Status: "pending"},
		{ShipmentID: "S3", CustomerAddress: "LAKE VIEW apartments", Status: "delivered"},
		{ShipmentID: "S4", CustomerAddress: "lake view tower", Status: "pending"},
	}}
	api := &mockDeliveryAPI{arriveErr: errors.New("gps")}
	o := NewOrchestrator(api, quietLogger())

	var progress []string
	ctx := platform.WithProgress(context.Background(), func(msg string) { progress = append(progress, msg) })
	results := o.DeliverAll(ctx, testSession, trip, All(AddressContains("Lake View"), Pending()))

	if len(results) != 2 || results[0].ShipmentID != "S1" || results[1].ShipmentID != "S4" {
		t.Fatalf("results = %+v", results)
	}
	for _, r := range results {
		if r.Outcome != OutcomeArrivalFailed {
			t.Errorf("%s outcome = %s", r.ShipmentID, r.Outcome)
		}
	}
	if api.arriveCalls != 2 || api.cartCalls != 0 {
		t.Errorf("arrive=%d cart=%d", api.arriveCalls, api.cartCalls)
	}
	if len(progress) != 2 || progress[1] != "Delivering 2/2: S4" {
		t.Errorf("progress = %v", progress)
	}
}

func TestDeliverAllSequential(t *testing.T) {
	trip := models.Trip{TripID: "T1", Shipments: []models.Shipment{{ShipmentID: "A"}, {ShipmentID: "B"}}}
	api := &mockDeliveryAPI{cartIDs: []OrderID{NewOrderID("1")}}
	NewOrchestrator(api, quietLogger()).DeliverAll(context.Background(), testSession, trip, nil)

	want := []string{"arrive:A", "cart:A", "pay:A", "arrive:B", "cart:B", "pay:B"}
	if len(api.order) != len(want) {
		t.Fatalf("order = %v", api.order)
	}
	for i := range want {
		if api.order[i] != want[i] {
			t.Fatalf("order = %v, want %v", api.order, want)
		}
	}
}

func TestDeliverAllStopsWhenCancelled(t *testing.T) {
	trip := models.Trip{Shipments: []models.Shipment{{ShipmentID: "A"}, {ShipmentID: "B"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := &mockDeliveryAPI{}
	if res := NewOrchestrator(api, quietLogger()).DeliverAll(ctx, testSession, trip, nil); len(res) != 0 {
		t.Fatalf("results = %v", res)
	}
	if api.arriveCalls != 0 {
		t.Fatalf("arrive calls = %d", api.arriveCalls)
	}
}
