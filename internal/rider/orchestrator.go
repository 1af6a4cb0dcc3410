package rider

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/lukman83/martdash/internal/metrics"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
)

// Outcome is how a single delivery attempt ended.
type Outcome string

const (
	OutcomeDelivered       Outcome = "delivered"
	OutcomeArrivalFailed   Outcome = "arrival-failed"
	OutcomeCartFetchFailed Outcome = "cart-fetch-failed"
	OutcomeNoOrdersFound   Outcome = "no-orders-found"
	OutcomeDeliveryFailed  Outcome = "delivery-failed"
)

// ErrNoOrders is the Result error for a shipment whose carts list no orders.
var ErrNoOrders = errors.New("no order ids found for shipment")

// DeliveryAPI is the part of the rider service a delivery needs.
type DeliveryAPI interface {
	MarkArrived(ctx context.Context, sess models.AuthSession, shipmentID string, lat, lng float64) error
	CartOrderIDs(ctx context.Context, sess models.AuthSession, tripID, shipmentID string) ([]OrderID, error)
	ConfirmCashPayment(ctx context.Context, sess models.AuthSession, shipmentID string, orderIDs []OrderID, cod, lat, lng float64) error
}

// Result is the outcome of one shipment.
type Result struct {
	ShipmentID string    `json:"shipment_id"`
	Outcome    Outcome   `json:"outcome"`
	OrderIDs   []OrderID `json:"order_ids,omitempty"`
	Err        error     `json:"-"`
}

// MarshalJSON adds the error text as "error".
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// OK reports whether the shipment was delivered.
func (r Result) OK() bool { return r.Outcome == OutcomeDelivered }

// Orchestrator runs the arrive, resolve, pay sequence.
type Orchestrator struct {
	api    DeliveryAPI
	logger *slog.Logger
}

func NewOrchestrator(api DeliveryAPI, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{api: api, logger: logger.With("component", "rider")}
}

// CompleteDelivery arrives at the drop location, resolves the shipment's
// order ids and confirms cash payment. The first failing step decides the
// outcome and nothing after it runs. Arrival is never undone.
func (o *Orchestrator) CompleteDelivery(ctx context.Context, sess models.AuthSession, tripID string, s models.Shipment) Result {
	res := o.completeDelivery(ctx, sess, tripID, s)
	o.record(res)
	return res
}

func (o *Orchestrator) completeDelivery(ctx context.Context, sess models.AuthSession, tripID string, s models.Shipment) Result {
	res := Result{ShipmentID: s.ShipmentID}
	lat, lng := s.CustomerLatitude, s.CustomerLongitude

	if err := o.api.MarkArrived(ctx, sess, s.ShipmentID, lat, lng); err != nil {
		res.Outcome, res.Err = OutcomeArrivalFailed, err
		return res
	}

	// A failed lookup is cart-fetch-failed; a lookup that answers with an
	// empty list is no-orders-found.
	ids, err := o.api.CartOrderIDs(ctx, sess, tripID, s.ShipmentID)
	if err != nil {
		res.Outcome, res.Err = OutcomeCartFetchFailed, err
		return res
	}
	if len(ids) == 0 {
		res.Outcome, res.Err = OutcomeNoOrdersFound, ErrNoOrders
		return res
	}
	res.OrderIDs = ids

	if err := o.api.ConfirmCashPayment(ctx, sess, s.ShipmentID, ids, s.CODAmount, lat, lng); err != nil {
		res.Outcome, res.Err = OutcomeDeliveryFailed, err
		return res
	}
	res.Outcome = OutcomeDelivered
	return res
}

func (o *Orchestrator) record(res Result) {
	metrics.DeliveriesTotal.WithLabelValues(string(res.Outcome)).Inc()
	if res.OK() {
		o.logger.Info("shipment delivered", "shipment_id", res.ShipmentID, "orders", len(res.OrderIDs))
		return
	}
	o.logger.Warn("shipment not delivered", "shipment_id", res.ShipmentID, "outcome", res.Outcome, "error", res.Err)
}

// Predicate selects shipments for DeliverAll.
type Predicate func(models.Shipment) bool

// AddressContains matches shipments whose address contains substr, ignoring case.
func AddressContains(substr string) Predicate {
	needle := strings.ToLower(substr)
	return func(s models.Shipment) bool {
		return strings.Contains(strings.ToLower(s.CustomerAddress), needle)
	}
}

// Pending matches shipments not yet delivered.
func Pending() Predicate {
	return func(s models.Shipment) bool {
		return !strings.EqualFold(s.Status, string(OutcomeDelivered))
	}
}

// All matches when every predicate does.
func All(preds ...Predicate) Predicate {
	return func(s models.Shipment) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// DeliverAll runs CompleteDelivery for each matching shipment, one at a time
// in listing order. A failure never stops the batch. A cancelled context
// stops before the next shipment.
func (o *Orchestrator) DeliverAll(ctx context.Context, sess models.AuthSession, trip models.Trip, match Predicate) []Result {
	var targets []models.Shipment
	for _, s := range trip.Shipments {
		if match == nil || match(s) {
			targets = append(targets, s)
		}
	}

	results := make([]Result, 0, len(targets))
	for i, s := range targets {
		if ctx.Err() != nil {
			break
		}
		platform.Reportf(ctx, "Delivering %d/%d: %s", i+1, len(targets), s.ShipmentID)
		results = append(results, o.CompleteDelivery(ctx, sess, trip.TripID, s))
	}
	return results
}
