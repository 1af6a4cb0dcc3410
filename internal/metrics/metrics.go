// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SearchesTotal counts catalog searches by result ("ok" or "error").
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "martdash_searches_total",
		Help: "Catalog searches by result.",
	}, []string{"result"})

	// HotDealsTotal counts deals above the hot threshold.
	HotDealsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "martdash_hot_deals_total",
		Help: "Products whose headline discount beat the hot-deal threshold.",
	})

	// DealsSavedTotal counts rows actually appended to the deal store.
	DealsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "martdash_deals_saved_total",
		Help: "New rows written to the deal store.",
	})

	// DeliveriesTotal counts delivery attempts by outcome.
	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "martdash_deliveries_total",
		Help: "Delivery attempts by outcome.",
	}, []string{"outcome"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
