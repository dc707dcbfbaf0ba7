// Package metrics provides Prometheus metrics for the vetdose API: HTTP
// request counters/latency plus catalog-level gauges updated on each load.
// All metrics register with the default registry at package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	CatalogMedications = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_medications_total",
			Help: "Number of medications in the active catalog",
		},
	)

	CatalogLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog load attempts by outcome",
		},
		[]string{"result"},
	)

	DoseCalculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dose_calculations_total",
			Help: "Dose calculations by outcome",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(CatalogMedications)
	prometheus.MustRegister(CatalogLoads)
	prometheus.MustRegister(DoseCalculations)
}
