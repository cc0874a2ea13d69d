package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuoteDuration tracks the latency of quote computations.
	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_quote_duration_seconds",
			Help:    "Duration of quote computation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"status"},
	)

	// DiscountValidations counts discount code validation outcomes.
	DiscountValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_discount_validations_total",
			Help: "Discount code validation attempts by outcome",
		},
		[]string{"outcome"},
	)

	// CatalogMutations counts admin catalog mutations by operation.
	CatalogMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_catalog_mutations_total",
			Help: "Admin catalog mutations by operation",
		},
		[]string{"operation"},
	)
)

// RecordQuoteDuration records the duration of a quote computation.
func RecordQuoteDuration(status string, seconds float64) {
	QuoteDuration.WithLabelValues(status).Observe(seconds)
}

// RecordDiscountValidation records a validation outcome
// (ok, not_found, inactive, expired, already_used, error).
func RecordDiscountValidation(outcome string) {
	DiscountValidations.WithLabelValues(outcome).Inc()
}

// RecordCatalogMutation records an admin catalog mutation.
func RecordCatalogMutation(operation string) {
	CatalogMutations.WithLabelValues(operation).Inc()
}
