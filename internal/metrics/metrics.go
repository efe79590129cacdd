package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Total number of cart mutations attempted, by operation and result.",
		},
		[]string{"operation", "result"},
	)

	couponValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_coupon_validations_total",
			Help: "Total number of coupon validation attempts, by result.",
		},
		[]string{"result"},
	)

	checkoutSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_submissions_total",
			Help: "Total number of order submissions, by result.",
		},
		[]string{"result"},
	)

	paymentOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_payment_outcomes_total",
			Help: "Simulated payment outcomes, by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
)

const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func RecordCartOperation(operation, result string) {
	cartOperationsTotal.WithLabelValues(operation, result).Inc()
}

func RecordCouponValidation(result string) {
	couponValidationsTotal.WithLabelValues(result).Inc()
}

func RecordCheckoutSubmission(result string) {
	checkoutSubmissionsTotal.WithLabelValues(result).Inc()
}

func RecordPaymentOutcome(method, outcome string) {
	paymentOutcomesTotal.WithLabelValues(method, outcome).Inc()
}

func ObserveAPIRequest(method, endpoint, status string, duration time.Duration) {
	apiRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
