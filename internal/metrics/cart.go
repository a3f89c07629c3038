package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CartMetrics records stock-moving cart operations.
type CartMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	conflicts  *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer. A nil
// registerer yields a recorder that drops everything.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by name and outcome.",
	}, []string{"op", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_version_conflicts_total",
		Help: "Optimistic version conflicts hit while adjusting stock.",
	}, []string{"op"})
	reg.MustRegister(operations, duration, conflicts)
	return &CartMetrics{
		operations: operations,
		duration:   duration,
		conflicts:  conflicts,
	}
}

// Observe records one finished operation.
func (m *CartMetrics) Observe(op string, started time.Time, err error) {
	if m == nil || m.operations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	op = normalizeLabel(op)
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *CartMetrics) IncConflict(op string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
