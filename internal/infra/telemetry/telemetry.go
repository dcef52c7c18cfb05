package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the domain-level Prometheus instruments. HTTP request
// metrics live in the transport middleware.
type Metrics struct {
	LoginFailures   prometheus.Counter
	AccountLockouts prometheus.Counter
	BulkItemsTotal  *prometheus.CounterVec
}

// NewMetrics registers the portal's domain metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "brgy",
			Name:      "login_failures_total",
			Help:      "Total number of failed login attempts",
		}),
		AccountLockouts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "brgy",
			Name:      "account_lockouts_total",
			Help:      "Total number of accounts locked by the lockout guard",
		}),
		BulkItemsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brgy",
			Name:      "bulk_status_items_total",
			Help:      "Bulk status update items by outcome",
		}, []string{"outcome"}),
	}
}

// RecordBulkItems counts processed bulk update items by outcome.
func (m *Metrics) RecordBulkItems(updated, failed int) {
	if m == nil {
		return
	}
	m.BulkItemsTotal.WithLabelValues("updated").Add(float64(updated))
	m.BulkItemsTotal.WithLabelValues("failed").Add(float64(failed))
}
