package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registry.
type Metrics struct {
	CreditsIssued       prometheus.Counter
	CreditsValidated    prometheus.Counter
	CreditsTransferred  prometheus.Counter
	CreditsRetired      prometheus.Counter
	FacilitiesCertified prometheus.Counter
	AmountIssued        prometheus.Counter
	AmountRetired       prometheus.Counter
	OperationErrors     *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CreditsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_credits_issued_total",
			Help: "Total number of credits issued",
		}),
		CreditsValidated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_credits_validated_total",
			Help: "Total number of credits validated",
		}),
		CreditsTransferred: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_credits_transferred_total",
			Help: "Total number of credit ownership transfers",
		}),
		CreditsRetired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_credits_retired_total",
			Help: "Total number of credits retired",
		}),
		FacilitiesCertified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_facilities_certified_total",
			Help: "Total number of facilities certified",
		}),
		AmountIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_amount_issued_total",
			Help: "Total value amount locked into custody by issuance",
		}),
		AmountRetired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terraspark_amount_retired_total",
			Help: "Total value amount released from custody by retirement",
		}),
		OperationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "terraspark_operation_errors_total",
			Help: "Lifecycle operation failures by operation and error code",
		}, []string{"operation", "code"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "terraspark_operation_duration_seconds",
			Help:    "Lifecycle operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// ObserveOperation records the latency of a lifecycle operation.
func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrementError records a failed lifecycle operation by error code.
func (m *Metrics) IncrementError(operation, code string) {
	if m == nil {
		return
	}
	m.OperationErrors.WithLabelValues(operation, code).Inc()
}
