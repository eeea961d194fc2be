// ABOUTME: Prometheus instrumentation for account store operations
// ABOUTME: A nil *Metrics is valid and records nothing

package store

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	opRegister     = "register"
	opAuthenticate = "authenticate"
	opGetInfo      = "get_info"
)

// Outcome labels.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected" // duplicate username, bad credentials, unknown account
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// Metrics holds the store's Prometheus collectors.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coven_accounts",
				Name:      "operations_total",
				Help:      "Total account store operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "coven_accounts",
				Name:      "operation_duration_seconds",
				Help:      "Duration of account store operations in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
			},
			[]string{"operation"},
		),
	}

	if reg == nil {
		return m, nil
	}
	if err := reg.Register(m.operations); err != nil {
		return nil, fmt.Errorf("registering operations counter: %w", err)
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, fmt.Errorf("registering duration histogram: %w", err)
	}
	return m, nil
}

func (m *Metrics) observe(op, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) since(op string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
