package evaluator

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robbyt/go-payoffscript/machines/payoff/node"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// Outcome labels of payoff_evaluations_total.
const (
	OutcomeOK          = "ok"
	OutcomeDomainError = "domain_error"
	OutcomeUnbound     = "unbound"
	OutcomeMalformed   = "malformed"
	OutcomeCanceled    = "canceled"
	OutcomeError       = "error"
)

// metrics holds the evaluator's Prometheus collectors. A nil *metrics
// records nothing.
type metrics struct {
	evaluations *prometheus.CounterVec
	payments    prometheus.Counter
	duration    prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	evaluations, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payoff_evaluations_total",
			Help: "Total number of payoff script evaluations, by outcome",
		},
		[]string{"outcome"},
	))
	if err != nil {
		return nil, err
	}

	payments, err := register(reg, prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payoff_payments_total",
			Help: "Total number of payments recorded by successful evaluations",
		},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payoff_evaluation_duration_seconds",
			Help:    "Duration of payoff script evaluations",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
	))
	if err != nil {
		return nil, err
	}

	return &metrics{evaluations: evaluations, payments: payments, duration: duration}, nil
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor so several evaluators can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return c, err
}

func (m *metrics) observe(outcome string, elapsed time.Duration, payments int) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if payments > 0 {
		m.payments.Add(float64(payments))
	}
}

// outcomeOf classifies an evaluation error for the outcome label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.Is(err, vm.ErrDomain):
		return OutcomeDomainError
	case errors.Is(err, vm.ErrUnbound):
		return OutcomeUnbound
	case errors.Is(err, node.ErrMalformed):
		return OutcomeMalformed
	}
	return OutcomeError
}
