package service

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts completed checkouts and per-step failures. A nil
// receiver is a no-op so tests and minimal wiring can skip registration.
type CheckoutMetrics struct {
	completed    prometheus.Counter
	stepFailures *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	m := &CheckoutMetrics{
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_checkouts_completed_total",
			Help: "Checkouts that committed all four steps.",
		}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_checkout_step_failures_total",
			Help: "Checkout failures by step number.",
		}, []string{"step"}),
	}
	reg.MustRegister(m.completed, m.stepFailures)
	return m
}

func (m *CheckoutMetrics) Completed() {
	if m != nil {
		m.completed.Inc()
	}
}

func (m *CheckoutMetrics) StepFailed(step int) {
	if m != nil {
		m.stepFailures.WithLabelValues(strconv.Itoa(step)).Inc()
	}
}
