package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics counts checkout payment attempts per gateway.
type PaymentMetrics struct {
	attempts *prometheus.CounterVec
	failures *prometheus.CounterVec
	voids    prometheus.Counter
}

// NewPaymentMetrics registers payment counters on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Checkout payment attempts by method.",
	}, []string{"method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_failures_total",
		Help: "Failed checkout payment attempts by method.",
	}, []string{"method"})
	voids := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_voids_total",
		Help: "Orders rolled back after a failed payment hand-off.",
	})
	reg.MustRegister(attempts, failures, voids)
	return &PaymentMetrics{
		attempts: attempts,
		failures: failures,
		voids:    voids,
	}
}

// IncAttempt counts a payment attempt for the method.
func (p *PaymentMetrics) IncAttempt(method string) {
	if p == nil || p.attempts == nil {
		return
	}
	p.attempts.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncFailure counts a failed payment attempt for the method.
func (p *PaymentMetrics) IncFailure(method string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncVoid counts an order rollback.
func (p *PaymentMetrics) IncVoid() {
	if p == nil || p.voids == nil {
		return
	}
	p.voids.Inc()
}
