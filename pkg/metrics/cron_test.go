package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			if label == "" || hasLabel(m, label) {
				if m.GetCounter() != nil {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, value string) bool {
	for _, l := range m.GetLabel() {
		if l.GetValue() == value {
			return true
		}
	}
	return false
}

func TestCronJobMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("stale_orders")
	m.IncSuccess("stale_orders")
	m.IncFailure("coupon_expiry")
	m.ObserveDuration("stale_orders", 250*time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, reg, "job_success", "stale_orders"))
	assert.Equal(t, float64(1), counterValue(t, reg, "job_failure", "coupon_expiry"))
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.IncSuccess("x")
	m.IncFailure("x")
	m.ObserveDuration("x", time.Second)

	empty := NewCronJobMetrics(nil)
	empty.IncSuccess("x")
}

func TestPaymentMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.IncAttempt("razorpay")
	m.IncAttempt("razorpay")
	m.IncFailure("razorpay")
	m.IncVoid()

	assert.Equal(t, float64(2), counterValue(t, reg, "payment_attempts_total", "razorpay"))
	assert.Equal(t, float64(1), counterValue(t, reg, "payment_failures_total", "razorpay"))
	assert.Equal(t, float64(1), counterValue(t, reg, "order_voids_total", ""))
}
