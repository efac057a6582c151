package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
)

func trackedOrder(status enums.OrderStatus, changedAt time.Time) *models.Order {
	return &models.Order{
		OrderNumber:     "VST-1001",
		Status:          status,
		StatusChangedAt: changedAt,
	}
}

func TestBuildTrackingConfirmed(t *testing.T) {
	changed := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	now := changed.Add(3 * 24 * time.Hour) // 3 of 7 allotted days

	tr := BuildTracking(trackedOrder(enums.OrderStatusConfirmed, changed), now)

	// midpoint of 5..7 days rounded up
	require.NotNil(t, tr.EstimatedDelivery)
	assert.Equal(t, changed.AddDate(0, 0, 6), *tr.EstimatedDelivery)
	assert.Equal(t, 42, tr.ProgressPercent)
	assert.False(t, tr.Delayed)

	require.Len(t, tr.Steps, 3)
	assert.True(t, tr.Steps[0].Reached)
	assert.True(t, tr.Steps[0].Current)
	assert.False(t, tr.Steps[1].Reached)
	assert.False(t, tr.Steps[2].Reached)
}

func TestBuildTrackingProgressClamps(t *testing.T) {
	changed := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	early := BuildTracking(trackedOrder(enums.OrderStatusShipped, changed), changed.Add(-time.Hour))
	assert.Equal(t, 0, early.ProgressPercent)

	late := BuildTracking(trackedOrder(enums.OrderStatusShipped, changed), changed.AddDate(0, 0, 30))
	assert.Equal(t, 100, late.ProgressPercent)
	assert.True(t, late.Delayed)
}

func TestBuildTrackingDelivered(t *testing.T) {
	tr := BuildTracking(trackedOrder(enums.OrderStatusDelivered, time.Now()), time.Now())
	assert.Equal(t, 100, tr.ProgressPercent)
	assert.Nil(t, tr.EstimatedDelivery)
	assert.False(t, tr.Delayed)
	for _, step := range tr.Steps {
		assert.True(t, step.Reached)
	}
}

func TestBuildTrackingCancelled(t *testing.T) {
	tr := BuildTracking(trackedOrder(enums.OrderStatusCancelled, time.Now()), time.Now())
	assert.Equal(t, 0, tr.ProgressPercent)
	require.Len(t, tr.Steps, 1)
	assert.Equal(t, enums.OrderStatusCancelled, tr.Steps[0].Status)
}

func TestBuildTrackingAwaitingPaymentLeadsSteps(t *testing.T) {
	tr := BuildTracking(trackedOrder(enums.OrderStatusAwaitingPayment, time.Now()), time.Now())
	require.Len(t, tr.Steps, 4)
	assert.Equal(t, enums.OrderStatusAwaitingPayment, tr.Steps[0].Status)
	assert.True(t, tr.Steps[0].Current)
	assert.False(t, tr.Steps[1].Reached)
}

func TestBuildTrackingDelayedFlag(t *testing.T) {
	changed := time.Now().AddDate(0, 0, -8)
	tr := BuildTracking(trackedOrder(enums.OrderStatusConfirmed, changed), time.Now())
	assert.True(t, tr.Delayed)
	assert.Equal(t, 100, tr.ProgressPercent)
}
