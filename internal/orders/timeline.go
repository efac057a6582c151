package orders

import (
	"math"
	"time"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// statusWindow is the expected min/max days an order spends in a status
// before the next milestone.
type statusWindow struct {
	minDays int
	maxDays int
}

var statusWindows = map[enums.OrderStatus]statusWindow{
	enums.OrderStatusPending:              {minDays: 0, maxDays: 1},
	enums.OrderStatusAwaitingPayment:      {minDays: 0, maxDays: 1},
	enums.OrderStatusAwaitingVerification: {minDays: 0, maxDays: 2},
	enums.OrderStatusConfirmed:            {minDays: 5, maxDays: 7},
	enums.OrderStatusShipped:              {minDays: 2, maxDays: 4},
}

var milestoneOrder = []enums.OrderStatus{
	enums.OrderStatusConfirmed,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

var stepLabels = map[enums.OrderStatus]string{
	enums.OrderStatusPending:              "Order placed",
	enums.OrderStatusAwaitingPayment:      "Awaiting payment",
	enums.OrderStatusAwaitingVerification: "Verifying payment",
	enums.OrderStatusConfirmed:            "Order confirmed",
	enums.OrderStatusShipped:              "Shipped",
	enums.OrderStatusDelivered:            "Delivered",
	enums.OrderStatusCancelled:            "Cancelled",
}

// BuildTracking derives the tracking view from the order's current status and
// when it entered that status.
func BuildTracking(order *models.Order, now time.Time) *Tracking {
	t := &Tracking{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Steps:       buildSteps(order.Status),
	}

	switch order.Status {
	case enums.OrderStatusDelivered:
		t.ProgressPercent = 100
		return t
	case enums.OrderStatusCancelled:
		return t
	}

	window, ok := statusWindows[order.Status]
	if !ok {
		return t
	}

	eta := order.StatusChangedAt.AddDate(0, 0, etaDays(window))
	t.EstimatedDelivery = &eta
	t.ProgressPercent = progressPercent(order.StatusChangedAt, now, window)
	t.Delayed = now.After(order.StatusChangedAt.AddDate(0, 0, window.maxDays))
	return t
}

// etaDays is the midpoint of the window, rounded up.
func etaDays(w statusWindow) int {
	return int(math.Ceil(float64(w.minDays+w.maxDays) / 2))
}

// progressPercent is elapsed time over the allotted maximum, clamped to
// 0..100. A zero-width window reports 100 immediately.
func progressPercent(since, now time.Time, w statusWindow) int {
	allotted := time.Duration(w.maxDays) * 24 * time.Hour
	if allotted <= 0 {
		return 100
	}
	elapsed := now.Sub(since)
	pct := int(elapsed * 100 / allotted)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func buildSteps(current enums.OrderStatus) []TrackingStep {
	if current == enums.OrderStatusCancelled {
		return []TrackingStep{{
			Status:  enums.OrderStatusCancelled,
			Label:   stepLabels[enums.OrderStatusCancelled],
			Reached: true,
			Current: true,
		}}
	}

	statuses := milestoneOrder
	// pre-confirmation states appear as the leading step
	if current == enums.OrderStatusPending ||
		current == enums.OrderStatusAwaitingPayment ||
		current == enums.OrderStatusAwaitingVerification {
		statuses = append([]enums.OrderStatus{current}, milestoneOrder...)
	}

	steps := make([]TrackingStep, 0, len(statuses))
	passed := false
	for _, status := range statuses {
		steps = append(steps, TrackingStep{
			Status:  status,
			Label:   stepLabels[status],
			Reached: !passed,
			Current: status == current,
		})
		if status == current {
			passed = true
		}
	}
	return steps
}
