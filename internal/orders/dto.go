package orders

import (
	"time"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// AdminFilters narrows the back-office order listing.
type AdminFilters struct {
	Status enums.OrderStatus
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// TrackingStep is one milestone on the tracking page.
type TrackingStep struct {
	Status  enums.OrderStatus `json:"status"`
	Label   string            `json:"label"`
	Reached bool              `json:"reached"`
	Current bool              `json:"current"`
}

// Tracking is the derived delivery view for one order.
type Tracking struct {
	OrderNumber       string            `json:"order_number"`
	Status            enums.OrderStatus `json:"status"`
	ProgressPercent   int               `json:"progress_percent"`
	EstimatedDelivery *time.Time        `json:"estimated_delivery,omitempty"`
	Delayed           bool              `json:"delayed"`
	Steps             []TrackingStep    `json:"steps"`
}
