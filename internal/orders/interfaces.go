package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	"github.com/vastralabs/vastra-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	List(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, at time.Time) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountNonCancelledByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	FindStaleAwaiting(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// StatusPublisher pushes a tracking event after a status change commits.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

// Voider runs the checkout compensation for an order.
type Voider interface {
	VoidOrder(ctx context.Context, orderID uuid.UUID) error
}

// Service exposes customer and admin order operations.
type Service interface {
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	CancelForUser(ctx context.Context, userID, orderID uuid.UUID) error
	Track(ctx context.Context, orderID uuid.UUID, now time.Time) (*Tracking, error)
	AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}
