package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
)

// Repository defines persistence operations for cart items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindItem(ctx context.Context, userID, productID uuid.UUID, size, color string) (*models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ProductFinder is the catalog slice the cart needs.
type ProductFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for the storefront.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Put(ctx context.Context, input PutInput) (*models.CartItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// PutInput sets the quantity for a (product, size, color) line. Quantity
// zero or below removes the line.
type PutInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}
