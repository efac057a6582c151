package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem holds one (product, quantity, variant) tuple for a user.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_product_variant"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_product_variant"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Size      string    `gorm:"column:size;not null;default:'';uniqueIndex:idx_cart_user_product_variant"`
	Color     string    `gorm:"column:color;not null;default:'';uniqueIndex:idx_cart_user_product_variant"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
