package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one purchased line at the moment of checkout.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	ImageURL       *string    `gorm:"column:image_url"`
	UnitPricePaise int64      `gorm:"column:unit_price_paise;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	Size           string     `gorm:"column:size;not null;default:''"`
	Color          string     `gorm:"column:color;not null;default:''"`
	TotalPaise     int64      `gorm:"column:total_paise;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
