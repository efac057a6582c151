package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// Coupon is an admin-managed discount code. DiscountValue holds a percentage
// (0-100) for percentage coupons and paise for fixed ones.
type Coupon struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType     enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue    int64              `gorm:"column:discount_value;not null"`
	MinOrderPaise    int64              `gorm:"column:min_order_paise;not null;default:0"`
	MaxDiscountPaise *int64             `gorm:"column:max_discount_paise"`
	UsageLimit       *int               `gorm:"column:usage_limit"`
	UsedCount        int                `gorm:"column:used_count;not null;default:0"`
	ValidFrom        time.Time          `gorm:"column:valid_from;not null"`
	ValidUntil       *time.Time         `gorm:"column:valid_until"`
	IsActive         bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
