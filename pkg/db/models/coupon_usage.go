package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponUsage is the audit row written per redemption.
type CouponUsage struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID      uuid.UUID  `gorm:"column:coupon_id;type:uuid;not null"`
	OrderID       uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	UserID        *uuid.UUID `gorm:"column:user_id;type:uuid"`
	DiscountPaise int64      `gorm:"column:discount_paise;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
