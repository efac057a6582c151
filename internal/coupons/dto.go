package coupons

import (
	"time"
)

// CreateInput is the admin payload for a new coupon.
type CreateInput struct {
	Code             string     `json:"code" validate:"required,uppercase"`
	DiscountType     string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue    int64      `json:"discount_value" validate:"gt=0"`
	MinOrderPaise    int64      `json:"min_order_paise" validate:"gte=0"`
	MaxDiscountPaise *int64     `json:"max_discount_paise"`
	UsageLimit       *int       `json:"usage_limit"`
	ValidFrom        *time.Time `json:"valid_from"`
	ValidUntil       *time.Time `json:"valid_until"`
}

// UpdateInput carries partial coupon updates; nil fields are untouched.
type UpdateInput struct {
	DiscountValue    *int64     `json:"discount_value" validate:"omitempty,gt=0"`
	MinOrderPaise    *int64     `json:"min_order_paise" validate:"omitempty,gte=0"`
	MaxDiscountPaise *int64     `json:"max_discount_paise"`
	UsageLimit       *int       `json:"usage_limit"`
	ValidUntil       *time.Time `json:"valid_until"`
	IsActive         *bool      `json:"is_active"`
}
