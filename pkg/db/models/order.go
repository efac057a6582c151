package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/enums"
	"github.com/vastralabs/vastra-backend/pkg/types"
)

// Order is the checkout result. The item list is an immutable snapshot taken
// at purchase time; guest checkouts carry contact fields instead of a user id.
type Order struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      string                 `gorm:"column:order_number;not null;uniqueIndex"`
	UserID           *uuid.UUID             `gorm:"column:user_id;type:uuid"`
	GuestName        *string                `gorm:"column:guest_name"`
	GuestEmail       *string                `gorm:"column:guest_email"`
	GuestPhone       *string                `gorm:"column:guest_phone"`
	Status           enums.OrderStatus      `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod    `gorm:"column:payment_method;not null"`
	BuyNow           bool                   `gorm:"column:buy_now;not null;default:false"`
	PaymentReference *string                `gorm:"column:payment_reference"`
	GatewayOrderID   *string                `gorm:"column:gateway_order_id"`
	SubtotalPaise    int64                  `gorm:"column:subtotal_paise;not null"`
	ShippingPaise    int64                  `gorm:"column:shipping_paise;not null;default:0"`
	DiscountPaise    int64                  `gorm:"column:discount_paise;not null;default:0"`
	TotalPaise       int64                  `gorm:"column:total_paise;not null"`
	CouponCode       *string                `gorm:"column:coupon_code"`
	ShippingAddress  *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	StatusChangedAt  time.Time              `gorm:"column:status_changed_at;not null"`
	CancelledAt      *time.Time             `gorm:"column:cancelled_at"`
	Items            []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
