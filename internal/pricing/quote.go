// Package pricing computes checkout quotes. Everything here is pure: inputs
// are snapshots of cart lines, coupon terms, and payment settings, and the
// output is a paise breakdown. Persistence and coupon validation live in the
// checkout and coupons packages.
package pricing

import (
	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// LineItem is one cart line snapshot at quote time.
type LineItem struct {
	ProductID             uuid.UUID
	ProductName           string
	ProductImage          string
	Size                  string
	Color                 string
	Quantity              int
	UnitPricePaise        int64
	ShippingOverridePaise *int64
	CODAvailable          bool
}

// CouponTerms is the discount shape of an already-validated coupon.
type CouponTerms struct {
	Code             string
	DiscountType     enums.DiscountType
	DiscountValue    int64
	MaxDiscountPaise *int64
	AutoApplied      bool
}

// Settings is the shipping/surcharge slice of the payment settings row.
type Settings struct {
	ShippingEnabled            bool
	FlatShippingPaise          int64
	FreeShippingThresholdPaise int64
	GatewaySurchargesPaise     map[string]int64
}

// Quote is the computed paise breakdown for a cart.
type Quote struct {
	SubtotalPaise     int64  `json:"subtotal_paise"`
	ShippingPaise     int64  `json:"shipping_paise"`
	DiscountPaise     int64  `json:"discount_paise"`
	TotalPaise        int64  `json:"total_paise"`
	CouponCode        string `json:"coupon_code,omitempty"`
	CouponAutoApplied bool   `json:"coupon_auto_applied,omitempty"`
}

// Compute derives the full quote. Coupon may be nil.
func Compute(items []LineItem, coupon *CouponTerms, settings Settings, method enums.PaymentMethod) Quote {
	subtotal := Subtotal(items)
	shipping := Shipping(items, subtotal, settings, method)
	discount := Discount(subtotal, shipping, coupon)

	total := subtotal + shipping - discount
	if total < 0 {
		total = 0
	}

	q := Quote{
		SubtotalPaise: subtotal,
		ShippingPaise: shipping,
		DiscountPaise: discount,
		TotalPaise:    total,
	}
	if coupon != nil {
		q.CouponCode = coupon.Code
		q.CouponAutoApplied = coupon.AutoApplied
	}
	return q
}

// Subtotal sums unit price times quantity across lines.
func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		sum += item.UnitPricePaise * int64(item.Quantity)
	}
	return sum
}

// Shipping applies the settings hierarchy: disabled wins, then per-product
// overrides (free-shipping threshold does not apply to overrides), then the
// free threshold, then the flat charge. Gateway surcharge is added whenever a
// non-zero base charge applies.
func Shipping(items []LineItem, subtotal int64, settings Settings, method enums.PaymentMethod) int64 {
	if !settings.ShippingEnabled {
		return 0
	}

	surcharge := settings.GatewaySurchargesPaise[method.String()]

	var overrides int64
	hasOverride := false
	for _, item := range items {
		if item.ShippingOverridePaise != nil {
			hasOverride = true
			overrides += *item.ShippingOverridePaise
		}
	}
	if hasOverride {
		return overrides + surcharge
	}

	if settings.FreeShippingThresholdPaise > 0 && subtotal >= settings.FreeShippingThresholdPaise {
		return 0
	}
	return settings.FlatShippingPaise + surcharge
}

// Discount computes the coupon discount, capped first at the coupon's max
// discount and then at subtotal+shipping so the order can never go negative.
func Discount(subtotal, shipping int64, coupon *CouponTerms) int64 {
	if coupon == nil {
		return 0
	}

	var discount int64
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = subtotal * coupon.DiscountValue / 100
	case enums.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if coupon.MaxDiscountPaise != nil && discount > *coupon.MaxDiscountPaise {
		discount = *coupon.MaxDiscountPaise
	}
	if ceiling := subtotal + shipping; discount > ceiling {
		discount = ceiling
	}
	return discount
}

// CODAllowed reports whether every line permits cash on delivery.
func CODAllowed(items []LineItem) bool {
	for _, item := range items {
		if !item.CODAvailable {
			return false
		}
	}
	return len(items) > 0
}
