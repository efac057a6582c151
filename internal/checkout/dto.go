package checkout

import (
	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/internal/pricing"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	"github.com/vastralabs/vastra-backend/pkg/types"
)

// BuyNowItem is a transient single-product purchase that bypasses the cart.
type BuyNowItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// QuoteInput prices a cart (or buy-now item) without creating anything.
type QuoteInput struct {
	UserID     *uuid.UUID
	BuyNow     *BuyNowItem
	CouponCode string
	Method     enums.PaymentMethod
}

// QuoteResult is the priced breakdown plus method availability.
type QuoteResult struct {
	Quote            pricing.Quote         `json:"quote"`
	Method           enums.PaymentMethod   `json:"method"`
	AvailableMethods []enums.PaymentMethod `json:"available_methods"`
	CODAllowed       bool                  `json:"cod_allowed"`
}

// CheckoutInput carries everything needed to place an order. Guests leave
// UserID nil and fill the contact fields instead.
type CheckoutInput struct {
	UserID          *uuid.UUID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	BuyNow          *BuyNowItem
	CouponCode      string
	Method          enums.PaymentMethod
	ShippingAddress types.ShippingAddress
}

// RazorpayIntent is handed to the client to open the hosted widget.
type RazorpayIntent struct {
	GatewayOrderID string `json:"gateway_order_id"`
	KeyID          string `json:"key_id"`
	AmountPaise    int64  `json:"amount_paise"`
	Currency       string `json:"currency"`
}

// RazorpayCallback is the gateway's signed payment confirmation.
type RazorpayCallback struct {
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// UPIOrder is the manual-collect response: the pending order plus the deep
// link the customer pays through. QR rendering happens client-side.
type UPIOrder struct {
	Order       *models.Order `json:"order"`
	PaymentLink string        `json:"payment_link"`
}
