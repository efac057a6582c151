package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/razorpay"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RazorpayGateway is the slice of the Razorpay client checkout uses,
// extracted so tests can stub the gateway.
type RazorpayGateway interface {
	KeyID() string
	CreateOrder(amountPaise int64, receipt string) (*razorpay.GatewayOrder, error)
	FetchOrder(gatewayOrderID string) (*razorpay.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
}

// Service prices carts and places orders across the payment methods.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)

	CreateRazorpayIntent(ctx context.Context, input CheckoutInput) (*RazorpayIntent, error)
	VerifyRazorpayPayment(ctx context.Context, input CheckoutInput, callback RazorpayCallback) (*models.Order, error)

	PayWithUPI(ctx context.Context, input CheckoutInput) (*UPIOrder, error)
	ConfirmUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID, paymentReference string) (*models.Order, error)
	AbandonUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID) error

	PayWithCOD(ctx context.Context, input CheckoutInput) (*models.Order, error)
}
