package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// Repository defines persistence for the payment settings singleton.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.PaymentSettings, error)
	Update(ctx context.Context, updates map[string]any) error
}

// Gateways reports which hosted gateway clients the process actually wired.
// A settings flag alone cannot advertise a method: without a client there is
// no endpoint that can complete the payment.
type Gateways struct {
	Razorpay bool
}

// Service reads and writes gateway configuration and answers availability.
type Service interface {
	Get(ctx context.Context) (*models.PaymentSettings, error)
	Update(ctx context.Context, input UpdateInput) (*models.PaymentSettings, error)
	AvailableMethods(ctx context.Context, codAllowed bool) ([]enums.PaymentMethod, enums.PaymentMethod, error)
}

// UpdateInput carries partial admin updates to the settings row.
type UpdateInput struct {
	RazorpayEnabled            *bool             `json:"razorpay_enabled"`
	PaytmEnabled               *bool             `json:"paytm_enabled"`
	CashfreeEnabled            *bool             `json:"cashfree_enabled"`
	BharatPayEnabled           *bool             `json:"bharatpay_enabled"`
	PayYouEnabled              *bool             `json:"payyou_enabled"`
	PhonePeEnabled             *bool             `json:"phonepe_enabled"`
	UPIEnabled                 *bool             `json:"upi_enabled"`
	CODEnabled                 *bool             `json:"cod_enabled"`
	UPIVPA                     *string           `json:"upi_vpa"`
	UPIPayeeName               *string           `json:"upi_payee_name"`
	ShippingEnabled            *bool             `json:"shipping_enabled"`
	FlatShippingPaise          *int64            `json:"flat_shipping_paise" validate:"omitempty,gte=0"`
	FreeShippingThresholdPaise *int64            `json:"free_shipping_threshold_paise" validate:"omitempty,gte=0"`
	GatewaySurchargesPaise     *map[string]int64 `json:"gateway_surcharges_paise"`
}
