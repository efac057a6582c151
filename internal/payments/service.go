package payments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

type service struct {
	repo     Repository
	gateways Gateways
}

// NewService builds the payment settings service.
func NewService(repo Repository, gateways Gateways) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	return &service{repo: repo, gateways: gateways}, nil
}

func (s *service) Get(ctx context.Context) (*models.PaymentSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// migration seeds the row; a missing row means a broken deploy
			return nil, apperrors.New(apperrors.CodeInternal, "payment settings row missing")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading payment settings")
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.PaymentSettings, error) {
	updates := map[string]any{}
	setBool := func(column string, v *bool) {
		if v != nil {
			updates[column] = *v
		}
	}
	setBool("razorpay_enabled", input.RazorpayEnabled)
	setBool("paytm_enabled", input.PaytmEnabled)
	setBool("cashfree_enabled", input.CashfreeEnabled)
	setBool("bharatpay_enabled", input.BharatPayEnabled)
	setBool("payyou_enabled", input.PayYouEnabled)
	setBool("phonepe_enabled", input.PhonePeEnabled)
	setBool("upi_enabled", input.UPIEnabled)
	setBool("cod_enabled", input.CODEnabled)
	setBool("shipping_enabled", input.ShippingEnabled)
	if input.UPIVPA != nil {
		updates["upi_vpa"] = *input.UPIVPA
	}
	if input.UPIPayeeName != nil {
		updates["upi_payee_name"] = *input.UPIPayeeName
	}
	if input.FlatShippingPaise != nil {
		updates["flat_shipping_paise"] = *input.FlatShippingPaise
	}
	if input.FreeShippingThresholdPaise != nil {
		updates["free_shipping_threshold_paise"] = *input.FreeShippingThresholdPaise
	}
	if input.GatewaySurchargesPaise != nil {
		updates["gateway_surcharges_paise"] = *input.GatewaySurchargesPaise
	}
	if len(updates) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "no fields to update")
	}

	// Enabling manual UPI without a VPA would mint unpayable links.
	if input.UPIEnabled != nil && *input.UPIEnabled {
		current, err := s.Get(ctx)
		if err != nil {
			return nil, err
		}
		vpa := current.UPIVPA
		if input.UPIVPA != nil {
			vpa = *input.UPIVPA
		}
		if vpa == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "set a upi vpa before enabling upi payments")
		}
	}

	if err := s.repo.Update(ctx, updates); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating payment settings")
	}
	return s.Get(ctx)
}

func (s *service) AvailableMethods(ctx context.Context, codAllowed bool) ([]enums.PaymentMethod, enums.PaymentMethod, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, enums.PaymentMethodNone, err
	}
	methods := MethodsFor(settings, codAllowed, s.gateways)
	return methods, DefaultMethod(methods), nil
}

// MethodsFor derives the enabled method list from the settings row. COD needs
// both the global flag and every cart product allowing it; hosted gateways
// additionally need their client wired, so paytm/cashfree/bharatpay/payyou/
// phonepe stay unavailable until an integration exists for them.
func MethodsFor(settings *models.PaymentSettings, codAllowed bool, gateways Gateways) []enums.PaymentMethod {
	wired := map[enums.PaymentMethod]bool{
		enums.PaymentMethodRazorpay: gateways.Razorpay,
	}
	enabled := map[enums.PaymentMethod]bool{
		enums.PaymentMethodRazorpay:  settings.RazorpayEnabled && wired[enums.PaymentMethodRazorpay],
		enums.PaymentMethodPaytm:     settings.PaytmEnabled && wired[enums.PaymentMethodPaytm],
		enums.PaymentMethodCashfree:  settings.CashfreeEnabled && wired[enums.PaymentMethodCashfree],
		enums.PaymentMethodBharatPay: settings.BharatPayEnabled && wired[enums.PaymentMethodBharatPay],
		enums.PaymentMethodPayYou:    settings.PayYouEnabled && wired[enums.PaymentMethodPayYou],
		enums.PaymentMethodPhonePe:   settings.PhonePeEnabled && wired[enums.PaymentMethodPhonePe],
		enums.PaymentMethodUPI:       settings.UPIEnabled && settings.UPIVPA != "",
		enums.PaymentMethodCOD:       settings.CODEnabled && codAllowed,
		// razorpay's UPI flow still settles through the manual collect path
		enums.PaymentMethodRazorpayUPI: settings.RazorpayEnabled && settings.UPIEnabled && settings.UPIVPA != "",
	}

	var methods []enums.PaymentMethod
	for _, method := range enums.MethodPriority {
		if enabled[method] {
			methods = append(methods, method)
		}
	}
	return methods
}

// DefaultMethod picks the highest-priority available method, or the explicit
// none marker when nothing is enabled.
func DefaultMethod(methods []enums.PaymentMethod) enums.PaymentMethod {
	if len(methods) == 0 {
		return enums.PaymentMethodNone
	}
	return methods[0]
}
