package controllers

import (
	"net/http"
	"strings"

	"github.com/vastralabs/vastra-backend/api/responses"
	"github.com/vastralabs/vastra-backend/api/validators"
	checkoutsvc "github.com/vastralabs/vastra-backend/internal/checkout"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/types"
)

type buyNowRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type checkoutRequest struct {
	BuyNow          *buyNowRequest        `json:"buy_now"`
	CouponCode      string                `json:"coupon_code"`
	Method          string                `json:"method"`
	GuestName       string                `json:"guest_name"`
	GuestEmail      string                `json:"guest_email" validate:"omitempty,email"`
	GuestPhone      string                `json:"guest_phone" validate:"omitempty,len=10,numeric"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
}

func (c checkoutRequest) toInput(r *http.Request) (checkoutsvc.CheckoutInput, error) {
	method, err := parseMethod(c.Method)
	if err != nil {
		return checkoutsvc.CheckoutInput{}, err
	}
	buyNow, err := c.buyNowItem()
	if err != nil {
		return checkoutsvc.CheckoutInput{}, err
	}
	return checkoutsvc.CheckoutInput{
		UserID:          optionalRequesterID(r),
		GuestName:       strings.TrimSpace(c.GuestName),
		GuestEmail:      strings.TrimSpace(c.GuestEmail),
		GuestPhone:      strings.TrimSpace(c.GuestPhone),
		BuyNow:          buyNow,
		CouponCode:      strings.TrimSpace(c.CouponCode),
		Method:          method,
		ShippingAddress: c.ShippingAddress,
	}, nil
}

func (c checkoutRequest) buyNowItem() (*checkoutsvc.BuyNowItem, error) {
	if c.BuyNow == nil {
		return nil, nil
	}
	productID, err := parseUUIDField(c.BuyNow.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	return &checkoutsvc.BuyNowItem{
		ProductID: productID,
		Quantity:  c.BuyNow.Quantity,
		Size:      c.BuyNow.Size,
		Color:     c.BuyNow.Color,
	}, nil
}

func parseMethod(raw string) (enums.PaymentMethod, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return enums.PaymentMethodNone, nil
	}
	method, err := enums.ParsePaymentMethod(raw)
	if err != nil {
		return enums.PaymentMethodNone, apperrors.Wrap(apperrors.CodeValidation, err, "invalid payment method")
	}
	return method, nil
}

// CheckoutQuote prices the cart (or a buy-now item) without creating
// anything. Guests get a quote too.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := parseMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buyNow, err := payload.buyNowItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), checkoutsvc.QuoteInput{
			UserID:     optionalRequesterID(r),
			BuyNow:     buyNow,
			CouponCode: strings.TrimSpace(payload.CouponCode),
			Method:     method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutRazorpayIntent opens a hosted gateway order for the current cart.
func CheckoutRazorpayIntent(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreateRazorpayIntent(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, intent)
	}
}

type razorpayVerifyRequest struct {
	checkoutRequest
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// CheckoutRazorpayVerify checks the gateway signature and, when it holds,
// creates the confirmed order.
func CheckoutRazorpayVerify(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload razorpayVerifyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.VerifyRazorpayPayment(r.Context(), input, checkoutsvc.RazorpayCallback{
			GatewayOrderID: payload.GatewayOrderID,
			PaymentID:      payload.PaymentID,
			Signature:      payload.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// CheckoutUPI places an awaiting_payment order and returns the collect link.
func CheckoutUPI(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PayWithUPI(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type upiConfirmRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,max=64"`
}

// CheckoutUPIConfirm records the customer's UTR and moves the order to
// awaiting_verification.
func CheckoutUPIConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upiConfirmRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmUPI(r.Context(), optionalRequesterID(r), orderID, payload.PaymentReference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CheckoutUPIAbandon voids a pending collect order the customer gave up on.
func CheckoutUPIAbandon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AbandonUPI(r.Context(), optionalRequesterID(r), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "abandoned"})
	}
}

// CheckoutCOD places a confirmed cash-on-delivery order.
func CheckoutCOD(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Method = enums.PaymentMethodCOD

		order, err := svc.PayWithCOD(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
