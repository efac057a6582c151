package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/upi"
)

// CreateRazorpayIntent registers the priced cart with the gateway. No order
// exists yet; it is created only once the signed callback verifies.
func (s *service) CreateRazorpayIntent(ctx context.Context, input CheckoutInput) (*RazorpayIntent, error) {
	if s.razorpay == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "razorpay gateway not configured")
	}
	if err := validateContact(input); err != nil {
		return nil, err
	}

	_, quote, _, _, err := s.priceCheckout(ctx, input, enums.PaymentMethodRazorpay)
	if err != nil {
		return nil, err
	}
	if quote.TotalPaise <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "order total must be positive for a prepaid method")
	}

	s.metrics.IncAttempt(enums.PaymentMethodRazorpay.String())
	gatewayOrder, err := s.razorpay.CreateOrder(quote.TotalPaise, uuid.New().String())
	if err != nil {
		s.metrics.IncFailure(enums.PaymentMethodRazorpay.String())
		return nil, apperrors.Wrap(apperrors.CodePayment, err, "creating gateway order")
	}

	return &RazorpayIntent{
		GatewayOrderID: gatewayOrder.ID,
		KeyID:          s.razorpay.KeyID(),
		AmountPaise:    gatewayOrder.AmountPaise,
		Currency:       gatewayOrder.Currency,
	}, nil
}

// VerifyRazorpayPayment checks the callback signature and, only on success,
// creates the confirmed order in one transaction. A bad signature creates
// nothing.
func (s *service) VerifyRazorpayPayment(ctx context.Context, input CheckoutInput, callback RazorpayCallback) (*models.Order, error) {
	if s.razorpay == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "razorpay gateway not configured")
	}
	if err := validateContact(input); err != nil {
		return nil, err
	}

	if !s.razorpay.VerifyPaymentSignature(callback.GatewayOrderID, callback.PaymentID, callback.Signature) {
		s.metrics.IncFailure(enums.PaymentMethodRazorpay.String())
		return nil, apperrors.New(apperrors.CodePayment, "payment signature verification failed")
	}

	lines, quote, coupon, _, err := s.priceCheckout(ctx, input, enums.PaymentMethodRazorpay)
	if err != nil {
		return nil, err
	}

	// The cart or coupon may have changed since the intent was created. The
	// order total must match what the gateway captured, or the customer paid
	// a different amount than we are about to confirm.
	gatewayOrder, err := s.razorpay.FetchOrder(callback.GatewayOrderID)
	if err != nil {
		s.metrics.IncFailure(enums.PaymentMethodRazorpay.String())
		return nil, apperrors.Wrap(apperrors.CodePayment, err, "reconciling gateway order")
	}
	if gatewayOrder.AmountPaise != quote.TotalPaise {
		s.metrics.IncFailure(enums.PaymentMethodRazorpay.String())
		return nil, apperrors.New(apperrors.CodePayment,
			fmt.Sprintf("order total %d paise does not match the %d paise captured by the gateway",
				quote.TotalPaise, gatewayOrder.AmountPaise))
	}

	order, err := s.createOrder(ctx, input, enums.PaymentMethodRazorpay, enums.OrderStatusConfirmed, lines, quote, coupon, func(o *models.Order) {
		o.GatewayOrderID = &callback.GatewayOrderID
		o.PaymentReference = &callback.PaymentID
	}, true)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "razorpay payment captured")
	return order, nil
}

// PayWithUPI creates a pending order and hands back the collect deep link.
// The cart survives until the customer confirms payment.
func (s *service) PayWithUPI(ctx context.Context, input CheckoutInput) (*UPIOrder, error) {
	if err := validateContact(input); err != nil {
		return nil, err
	}

	method := input.Method
	if !method.IsManualUPI() {
		method = enums.PaymentMethodUPI
	}

	lines, quote, coupon, settings, err := s.priceCheckout(ctx, input, method)
	if err != nil {
		return nil, err
	}
	if quote.TotalPaise <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "order total must be positive for a prepaid method")
	}

	s.metrics.IncAttempt(method.String())
	order, err := s.createOrder(ctx, input, method, enums.OrderStatusAwaitingPayment, lines, quote, coupon, nil, false)
	if err != nil {
		s.metrics.IncFailure(method.String())
		return nil, err
	}

	link, err := upi.PaymentLink(
		upi.Payee{VPA: settings.UPIVPA, Name: settings.UPIPayeeName},
		quote.TotalPaise,
		order.OrderNumber,
	)
	if err != nil {
		// the order exists but cannot be paid; roll it back
		s.voidQuietly(ctx, order.ID)
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "building upi link")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "upi collect order created")
	return &UPIOrder{Order: order, PaymentLink: link}, nil
}

// ConfirmUPI records the customer's self-reported payment reference and moves
// the order to verification. The cart is cleared only now.
func (s *service) ConfirmUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID, paymentReference string) (*models.Order, error) {
	if paymentReference == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "payment reference is required")
	}

	order, err := s.findPendingUPI(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]any{
		"payment_reference": paymentReference,
		"status":            enums.OrderStatusAwaitingVerification,
		"status_changed_at": now,
	}
	if err := s.orders.Update(ctx, order.ID, updates); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "recording payment reference")
	}

	// Buy-now orders never came from the cart, so leave it alone.
	if order.UserID != nil && !order.BuyNow {
		if err := s.cart.Clear(ctx, *order.UserID); err != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "clearing cart after upi confirmation failed")
		}
	}

	if err := s.publisher.PublishStatus(ctx, order.ID, enums.OrderStatusAwaitingVerification); err != nil {
		s.logg.Warn(ctx, "publishing status event failed")
	}

	order.Status = enums.OrderStatusAwaitingVerification
	order.StatusChangedAt = now
	order.PaymentReference = &paymentReference
	return order, nil
}

// AbandonUPI rolls a pending collect order back when the customer bails out.
func (s *service) AbandonUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID) error {
	order, err := s.findPendingUPI(ctx, userID, orderID)
	if err != nil {
		return err
	}

	s.metrics.IncFailure(order.PaymentMethod.String())
	if err := s.voider.VoidOrder(ctx, order.ID); err != nil {
		return err
	}
	if err := s.publisher.PublishStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		s.logg.Warn(ctx, "publishing status event failed")
	}
	return nil
}

// PayWithCOD places a confirmed cash-on-delivery order.
func (s *service) PayWithCOD(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if err := validateContact(input); err != nil {
		return nil, err
	}

	lines, quote, coupon, _, err := s.priceCheckout(ctx, input, enums.PaymentMethodCOD)
	if err != nil {
		return nil, err
	}

	s.metrics.IncAttempt(enums.PaymentMethodCOD.String())
	order, err := s.createOrder(ctx, input, enums.PaymentMethodCOD, enums.OrderStatusConfirmed, lines, quote, coupon, nil, true)
	if err != nil {
		s.metrics.IncFailure(enums.PaymentMethodCOD.String())
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "cod order placed")
	return order, nil
}

func (s *service) findPendingUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	if userID != nil {
		if order.UserID == nil || *order.UserID != *userID {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
	} else if order.UserID != nil {
		// anonymous callers may only touch guest orders
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	if !order.PaymentMethod.IsManualUPI() {
		return nil, apperrors.New(apperrors.CodeStateConflict, "order was not placed with upi")
	}
	if order.Status != enums.OrderStatusAwaitingPayment {
		return nil, apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("a %s order cannot be updated here", order.Status))
	}
	return order, nil
}

func (s *service) voidQuietly(ctx context.Context, orderID uuid.UUID) {
	if err := s.voider.VoidOrder(ctx, orderID); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, orderID.String()), "voiding unpayable order failed", err)
	}
}
