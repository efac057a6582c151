package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/internal/cart"
	"github.com/vastralabs/vastra-backend/internal/coupons"
	"github.com/vastralabs/vastra-backend/internal/orders"
	"github.com/vastralabs/vastra-backend/internal/payments"
	"github.com/vastralabs/vastra-backend/internal/pricing"
	"github.com/vastralabs/vastra-backend/pkg/config"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/metrics"
)

// ServiceParams wires the checkout service dependencies. Razorpay may be nil
// when the gateway is not configured; the razorpay paths then reject.
type ServiceParams struct {
	Tx        TxRunner
	Orders    orders.Repository
	Cart      cart.Repository
	Products  cart.ProductFinder
	Coupons   coupons.Service
	Payments  payments.Service
	Voider    orders.Voider
	Publisher orders.StatusPublisher
	Razorpay  RazorpayGateway
	Metrics   *metrics.PaymentMetrics
	Config    config.CheckoutConfig
	Logger    *logger.Logger
}

type service struct {
	tx        TxRunner
	orders    orders.Repository
	cart      cart.Repository
	products  cart.ProductFinder
	coupons   coupons.Service
	payments  payments.Service
	voider    orders.Voider
	publisher orders.StatusPublisher
	razorpay  RazorpayGateway
	metrics   *metrics.PaymentMetrics
	cfg       config.CheckoutConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupons service required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments service required")
	}
	if params.Voider == nil {
		return nil, fmt.Errorf("order voider required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("status publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        params.Tx,
		orders:    params.Orders,
		cart:      params.Cart,
		products:  params.Products,
		coupons:   params.Coupons,
		payments:  params.Payments,
		voider:    params.Voider,
		publisher: params.Publisher,
		razorpay:  params.Razorpay,
		metrics:   params.Metrics,
		cfg:       params.Config,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

// Quote prices the cart (or buy-now item) and reports method availability.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	lines, err := s.loadLines(ctx, input.UserID, input.BuyNow)
	if err != nil {
		return nil, err
	}

	settings, err := s.payments.Get(ctx)
	if err != nil {
		return nil, err
	}

	codAllowed := pricing.CODAllowed(lines)
	available := payments.MethodsFor(settings, codAllowed, s.wiredGateways())

	method := input.Method
	if method == enums.PaymentMethodNone {
		method = payments.DefaultMethod(available)
	} else if !methodAvailable(available, method) {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("payment method %s is not available", method))
	}

	terms, _, err := s.resolveCoupon(ctx, input.UserID, input.CouponCode, pricing.Subtotal(lines))
	if err != nil {
		return nil, err
	}

	quote := pricing.Compute(lines, terms, pricingSettings(settings), method)
	return &QuoteResult{
		Quote:            quote,
		Method:           method,
		AvailableMethods: available,
		CODAllowed:       codAllowed,
	}, nil
}

// loadLines snapshots the purchase: the buy-now item when given, otherwise
// the authenticated user's cart.
func (s *service) loadLines(ctx context.Context, userID *uuid.UUID, buyNow *BuyNowItem) ([]pricing.LineItem, error) {
	if buyNow != nil {
		product, err := s.products.FindProductByID(ctx, buyNow.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
		}
		line, err := lineFromProduct(product, buyNow.Quantity, buyNow.Size, buyNow.Color)
		if err != nil {
			return nil, err
		}
		return []pricing.LineItem{line}, nil
	}

	if userID == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "guest checkout requires an item")
	}

	items, err := s.cart.ListByUser(ctx, *userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart")
	}
	if len(items) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "cart is empty")
	}

	lines := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, apperrors.New(apperrors.CodeInternal, "cart item missing product")
		}
		line, err := lineFromProduct(item.Product, item.Quantity, item.Size, item.Color)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func lineFromProduct(product *models.Product, quantity int, size, color string) (pricing.LineItem, error) {
	if !product.IsActive {
		return pricing.LineItem{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("%s is no longer available", product.Name))
	}
	if quantity <= 0 {
		return pricing.LineItem{}, apperrors.New(apperrors.CodeValidation, "quantity must be positive")
	}
	if product.Stock > 0 && quantity > product.Stock {
		return pricing.LineItem{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("only %d of %s in stock", product.Stock, product.Name))
	}

	var image string
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return pricing.LineItem{
		ProductID:             product.ID,
		ProductName:           product.Name,
		ProductImage:          image,
		Size:                  size,
		Color:                 color,
		Quantity:              quantity,
		UnitPricePaise:        product.UnitPricePaise(),
		ShippingOverridePaise: product.ShippingChargePaise,
		CODAvailable:          product.CODAvailable,
	}, nil
}

// resolveCoupon validates an explicit code, or auto-applies the welcome
// coupon on an authenticated first order. The auto-apply is best effort: an
// invalid welcome coupon is skipped, never surfaced.
func (s *service) resolveCoupon(ctx context.Context, userID *uuid.UUID, code string, subtotalPaise int64) (*pricing.CouponTerms, *models.Coupon, error) {
	now := s.now()

	if code != "" {
		coupon, err := s.coupons.Validate(ctx, code, subtotalPaise, now)
		if err != nil {
			return nil, nil, err
		}
		return couponTerms(coupon, false), coupon, nil
	}

	if userID == nil || s.cfg.WelcomeCouponCode == "" {
		return nil, nil, nil
	}

	count, err := s.orders.CountNonCancelledByUser(ctx, *userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "counting prior orders")
	}
	if count > 0 {
		return nil, nil, nil
	}

	coupon, err := s.coupons.Validate(ctx, s.cfg.WelcomeCouponCode, subtotalPaise, now)
	if err != nil {
		return nil, nil, nil
	}
	return couponTerms(coupon, true), coupon, nil
}

func couponTerms(coupon *models.Coupon, autoApplied bool) *pricing.CouponTerms {
	return &pricing.CouponTerms{
		Code:             coupon.Code,
		DiscountType:     coupon.DiscountType,
		DiscountValue:    coupon.DiscountValue,
		MaxDiscountPaise: coupon.MaxDiscountPaise,
		AutoApplied:      autoApplied,
	}
}

func pricingSettings(settings *models.PaymentSettings) pricing.Settings {
	return pricing.Settings{
		ShippingEnabled:            settings.ShippingEnabled,
		FlatShippingPaise:          settings.FlatShippingPaise,
		FreeShippingThresholdPaise: settings.FreeShippingThresholdPaise,
		GatewaySurchargesPaise:     settings.GatewaySurchargesPaise,
	}
}

func (s *service) wiredGateways() payments.Gateways {
	return payments.Gateways{Razorpay: s.razorpay != nil}
}

func methodAvailable(available []enums.PaymentMethod, method enums.PaymentMethod) bool {
	for _, candidate := range available {
		if candidate == method {
			return true
		}
	}
	return false
}

// priceCheckout reruns the quote for a checkout input with the method pinned.
func (s *service) priceCheckout(ctx context.Context, input CheckoutInput, method enums.PaymentMethod) ([]pricing.LineItem, pricing.Quote, *models.Coupon, *models.PaymentSettings, error) {
	lines, err := s.loadLines(ctx, input.UserID, input.BuyNow)
	if err != nil {
		return nil, pricing.Quote{}, nil, nil, err
	}

	settings, err := s.payments.Get(ctx)
	if err != nil {
		return nil, pricing.Quote{}, nil, nil, err
	}

	codAllowed := pricing.CODAllowed(lines)
	if !methodAvailable(payments.MethodsFor(settings, codAllowed, s.wiredGateways()), method) {
		return nil, pricing.Quote{}, nil, nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("payment method %s is not available", method))
	}

	terms, coupon, err := s.resolveCoupon(ctx, input.UserID, input.CouponCode, pricing.Subtotal(lines))
	if err != nil {
		return nil, pricing.Quote{}, nil, nil, err
	}

	quote := pricing.Compute(lines, terms, pricingSettings(settings), method)
	return lines, quote, coupon, settings, nil
}

func validateContact(input CheckoutInput) error {
	if !input.ShippingAddress.IsComplete() {
		return apperrors.New(apperrors.CodeValidation, "shipping address is incomplete")
	}
	if input.UserID == nil {
		if strings.TrimSpace(input.GuestName) == "" ||
			strings.TrimSpace(input.GuestPhone) == "" {
			return apperrors.New(apperrors.CodeValidation, "guest name and phone are required")
		}
	}
	return nil
}

// createOrder persists the order, its item snapshot, and the coupon
// redemption in one transaction, optionally clearing the cart.
func (s *service) createOrder(ctx context.Context, input CheckoutInput, method enums.PaymentMethod, status enums.OrderStatus, lines []pricing.LineItem, quote pricing.Quote, coupon *models.Coupon, decorate func(*models.Order), clearCart bool) (*models.Order, error) {
	now := s.now()
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     newOrderNumber(now),
		UserID:          input.UserID,
		Status:          status,
		PaymentMethod:   method,
		BuyNow:          input.BuyNow != nil,
		SubtotalPaise:   quote.SubtotalPaise,
		ShippingPaise:   quote.ShippingPaise,
		DiscountPaise:   quote.DiscountPaise,
		TotalPaise:      quote.TotalPaise,
		ShippingAddress: &input.ShippingAddress,
		StatusChangedAt: now,
	}
	if quote.CouponCode != "" {
		order.CouponCode = &quote.CouponCode
	}
	if input.UserID == nil {
		order.GuestName = optional(input.GuestName)
		order.GuestEmail = optional(input.GuestEmail)
		order.GuestPhone = optional(input.GuestPhone)
	}
	if decorate != nil {
		decorate(order)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID
		items = append(items, models.OrderItem{
			OrderID:        order.ID,
			ProductID:      &productID,
			Name:           line.ProductName,
			ImageURL:       optional(line.ProductImage),
			UnitPricePaise: line.UnitPricePaise,
			Quantity:       line.Quantity,
			Size:           line.Size,
			Color:          line.Color,
			TotalPaise:     line.UnitPricePaise * int64(line.Quantity),
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if _, err := repo.Create(ctx, order); err != nil {
			return err
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}
		if coupon != nil {
			if err := s.coupons.Redeem(ctx, tx, coupon, order.ID, input.UserID, quote.DiscountPaise); err != nil {
				return err
			}
		}
		if clearCart && input.UserID != nil && input.BuyNow == nil {
			if err := s.cart.WithTx(tx).Clear(ctx, *input.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.As(err) != nil {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating order")
	}

	order.Items = items
	return order, nil
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("VST-%s-%s", now.Format("20060102"), suffix)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
