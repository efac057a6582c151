package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the coupons service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Validate checks every coupon precondition and surfaces a distinct message
// per failure so the storefront can tell the shopper exactly what is wrong.
func (s *service) Validate(ctx context.Context, code string, subtotalPaise int64, now time.Time) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "coupon code not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading coupon")
	}

	switch {
	case !coupon.IsActive:
		return nil, apperrors.New(apperrors.CodeValidation, "coupon is no longer active")
	case now.Before(coupon.ValidFrom):
		return nil, apperrors.New(apperrors.CodeValidation, "coupon is not active yet")
	case coupon.ValidUntil != nil && now.After(*coupon.ValidUntil):
		return nil, apperrors.New(apperrors.CodeValidation, "coupon has expired")
	case coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit:
		return nil, apperrors.New(apperrors.CodeValidation, "coupon usage limit reached")
	case subtotalPaise < coupon.MinOrderPaise:
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("order must be at least ₹%d to use this coupon", coupon.MinOrderPaise/100))
	}

	return coupon, nil
}

// Redeem moves the usage counter and writes the audit row inside the
// caller's checkout transaction.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, coupon *models.Coupon, orderID uuid.UUID, userID *uuid.UUID, discountPaise int64) error {
	repo := s.repo.WithTx(tx)

	if err := repo.IncrementUsage(ctx, coupon.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeValidation, "coupon usage limit reached")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "incrementing coupon usage")
	}

	usage := &models.CouponUsage{
		CouponID:      coupon.ID,
		OrderID:       orderID,
		UserID:        userID,
		DiscountPaise: discountPaise,
	}
	if err := repo.CreateUsage(ctx, usage); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "recording coupon usage")
	}
	return nil
}

// Release undoes a redemption when an order is voided. Releasing an order
// with no usage row is a no-op so void retries stay idempotent.
func (s *service) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	repo := s.repo.WithTx(tx)

	usage, err := repo.DeleteUsageByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "removing coupon usage")
	}

	if err := repo.DecrementUsage(ctx, usage.CouponID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "decrementing coupon usage")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing coupons")
	}
	return coupons, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	discountType, err := enums.ParseDiscountType(input.DiscountType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "discount type must be percentage or fixed")
	}
	if discountType == enums.DiscountTypePercentage && input.DiscountValue > 100 {
		return nil, apperrors.New(apperrors.CodeValidation, "percentage discount cannot exceed 100")
	}

	coupon := &models.Coupon{
		Code:             strings.ToUpper(strings.TrimSpace(input.Code)),
		DiscountType:     discountType,
		DiscountValue:    input.DiscountValue,
		MinOrderPaise:    input.MinOrderPaise,
		MaxDiscountPaise: input.MaxDiscountPaise,
		UsageLimit:       input.UsageLimit,
		ValidFrom:        time.Now(),
		ValidUntil:       input.ValidUntil,
		IsActive:         true,
	}
	if input.ValidFrom != nil {
		coupon.ValidFrom = *input.ValidFrom
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "a coupon with this code already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating coupon")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) error {
	updates := map[string]any{}
	if input.DiscountValue != nil {
		updates["discount_value"] = *input.DiscountValue
	}
	if input.MinOrderPaise != nil {
		updates["min_order_paise"] = *input.MinOrderPaise
	}
	if input.MaxDiscountPaise != nil {
		updates["max_discount_paise"] = *input.MaxDiscountPaise
	}
	if input.UsageLimit != nil {
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.ValidUntil != nil {
		updates["valid_until"] = *input.ValidUntil
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return apperrors.New(apperrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "coupon not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating coupon")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "coupon not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting coupon")
	}
	return nil
}
