package coupons

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

type stubRepo struct {
	Repository

	byCode     map[string]*models.Coupon
	usages     map[uuid.UUID]*models.CouponUsage // keyed by order id
	increments int
	decrements int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byCode: map[string]*models.Coupon{},
		usages: map[uuid.UUID]*models.CouponUsage{},
	}
}

func (s *stubRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	coupon, ok := s.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return coupon, nil
}

func (s *stubRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	for _, coupon := range s.byCode {
		if coupon.ID == id {
			if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
				return gorm.ErrRecordNotFound
			}
			coupon.UsedCount++
			s.increments++
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubRepo) DecrementUsage(_ context.Context, id uuid.UUID) error {
	for _, coupon := range s.byCode {
		if coupon.ID == id && coupon.UsedCount > 0 {
			coupon.UsedCount--
			s.decrements++
		}
	}
	return nil
}

func (s *stubRepo) CreateUsage(_ context.Context, usage *models.CouponUsage) error {
	s.usages[usage.OrderID] = usage
	return nil
}

func (s *stubRepo) DeleteUsageByOrder(_ context.Context, orderID uuid.UUID) (*models.CouponUsage, error) {
	usage, ok := s.usages[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(s.usages, orderID)
	return usage, nil
}

func testService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func validCoupon() *models.Coupon {
	limit := 100
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          "FEST20",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 20,
		MinOrderPaise: 50000,
		UsageLimit:    &limit,
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}
}

func TestValidateHappyPath(t *testing.T) {
	repo := newStubRepo()
	repo.byCode["FEST20"] = validCoupon()
	svc := testService(t, repo)

	coupon, err := svc.Validate(context.Background(), "fest20", 60000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "FEST20", coupon.Code)
}

func TestValidateDistinctFailures(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	usedUp := 1

	tests := []struct {
		name     string
		mutate   func(*models.Coupon)
		subtotal int64
		wantCode apperrors.Code
		wantMsg  string
	}{
		{
			name:     "not found",
			mutate:   func(c *models.Coupon) { c.Code = "OTHER" },
			subtotal: 60000,
			wantCode: apperrors.CodeNotFound,
			wantMsg:  "coupon code not found",
		},
		{
			name:     "inactive",
			mutate:   func(c *models.Coupon) { c.IsActive = false },
			subtotal: 60000,
			wantCode: apperrors.CodeValidation,
			wantMsg:  "no longer active",
		},
		{
			name:     "not started",
			mutate:   func(c *models.Coupon) { c.ValidFrom = future },
			subtotal: 60000,
			wantCode: apperrors.CodeValidation,
			wantMsg:  "not active yet",
		},
		{
			name:     "expired",
			mutate:   func(c *models.Coupon) { c.ValidUntil = &expired },
			subtotal: 60000,
			wantCode: apperrors.CodeValidation,
			wantMsg:  "expired",
		},
		{
			name:     "usage exhausted",
			mutate:   func(c *models.Coupon) { c.UsageLimit = &usedUp; c.UsedCount = 1 },
			subtotal: 60000,
			wantCode: apperrors.CodeValidation,
			wantMsg:  "usage limit",
		},
		{
			name:     "min order not met",
			mutate:   func(c *models.Coupon) {},
			subtotal: 10000,
			wantCode: apperrors.CodeValidation,
			wantMsg:  "at least",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo()
			coupon := validCoupon()
			tc.mutate(coupon)
			repo.byCode[coupon.Code] = coupon
			svc := testService(t, repo)

			_, err := svc.Validate(context.Background(), "FEST20", tc.subtotal, now)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, apperrors.CodeOf(err))
			assert.Contains(t, apperrors.As(err).Message(), tc.wantMsg)
		})
	}
}

func TestRedeemAndRelease(t *testing.T) {
	repo := newStubRepo()
	coupon := validCoupon()
	repo.byCode[coupon.Code] = coupon
	svc := testService(t, repo)

	orderID := uuid.New()
	userID := uuid.New()

	require.NoError(t, svc.Redeem(context.Background(), nil, coupon, orderID, &userID, 12000))
	assert.Equal(t, 1, coupon.UsedCount)
	require.Contains(t, repo.usages, orderID)
	assert.Equal(t, int64(12000), repo.usages[orderID].DiscountPaise)

	require.NoError(t, svc.Release(context.Background(), nil, orderID))
	assert.Equal(t, 0, coupon.UsedCount)
	assert.NotContains(t, repo.usages, orderID)
}

func TestReleaseWithoutUsageIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := testService(t, repo)

	require.NoError(t, svc.Release(context.Background(), nil, uuid.New()))
	assert.Zero(t, repo.decrements)
}

func TestRedeemAtLimitFails(t *testing.T) {
	repo := newStubRepo()
	coupon := validCoupon()
	limit := 1
	coupon.UsageLimit = &limit
	coupon.UsedCount = 1
	repo.byCode[coupon.Code] = coupon
	svc := testService(t, repo)

	err := svc.Redeem(context.Background(), nil, coupon, uuid.New(), nil, 100)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
