package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
)

// Repository defines persistence operations for coupons and usage rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	DecrementUsage(ctx context.Context, id uuid.UUID) error
	CreateUsage(ctx context.Context, usage *models.CouponUsage) error
	DeleteUsageByOrder(ctx context.Context, orderID uuid.UUID) (*models.CouponUsage, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service validates codes for checkout and exposes admin CRUD. Redeem and
// Release run inside the caller's transaction via WithTx rebinding.
type Service interface {
	Validate(ctx context.Context, code string, subtotalPaise int64, now time.Time) (*models.Coupon, error)
	Redeem(ctx context.Context, tx *gorm.DB, coupon *models.Coupon, orderID uuid.UUID, userID *uuid.UUID, discountPaise int64) error
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}
