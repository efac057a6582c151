package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vastralabs/vastra-backend/pkg/logger"
)

type couponDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// CouponExpiryJobParams configure the coupon sweep.
type CouponExpiryJobParams struct {
	Logger  *logger.Logger
	Coupons couponDeactivator
}

// NewCouponExpiryJob builds the job that deactivates coupons past their
// valid_until date.
func NewCouponExpiryJob(params CouponExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon deactivator required")
	}
	return &couponExpiryJob{
		logg:    params.Logger,
		coupons: params.Coupons,
		now:     time.Now,
	}, nil
}

type couponExpiryJob struct {
	logg    *logger.Logger
	coupons couponDeactivator
	now     func() time.Time
}

func (j *couponExpiryJob) Name() string { return "coupon-expiry" }

func (j *couponExpiryJob) Run(ctx context.Context) error {
	count, err := j.coupons.DeactivateExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "deactivated", count)
	j.logg.Info(logCtx, "coupon expiry sweep complete")
	return nil
}
