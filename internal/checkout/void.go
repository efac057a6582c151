package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/internal/coupons"
	"github.com/vastralabs/vastra-backend/internal/orders"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/metrics"
)

const voidMaxRetries = 3

// OrderVoider is the single compensation path for orders that must not
// stand: abandoned UPI collects, customer cancellations, admin cancellations,
// and stale-order reaping. In one transaction it cancels the order, removes
// the item snapshot, and releases any coupon redemption. Already-cancelled
// orders are a no-op, so callers can retry freely.
type OrderVoider struct {
	tx      TxRunner
	orders  orders.Repository
	coupons coupons.Service
	metrics *metrics.PaymentMetrics
	logg    *logger.Logger
	backoff time.Duration
}

// NewOrderVoider builds the compensation runner.
func NewOrderVoider(tx TxRunner, ordersRepo orders.Repository, couponsSvc coupons.Service, payMetrics *metrics.PaymentMetrics, logg *logger.Logger) (*OrderVoider, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if couponsSvc == nil {
		return nil, fmt.Errorf("coupons service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &OrderVoider{
		tx:      tx,
		orders:  ordersRepo,
		coupons: couponsSvc,
		metrics: payMetrics,
		logg:    logg,
		backoff: 200 * time.Millisecond,
	}, nil
}

// VoidOrder runs the compensation with backoff. When every attempt fails the
// combined error surfaces as an inconsistent-order fault for the caller to
// alert on.
func (v *OrderVoider) VoidOrder(ctx context.Context, orderID uuid.UUID) error {
	ctx = v.logg.WithOrderID(ctx, orderID.String())

	var attemptErrs error
	backoff := retry.WithMaxRetries(voidMaxRetries, retry.NewExponential(v.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := v.voidOnce(ctx, orderID); err != nil {
			attemptErrs = multierr.Append(attemptErrs, err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		v.logg.Error(ctx, "order void incomplete after retries", attemptErrs)
		return apperrors.Wrap(apperrors.CodeInconsistent, attemptErrs, "order left partially voided")
	}
	return nil
}

func (v *OrderVoider) voidOnce(ctx context.Context, orderID uuid.UUID) error {
	order, err := v.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("loading order: %w", err)
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil
	}

	err = v.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := v.orders.WithTx(tx)
		if err := repo.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled, time.Now()); err != nil {
			return fmt.Errorf("cancelling order: %w", err)
		}
		if err := repo.DeleteItems(ctx, orderID); err != nil {
			return fmt.Errorf("removing order items: %w", err)
		}
		if err := v.coupons.Release(ctx, tx, orderID); err != nil {
			return fmt.Errorf("releasing coupon: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	v.metrics.IncVoid()
	v.logg.Info(ctx, "order voided")
	return nil
}
