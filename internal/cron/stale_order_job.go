package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/vastralabs/vastra-backend/internal/orders"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

const defaultStaleOrderTTL = 24 * time.Hour

type staleOrderReader interface {
	FindStaleAwaiting(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// StaleOrderJobParams configure the abandoned-payment reaper.
type StaleOrderJobParams struct {
	Logger *logger.Logger
	Orders staleOrderReader
	Voider orders.Voider
	TTL    time.Duration
}

// NewStaleOrderJob builds the job that voids collect orders whose payment
// never arrived.
func NewStaleOrderJob(params StaleOrderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if params.Voider == nil {
		return nil, fmt.Errorf("order voider required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultStaleOrderTTL
	}
	return &staleOrderJob{
		logg:   params.Logger,
		orders: params.Orders,
		voider: params.Voider,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

type staleOrderJob struct {
	logg   *logger.Logger
	orders staleOrderReader
	voider orders.Voider
	ttl    time.Duration
	now    func() time.Time
}

func (j *staleOrderJob) Name() string { return "stale-order-reaper" }

// Run voids every awaiting_payment order older than the TTL. One failed
// void does not stop the sweep; failures are combined and reported.
func (j *staleOrderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.orders.FindStaleAwaiting(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale orders: %w", err)
	}

	var errs error
	voided := 0
	for _, order := range stale {
		if err := j.voider.VoidOrder(ctx, order.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("void order %s: %w", order.OrderNumber, err))
			continue
		}
		voided++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"stale": len(stale), "voided": voided})
	j.logg.Info(logCtx, "stale order sweep complete")
	return errs
}
