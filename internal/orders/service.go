package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/pagination"
)

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo      Repository
	Voider    Voider
	Publisher StatusPublisher
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	voider    Voider
	publisher StatusPublisher
	logg      *logger.Logger
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
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
		repo:      params.Repo,
		voider:    params.Voider,
		publisher: params.Publisher,
		logg:      params.Logger,
	}, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

// CancelForUser voids a non-terminal order on the customer's request.
func (s *service) CancelForUser(ctx context.Context, userID, orderID uuid.UUID) error {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if !order.Status.IsCancellable() {
		return apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("a %s order cannot be cancelled", order.Status))
	}

	if err := s.voider.VoidOrder(ctx, order.ID); err != nil {
		return err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order cancelled by customer")
	if err := s.publisher.PublishStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		s.logg.Warn(ctx, "publishing cancellation event failed")
	}
	return nil
}

func (s *service) Track(ctx context.Context, orderID uuid.UUID, now time.Time) (*Tracking, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	return BuildTracking(order, now), nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// AdminUpdateStatus moves an order through the fulfilment states and
// publishes the change on the tracking bus. Cancellation goes through the
// void path so coupon counters stay correct.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return apperrors.New(apperrors.CodeValidation, "unknown order status")
	}

	order, err := s.AdminGet(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == status {
		return nil
	}
	if order.Status.IsTerminal() {
		return apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("a %s order cannot change status", order.Status))
	}

	if status == enums.OrderStatusCancelled {
		if err := s.voider.VoidOrder(ctx, orderID); err != nil {
			return err
		}
	} else {
		if err := s.repo.UpdateStatus(ctx, orderID, status, time.Now()); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "updating order status")
		}
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"status":   status.String(),
	})
	s.logg.Info(ctx, "order status updated")
	if err := s.publisher.PublishStatus(ctx, orderID, status); err != nil {
		s.logg.Warn(ctx, "publishing status event failed")
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	if order.UserID == nil || *order.UserID != userID {
		// hide other users' orders entirely
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	return order, nil
}
