package orders

import (
	"context"
	"io"
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

	orders        map[uuid.UUID]*models.Order
	statusUpdates []enums.OrderStatus
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus, at time.Time) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	order.StatusChangedAt = at
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

type stubVoider struct {
	voided []uuid.UUID
	err    error
}

func (s *stubVoider) VoidOrder(_ context.Context, orderID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.voided = append(s.voided, orderID)
	return nil
}

type stubPublisher struct {
	events []enums.OrderStatus
}

func (s *stubPublisher) PublishStatus(_ context.Context, _ uuid.UUID, status enums.OrderStatus) error {
	s.events = append(s.events, status)
	return nil
}

func fixtures(t *testing.T) (*stubRepo, *stubVoider, *stubPublisher, Service) {
	t.Helper()
	repo := newStubRepo()
	voider := &stubVoider{}
	publisher := &stubPublisher{}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Voider:    voider,
		Publisher: publisher,
		Logger:    logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	require.NoError(t, err)
	return repo, voider, publisher, svc
}

func seedOrder(repo *stubRepo, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	id := uuid.New()
	order := &models.Order{
		ID:              id,
		OrderNumber:     "VST-" + id.String()[:8],
		UserID:          &userID,
		Status:          status,
		StatusChangedAt: time.Now(),
	}
	repo.orders[id] = order
	return order
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	repo, _, _, svc := fixtures(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusConfirmed)

	_, err := svc.GetForUser(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCancelForUserVoidsAndPublishes(t *testing.T) {
	repo, voider, publisher, svc := fixtures(t)
	userID := uuid.New()
	order := seedOrder(repo, userID, enums.OrderStatusConfirmed)

	require.NoError(t, svc.CancelForUser(context.Background(), userID, order.ID))
	assert.Equal(t, []uuid.UUID{order.ID}, voider.voided)
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusCancelled}, publisher.events)
}

func TestCancelForUserRejectsTerminal(t *testing.T) {
	repo, voider, _, svc := fixtures(t)
	userID := uuid.New()

	for _, status := range []enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled, enums.OrderStatusShipped} {
		order := seedOrder(repo, userID, status)
		err := svc.CancelForUser(context.Background(), userID, order.ID)
		require.Error(t, err, "status %s", status)
		assert.Equal(t, apperrors.CodeStateConflict, apperrors.CodeOf(err))
	}
	assert.Empty(t, voider.voided)
}

func TestAdminUpdateStatusPublishes(t *testing.T) {
	repo, _, publisher, svc := fixtures(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusConfirmed)

	require.NoError(t, svc.AdminUpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped))
	assert.Equal(t, enums.OrderStatusShipped, order.Status)
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusShipped}, publisher.events)
}

func TestAdminUpdateStatusSameStatusIsNoop(t *testing.T) {
	repo, _, publisher, svc := fixtures(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusShipped)

	require.NoError(t, svc.AdminUpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped))
	assert.Empty(t, publisher.events)
	assert.Empty(t, repo.statusUpdates)
}

func TestAdminUpdateStatusCancelGoesThroughVoid(t *testing.T) {
	repo, voider, publisher, svc := fixtures(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusAwaitingPayment)

	require.NoError(t, svc.AdminUpdateStatus(context.Background(), order.ID, enums.OrderStatusCancelled))
	assert.Equal(t, []uuid.UUID{order.ID}, voider.voided)
	assert.Empty(t, repo.statusUpdates)
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusCancelled}, publisher.events)
}

func TestAdminUpdateStatusRejectsTerminal(t *testing.T) {
	repo, _, _, svc := fixtures(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusDelivered)

	err := svc.AdminUpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeStateConflict, apperrors.CodeOf(err))
}

func TestAdminUpdateStatusUnknownStatus(t *testing.T) {
	_, _, _, svc := fixtures(t)

	err := svc.AdminUpdateStatus(context.Background(), uuid.New(), enums.OrderStatus("lost"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
