package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/api/middleware"
	orderssvc "github.com/vastralabs/vastra-backend/internal/orders"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	"github.com/vastralabs/vastra-backend/pkg/pagination"
)

type stubOrdersService struct {
	order     *orderssvc.OrderList
	detail    *models.Order
	tracking  *orderssvc.Tracking
	err       error
	cancelled uuid.UUID
	cancelBy  uuid.UUID
}

func (s *stubOrdersService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.detail, s.err
}

func (s *stubOrdersService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orderssvc.OrderList, error) {
	return s.order, s.err
}

func (s *stubOrdersService) CancelForUser(ctx context.Context, userID, orderID uuid.UUID) error {
	s.cancelBy = userID
	s.cancelled = orderID
	return s.err
}

func (s *stubOrdersService) Track(ctx context.Context, orderID uuid.UUID, now time.Time) (*orderssvc.Tracking, error) {
	return s.tracking, s.err
}

func (s *stubOrdersService) AdminList(ctx context.Context, params pagination.Params, filters orderssvc.AdminFilters) (*orderssvc.OrderList, error) {
	return s.order, s.err
}

func (s *stubOrdersService) AdminGet(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.detail, s.err
}

func (s *stubOrdersService) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return s.err
}

func authedRequest(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	return req.WithContext(ctx)
}

func TestOrderListRequiresUserContext(t *testing.T) {
	handler := OrderList(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrderListSuccess(t *testing.T) {
	svc := &stubOrdersService{order: &orderssvc.OrderList{}}
	handler := OrderList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req = authedRequest(req, uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrderCancelForwardsOwnership(t *testing.T) {
	svc := &stubOrdersService{}
	handler := OrderCancel(svc, nil)

	userID := uuid.New()
	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/cancel", nil)
	req = authedRequest(req, userID)
	req = withOrderIDParam(req, orderID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.cancelBy != userID {
		t.Fatalf("expected cancel scoped to requester got %s", svc.cancelBy)
	}
	if svc.cancelled != orderID {
		t.Fatalf("expected cancel for path order got %s", svc.cancelled)
	}
}

func TestOrderTrackRejectsBadID(t *testing.T) {
	handler := OrderTrack(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/track", nil)
	req = withOrderIDParam(req, "garbage")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderTrackIsAnonymous(t *testing.T) {
	svc := &stubOrdersService{tracking: &orderssvc.Tracking{Status: enums.OrderStatusConfirmed}}
	handler := OrderTrack(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/track", nil)
	req = withOrderIDParam(req, uuid.New().String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
