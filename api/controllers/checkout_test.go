package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	checkoutsvc "github.com/vastralabs/vastra-backend/internal/checkout"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
)

type stubCheckoutService struct {
	quote     *checkoutsvc.QuoteResult
	intent    *checkoutsvc.RazorpayIntent
	order     *models.Order
	upiOrder  *checkoutsvc.UPIOrder
	err       error
	lastInput checkoutsvc.CheckoutInput
	lastRef   string
}

func (s *stubCheckoutService) Quote(ctx context.Context, input checkoutsvc.QuoteInput) (*checkoutsvc.QuoteResult, error) {
	return s.quote, s.err
}

func (s *stubCheckoutService) CreateRazorpayIntent(ctx context.Context, input checkoutsvc.CheckoutInput) (*checkoutsvc.RazorpayIntent, error) {
	s.lastInput = input
	return s.intent, s.err
}

func (s *stubCheckoutService) VerifyRazorpayPayment(ctx context.Context, input checkoutsvc.CheckoutInput, callback checkoutsvc.RazorpayCallback) (*models.Order, error) {
	s.lastInput = input
	return s.order, s.err
}

func (s *stubCheckoutService) PayWithUPI(ctx context.Context, input checkoutsvc.CheckoutInput) (*checkoutsvc.UPIOrder, error) {
	s.lastInput = input
	return s.upiOrder, s.err
}

func (s *stubCheckoutService) ConfirmUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID, paymentReference string) (*models.Order, error) {
	s.lastRef = paymentReference
	return s.order, s.err
}

func (s *stubCheckoutService) AbandonUPI(ctx context.Context, userID *uuid.UUID, orderID uuid.UUID) error {
	return s.err
}

func (s *stubCheckoutService) PayWithCOD(ctx context.Context, input checkoutsvc.CheckoutInput) (*models.Order, error) {
	s.lastInput = input
	return s.order, s.err
}

func withOrderIDParam(req *http.Request, orderID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCheckoutQuoteAllowsGuests(t *testing.T) {
	svc := &stubCheckoutService{quote: &checkoutsvc.QuoteResult{CODAllowed: true}}
	handler := CheckoutQuote(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCheckoutQuoteRejectsUnknownMethod(t *testing.T) {
	handler := CheckoutQuote(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", bytes.NewReader([]byte(`{"method":"barter"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutCODForcesMethod(t *testing.T) {
	svc := &stubCheckoutService{order: &models.Order{ID: uuid.New()}}
	handler := CheckoutCOD(svc, nil)

	body := `{"method":"razorpay","guest_name":"Arjun","guest_phone":"9876543210"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/cod", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastInput.Method != enums.PaymentMethodCOD {
		t.Fatalf("expected method forced to cod got %q", svc.lastInput.Method)
	}
}

func TestCheckoutRazorpayVerifyRequiresSignature(t *testing.T) {
	handler := CheckoutRazorpayVerify(&stubCheckoutService{}, nil)

	body := `{"razorpay_order_id":"order_abc","razorpay_payment_id":"pay_abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/razorpay/verify", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutUPIConfirmPassesReference(t *testing.T) {
	svc := &stubCheckoutService{order: &models.Order{ID: uuid.New()}}
	handler := CheckoutUPIConfirm(svc, nil)

	body := `{"payment_reference":"UTR1234567890"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/upi/confirm", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderIDParam(req, uuid.New().String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastRef != "UTR1234567890" {
		t.Fatalf("expected reference forwarded got %q", svc.lastRef)
	}
}

func TestCheckoutUPIConfirmRequiresReference(t *testing.T) {
	handler := CheckoutUPIConfirm(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/upi/confirm", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withOrderIDParam(req, uuid.New().String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutUPIAbandonRejectsBadOrderID(t *testing.T) {
	handler := CheckoutUPIAbandon(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/upi/abandon", nil)
	req = withOrderIDParam(req, "not-a-uuid")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
