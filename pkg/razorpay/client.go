package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	razorpaysdk "github.com/razorpay/razorpay-go"

	"github.com/vastralabs/vastra-backend/pkg/config"
)

// orderAPI is the slice of the SDK used by the client, extracted so tests
// can stub gateway calls.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client wraps the Razorpay SDK for order creation and callback
// signature verification.
type Client struct {
	orders    orderAPI
	keyID     string
	keySecret string
}

// GatewayOrder is the subset of the gateway response checkout needs.
type GatewayOrder struct {
	ID          string
	AmountPaise int64
	Currency    string
}

// NewClient wires a Razorpay client from config.
func NewClient(cfg config.RazorpayConfig) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	sdk := razorpaysdk.NewClient(cfg.KeyID, cfg.KeySecret)
	return &Client{
		orders:    sdk.Order,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
	}, nil
}

// KeyID returns the public key id clients embed in their checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order with the gateway. Amount is in paise and
// receipt should be the internal order number.
func (c *Client) CreateOrder(amountPaise int64, receipt string) (*GatewayOrder, error) {
	if amountPaise <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountPaise)
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}
	resp, err := c.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order response missing id")
	}

	order := &GatewayOrder{ID: id, AmountPaise: amountPaise, Currency: "INR"}
	if amt, ok := resp["amount"].(float64); ok {
		order.AmountPaise = int64(amt)
	}
	if cur, ok := resp["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}

// FetchOrder reads an order back from the gateway. Checkout reconciles the
// callback against the amount the gateway actually captured.
func (c *Client) FetchOrder(gatewayOrderID string) (*GatewayOrder, error) {
	if gatewayOrderID == "" {
		return nil, errors.New("gateway order id is required")
	}

	resp, err := c.orders.Fetch(gatewayOrderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching razorpay order: %w", err)
	}

	order := &GatewayOrder{ID: gatewayOrderID, Currency: "INR"}
	if amt, ok := resp["amount"].(float64); ok {
		order.AmountPaise = int64(amt)
	}
	if cur, ok := resp["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}

// VerifyPaymentSignature checks the HMAC the gateway sends back after a
// successful hosted payment. The signed payload is "<order_id>|<payment_id>".
func (c *Client) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
