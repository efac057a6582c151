package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastralabs/vastra-backend/pkg/config"
)

type stubOrderAPI struct {
	lastData    map[string]interface{}
	lastOrderID string
	resp        map[string]interface{}
	err         error
}

func (s *stubOrderAPI) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.lastData = data
	return s.resp, s.err
}

func (s *stubOrderAPI) Fetch(orderID string, _ map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.lastOrderID = orderID
	return s.resp, s.err
}

func TestNewClientRequiresKeys(t *testing.T) {
	_, err := NewClient(config.RazorpayConfig{KeyID: "rzp_test"})
	require.Error(t, err)
}

func TestCreateOrder(t *testing.T) {
	stub := &stubOrderAPI{resp: map[string]interface{}{
		"id":       "order_abc123",
		"amount":   float64(49900),
		"currency": "INR",
	}}
	c := &Client{orders: stub, keyID: "rzp_test", keySecret: "secret"}

	order, err := c.CreateOrder(49900, "VST-1001")
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", order.ID)
	assert.Equal(t, int64(49900), order.AmountPaise)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, int64(49900), stub.lastData["amount"])
	assert.Equal(t, "VST-1001", stub.lastData["receipt"])
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c := &Client{orders: &stubOrderAPI{}, keySecret: "secret"}
	_, err := c.CreateOrder(0, "VST-1001")
	require.Error(t, err)
}

func TestCreateOrderPropagatesGatewayError(t *testing.T) {
	stub := &stubOrderAPI{err: errors.New("gateway down")}
	c := &Client{orders: stub, keySecret: "secret"}
	_, err := c.CreateOrder(100, "VST-1")
	require.Error(t, err)
}

func TestFetchOrder(t *testing.T) {
	stub := &stubOrderAPI{resp: map[string]interface{}{
		"amount":   float64(1009700),
		"currency": "INR",
	}}
	c := &Client{orders: stub, keySecret: "secret"}

	order, err := c.FetchOrder("order_abc123")
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", stub.lastOrderID)
	assert.Equal(t, int64(1009700), order.AmountPaise)
	assert.Equal(t, "INR", order.Currency)

	_, err = c.FetchOrder("")
	require.Error(t, err)
}

func TestVerifyPaymentSignature(t *testing.T) {
	c := &Client{keySecret: "secret"}

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_abc|pay_xyz"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, c.VerifyPaymentSignature("order_abc", "pay_xyz", valid))
	assert.False(t, c.VerifyPaymentSignature("order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, c.VerifyPaymentSignature("", "pay_xyz", valid))
}
