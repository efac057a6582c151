package upi

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentLink(t *testing.T) {
	link, err := PaymentLink(Payee{VPA: "vastra@ybl", Name: "Vastra Labs"}, 49900, "VST-1001")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "vastra@ybl", q.Get("pa"))
	assert.Equal(t, "Vastra Labs", q.Get("pn"))
	assert.Equal(t, "499.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "VST-1001", q.Get("tn"))
}

func TestPaymentLinkPaiseRounding(t *testing.T) {
	link, err := PaymentLink(Payee{VPA: "vastra@ybl"}, 101, "")
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "1.01", parsed.Query().Get("am"))
}

func TestPaymentLinkValidation(t *testing.T) {
	_, err := PaymentLink(Payee{}, 100, "")
	require.Error(t, err)

	_, err = PaymentLink(Payee{VPA: "vastra@ybl"}, 0, "")
	require.Error(t, err)
}
