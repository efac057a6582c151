// Package upi builds UPI deep links for manual collect payments. The link
// format follows NPCI's upi://pay scheme; QR rendering happens client-side
// from the same link.
package upi

import (
	"errors"
	"net/url"

	"github.com/shopspring/decimal"
)

// Payee identifies the merchant VPA the customer pays to.
type Payee struct {
	VPA  string
	Name string
}

// PaymentLink builds the upi://pay deep link for the given amount in paise.
// UPI apps expect the amount in rupees with two decimal places.
func PaymentLink(payee Payee, amountPaise int64, note string) (string, error) {
	if payee.VPA == "" {
		return "", errors.New("payee vpa is required")
	}
	if amountPaise <= 0 {
		return "", errors.New("amount must be positive")
	}

	rupees := decimal.NewFromInt(amountPaise).Div(decimal.NewFromInt(100))

	q := url.Values{}
	q.Set("pa", payee.VPA)
	if payee.Name != "" {
		q.Set("pn", payee.Name)
	}
	q.Set("am", rupees.StringFixed(2))
	q.Set("cu", "INR")
	if note != "" {
		q.Set("tn", note)
	}

	u := &url.URL{Scheme: "upi", Opaque: "//pay", RawQuery: q.Encode()}
	return u.String(), nil
}
