package enums

import "fmt"

// PaymentMethod identifies how an order is (or will be) paid.
type PaymentMethod string

const (
	PaymentMethodRazorpay    PaymentMethod = "razorpay"
	PaymentMethodPaytm       PaymentMethod = "paytm"
	PaymentMethodCashfree    PaymentMethod = "cashfree"
	PaymentMethodBharatPay   PaymentMethod = "bharatpay"
	PaymentMethodPayYou      PaymentMethod = "payyou"
	PaymentMethodPhonePe     PaymentMethod = "phonepe"
	PaymentMethodUPI         PaymentMethod = "upi"
	PaymentMethodRazorpayUPI PaymentMethod = "razorpay_upi"
	PaymentMethodCOD         PaymentMethod = "cod"
	// PaymentMethodNone is the explicit "no method available" state surfaced to clients.
	PaymentMethodNone PaymentMethod = ""
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodRazorpay,
	PaymentMethodPaytm,
	PaymentMethodCashfree,
	PaymentMethodBharatPay,
	PaymentMethodPayYou,
	PaymentMethodPhonePe,
	PaymentMethodUPI,
	PaymentMethodRazorpayUPI,
	PaymentMethodCOD,
}

// MethodPriority is the fixed default-selection order: hosted gateways first,
// then manual UPI, then cash on delivery.
var MethodPriority = []PaymentMethod{
	PaymentMethodRazorpay,
	PaymentMethodPaytm,
	PaymentMethodCashfree,
	PaymentMethodBharatPay,
	PaymentMethodPayYou,
	PaymentMethodPhonePe,
	PaymentMethodUPI,
	PaymentMethodRazorpayUPI,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsHostedGateway reports whether the method opens a third-party payment widget.
func (p PaymentMethod) IsHostedGateway() bool {
	switch p {
	case PaymentMethodRazorpay, PaymentMethodPaytm, PaymentMethodCashfree,
		PaymentMethodBharatPay, PaymentMethodPayYou, PaymentMethodPhonePe:
		return true
	}
	return false
}

// IsManualUPI reports whether the method uses the self-reported UPI flow.
func (p PaymentMethod) IsManualUPI() bool {
	return p == PaymentMethodUPI || p == PaymentMethodRazorpayUPI
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
