package types

import "strings"

// ShippingAddress is the denormalized snapshot stored on each order.
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// IsComplete reports whether the fields required for delivery are present.
func (a ShippingAddress) IsComplete() bool {
	required := []string{a.Name, a.Phone, a.Line1, a.City, a.State, a.Pincode}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
