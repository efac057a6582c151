package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vastralabs/vastra-backend/pkg/enums"
)

func paise(v int64) *int64 { return &v }

func line(unitPaise int64, qty int) LineItem {
	return LineItem{
		ProductID:      uuid.New(),
		Quantity:       qty,
		UnitPricePaise: unitPaise,
		CODAvailable:   true,
	}
}

func defaultSettings() Settings {
	return Settings{
		ShippingEnabled:            true,
		FlatShippingPaise:          5000,
		FreeShippingThresholdPaise: 100000,
	}
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{line(49900, 2), line(10000, 1)}
	assert.Equal(t, int64(109800), Subtotal(items))

	assert.Equal(t, int64(0), Subtotal(nil))
	assert.Equal(t, int64(0), Subtotal([]LineItem{line(49900, 0)}))
}

func TestShipping(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		subtotal int64
		settings Settings
		method   enums.PaymentMethod
		want     int64
	}{
		{
			name:     "disabled shipping is always free",
			items:    []LineItem{line(49900, 1)},
			subtotal: 49900,
			settings: Settings{ShippingEnabled: false, FlatShippingPaise: 5000},
			want:     0,
		},
		{
			name:     "flat charge below threshold",
			items:    []LineItem{line(49900, 1)},
			subtotal: 49900,
			settings: defaultSettings(),
			want:     5000,
		},
		{
			name:     "free above threshold",
			items:    []LineItem{line(60000, 2)},
			subtotal: 120000,
			settings: defaultSettings(),
			want:     0,
		},
		{
			name: "product overrides replace flat and ignore threshold",
			items: []LineItem{
				{UnitPricePaise: 60000, Quantity: 2, ShippingOverridePaise: paise(3000)},
				{UnitPricePaise: 10000, Quantity: 1, ShippingOverridePaise: paise(2000)},
			},
			subtotal: 130000,
			settings: defaultSettings(),
			want:     5000,
		},
		{
			name:     "gateway surcharge added to flat",
			items:    []LineItem{line(49900, 1)},
			subtotal: 49900,
			settings: Settings{
				ShippingEnabled:        true,
				FlatShippingPaise:      5000,
				GatewaySurchargesPaise: map[string]int64{"cod": 2500},
			},
			method: enums.PaymentMethodCOD,
			want:   7500,
		},
		{
			name: "gateway surcharge added to overrides",
			items: []LineItem{
				{UnitPricePaise: 49900, Quantity: 1, ShippingOverridePaise: paise(3000)},
			},
			subtotal: 49900,
			settings: Settings{
				ShippingEnabled:        true,
				GatewaySurchargesPaise: map[string]int64{"cod": 2500},
			},
			method: enums.PaymentMethodCOD,
			want:   5500,
		},
		{
			name:     "zero threshold never grants free shipping",
			items:    []LineItem{line(200000, 1)},
			subtotal: 200000,
			settings: Settings{ShippingEnabled: true, FlatShippingPaise: 5000},
			want:     5000,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Shipping(tc.items, tc.subtotal, tc.settings, tc.method))
		})
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		shipping int64
		coupon   *CouponTerms
		want     int64
	}{
		{
			name:     "nil coupon",
			subtotal: 100000,
			want:     0,
		},
		{
			name:     "percentage",
			subtotal: 100000,
			coupon:   &CouponTerms{DiscountType: enums.DiscountTypePercentage, DiscountValue: 10},
			want:     10000,
		},
		{
			name:     "fixed",
			subtotal: 100000,
			coupon:   &CouponTerms{DiscountType: enums.DiscountTypeFixed, DiscountValue: 15000},
			want:     15000,
		},
		{
			name:     "percentage capped by max discount",
			subtotal: 100000,
			coupon: &CouponTerms{
				DiscountType:     enums.DiscountTypePercentage,
				DiscountValue:    50,
				MaxDiscountPaise: paise(20000),
			},
			want: 20000,
		},
		{
			name:     "fixed capped at subtotal plus shipping",
			subtotal: 10000,
			shipping: 5000,
			coupon:   &CouponTerms{DiscountType: enums.DiscountTypeFixed, DiscountValue: 99900},
			want:     15000,
		},
		{
			name:     "percentage truncates fractional paise",
			subtotal: 99999,
			coupon:   &CouponTerms{DiscountType: enums.DiscountTypePercentage, DiscountValue: 10},
			want:     9999,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Discount(tc.subtotal, tc.shipping, tc.coupon))
		})
	}
}

func TestComputeTotalNeverNegative(t *testing.T) {
	items := []LineItem{line(10000, 1)}
	coupon := &CouponTerms{DiscountType: enums.DiscountTypeFixed, DiscountValue: 500000}

	q := Compute(items, coupon, defaultSettings(), enums.PaymentMethodRazorpay)
	assert.Equal(t, int64(0), q.TotalPaise)
	assert.Equal(t, q.SubtotalPaise+q.ShippingPaise, q.DiscountPaise)
}

func TestComputeBreakdownAddsUp(t *testing.T) {
	items := []LineItem{line(49900, 2), line(19900, 1)}
	coupon := &CouponTerms{
		Code:          "FEST20",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 20,
		AutoApplied:   true,
	}

	q := Compute(items, coupon, defaultSettings(), enums.PaymentMethodUPI)
	assert.Equal(t, int64(119700), q.SubtotalPaise)
	assert.Equal(t, int64(0), q.ShippingPaise) // over free threshold
	assert.Equal(t, int64(23940), q.DiscountPaise)
	assert.Equal(t, q.SubtotalPaise+q.ShippingPaise-q.DiscountPaise, q.TotalPaise)
	assert.Equal(t, "FEST20", q.CouponCode)
	assert.True(t, q.CouponAutoApplied)
}

func TestCODAllowed(t *testing.T) {
	assert.False(t, CODAllowed(nil))

	allowed := []LineItem{line(100, 1), line(200, 1)}
	assert.True(t, CODAllowed(allowed))

	mixed := append(allowed, LineItem{UnitPricePaise: 300, Quantity: 1, CODAvailable: false})
	assert.False(t, CODAllowed(mixed))
}
