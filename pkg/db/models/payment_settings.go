package models

import (
	"time"
)

// PaymentSettings is the singleton configuration row the admin writes and the
// checkout dispatcher reads. Gateway surcharges are keyed by payment method.
type PaymentSettings struct {
	ID                         int              `gorm:"column:id;primaryKey"`
	RazorpayEnabled            bool             `gorm:"column:razorpay_enabled;not null;default:false"`
	PaytmEnabled               bool             `gorm:"column:paytm_enabled;not null;default:false"`
	CashfreeEnabled            bool             `gorm:"column:cashfree_enabled;not null;default:false"`
	BharatPayEnabled           bool             `gorm:"column:bharatpay_enabled;not null;default:false"`
	PayYouEnabled              bool             `gorm:"column:payyou_enabled;not null;default:false"`
	PhonePeEnabled             bool             `gorm:"column:phonepe_enabled;not null;default:false"`
	UPIEnabled                 bool             `gorm:"column:upi_enabled;not null;default:false"`
	CODEnabled                 bool             `gorm:"column:cod_enabled;not null;default:false"`
	UPIVPA                     string           `gorm:"column:upi_vpa;not null;default:''"`
	UPIPayeeName               string           `gorm:"column:upi_payee_name;not null;default:''"`
	ShippingEnabled            bool             `gorm:"column:shipping_enabled;not null;default:true"`
	FlatShippingPaise          int64            `gorm:"column:flat_shipping_paise;not null;default:0"`
	FreeShippingThresholdPaise int64            `gorm:"column:free_shipping_threshold_paise;not null;default:0"`
	GatewaySurchargesPaise     map[string]int64 `gorm:"column:gateway_surcharges_paise;type:jsonb;serializer:json"`
	UpdatedAt                  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// SettingsRowID pins the singleton row.
const SettingsRowID = 1
