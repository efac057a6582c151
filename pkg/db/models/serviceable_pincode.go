package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceablePincode marks a postal code the store delivers to. Informational
// only; checkout does not hard-fail on unknown pincodes.
type ServiceablePincode struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Pincode      string    `gorm:"column:pincode;not null;uniqueIndex"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null"`
	DeliveryDays int       `gorm:"column:delivery_days;not null;default:5"`
	CODAvailable bool      `gorm:"column:cod_available;not null;default:true"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
