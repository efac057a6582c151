package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing. Mutated only by admins; the
// storefront reads it. Amounts are stored in paise.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string         `gorm:"column:name;not null"`
	Slug                string         `gorm:"column:slug;not null;uniqueIndex"`
	Description         *string        `gorm:"column:description"`
	CategoryID          *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	Category            *Category      `gorm:"foreignKey:CategoryID"`
	PricePaise          int64          `gorm:"column:price_paise;not null"`
	SalePricePaise      *int64         `gorm:"column:sale_price_paise"`
	Images              pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes               pq.StringArray `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors              pq.StringArray `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	Stock               int            `gorm:"column:stock;not null;default:0"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool           `gorm:"column:is_featured;not null;default:false"`
	ShippingChargePaise *int64         `gorm:"column:shipping_charge_paise"`
	CODAvailable        bool           `gorm:"column:cod_available;not null;default:true"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// UnitPricePaise returns the sale price when one is set.
func (p Product) UnitPricePaise() int64 {
	if p.SalePricePaise != nil {
		return *p.SalePricePaise
	}
	return p.PricePaise
}
