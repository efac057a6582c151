package catalog

import (
	"github.com/vastralabs/vastra-backend/pkg/db/models"
)

// ProductSort is the accepted sort orders for the storefront listing.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
)

// ProductFilters narrows the public product listing.
type ProductFilters struct {
	CategorySlug    string
	Featured        *bool
	Search          string
	Sort            ProductSort
	IncludeInactive bool
}

// ProductList is one page of products plus the cursor for the next page.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CreateProductInput is the admin payload for a new listing.
type CreateProductInput struct {
	Name                string   `json:"name" validate:"required"`
	Slug                string   `json:"slug"`
	Description         *string  `json:"description"`
	CategoryID          *string  `json:"category_id"`
	PricePaise          int64    `json:"price_paise" validate:"gt=0"`
	SalePricePaise      *int64   `json:"sale_price_paise"`
	Images              []string `json:"images"`
	Sizes               []string `json:"sizes"`
	Colors              []string `json:"colors"`
	Stock               int      `json:"stock" validate:"gte=0"`
	IsFeatured          bool     `json:"is_featured"`
	ShippingChargePaise *int64   `json:"shipping_charge_paise"`
	CODAvailable        *bool    `json:"cod_available"`
}

// UpdateProductInput carries partial admin updates; nil fields are untouched.
type UpdateProductInput struct {
	Name                *string   `json:"name"`
	Description         *string   `json:"description"`
	CategoryID          *string   `json:"category_id"`
	PricePaise          *int64    `json:"price_paise" validate:"omitempty,gt=0"`
	SalePricePaise      *int64    `json:"sale_price_paise"`
	ClearSalePrice      bool      `json:"clear_sale_price"`
	Images              *[]string `json:"images"`
	Sizes               *[]string `json:"sizes"`
	Colors              *[]string `json:"colors"`
	Stock               *int      `json:"stock" validate:"omitempty,gte=0"`
	IsActive            *bool     `json:"is_active"`
	IsFeatured          *bool     `json:"is_featured"`
	ShippingChargePaise *int64    `json:"shipping_charge_paise"`
	ClearShippingCharge bool      `json:"clear_shipping_charge"`
	CODAvailable        *bool     `json:"cod_available"`
}

// CategoryInput is the admin payload for creating/updating a category.
type CategoryInput struct {
	Name     string `json:"name" validate:"required"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"is_active"`
}
