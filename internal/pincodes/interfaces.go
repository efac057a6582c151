package pincodes

import (
	"context"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/geocode"
)

// Repository defines persistence for serviceable pincodes.
type Repository interface {
	FindByPincode(ctx context.Context, pincode string) (*models.ServiceablePincode, error)
	List(ctx context.Context) ([]models.ServiceablePincode, error)
	Create(ctx context.Context, row *models.ServiceablePincode) (*models.ServiceablePincode, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Geocoder resolves a pincode to its district/state.
type Geocoder interface {
	Lookup(ctx context.Context, pincode string) (*geocode.PincodeInfo, error)
}

// Service answers serviceability checks and exposes admin CRUD.
type Service interface {
	Check(ctx context.Context, pincode string) (*CheckResult, error)
	List(ctx context.Context) ([]models.ServiceablePincode, error)
	Create(ctx context.Context, input CreateInput) (*models.ServiceablePincode, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CheckResult is the storefront serviceability answer. City/state may be
// filled from the postal directory even when the pincode is not serviceable.
type CheckResult struct {
	Pincode      string `json:"pincode"`
	Serviceable  bool   `json:"serviceable"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	DeliveryDays int    `json:"delivery_days,omitempty"`
	CODAvailable bool   `json:"cod_available"`
}

// CreateInput adds a serviceable pincode. Blank city/state are autofilled
// from the postal directory when possible.
type CreateInput struct {
	Pincode      string `json:"pincode" validate:"required,len=6,numeric"`
	City         string `json:"city"`
	State        string `json:"state"`
	DeliveryDays int    `json:"delivery_days" validate:"omitempty,gt=0"`
	CODAvailable *bool  `json:"cod_available"`
}

// UpdateInput carries partial admin updates.
type UpdateInput struct {
	City         *string `json:"city"`
	State        *string `json:"state"`
	DeliveryDays *int    `json:"delivery_days" validate:"omitempty,gt=0"`
	CODAvailable *bool   `json:"cod_available"`
	IsActive     *bool   `json:"is_active"`
}
