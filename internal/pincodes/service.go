package pincodes

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/geocode"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

const defaultDeliveryDays = 5

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

type service struct {
	repo     Repository
	geocoder Geocoder
	logg     *logger.Logger
}

// NewService builds the pincode service. The geocoder may be nil; autofill
// is then skipped.
func NewService(repo Repository, geocoder Geocoder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pincode repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, geocoder: geocoder, logg: logg}, nil
}

// Check answers the storefront serviceability question. Unknown pincodes
// still get city/state from the postal directory when it responds; directory
// failures never surface.
func (s *service) Check(ctx context.Context, pincode string) (*CheckResult, error) {
	if !pincodePattern.MatchString(pincode) {
		return nil, apperrors.New(apperrors.CodeValidation, "pincode must be six digits")
	}

	row, err := s.repo.FindByPincode(ctx, pincode)
	if err == nil {
		return &CheckResult{
			Pincode:      row.Pincode,
			Serviceable:  true,
			City:         row.City,
			State:        row.State,
			DeliveryDays: row.DeliveryDays,
			CODAvailable: row.CODAvailable,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "looking up pincode")
	}

	result := &CheckResult{Pincode: pincode}
	if info := s.lookupQuietly(ctx, pincode); info != nil {
		result.City = info.City
		result.State = info.State
	}
	return result, nil
}

func (s *service) List(ctx context.Context) ([]models.ServiceablePincode, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing pincodes")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ServiceablePincode, error) {
	if !pincodePattern.MatchString(input.Pincode) {
		return nil, apperrors.New(apperrors.CodeValidation, "pincode must be six digits")
	}

	city, state := input.City, input.State
	if city == "" || state == "" {
		if info := s.lookupQuietly(ctx, input.Pincode); info != nil {
			if city == "" {
				city = info.City
			}
			if state == "" {
				state = info.State
			}
		}
	}
	if city == "" || state == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "city and state are required")
	}

	row := &models.ServiceablePincode{
		Pincode:      input.Pincode,
		City:         city,
		State:        state,
		DeliveryDays: defaultDeliveryDays,
		CODAvailable: true,
		IsActive:     true,
	}
	if input.DeliveryDays > 0 {
		row.DeliveryDays = input.DeliveryDays
	}
	if input.CODAvailable != nil {
		row.CODAvailable = *input.CODAvailable
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "pincode already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating pincode")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) error {
	updates := map[string]any{}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.State != nil {
		updates["state"] = *input.State
	}
	if input.DeliveryDays != nil {
		if *input.DeliveryDays <= 0 {
			return apperrors.New(apperrors.CodeValidation, "delivery days must be positive")
		}
		updates["delivery_days"] = *input.DeliveryDays
	}
	if input.CODAvailable != nil {
		updates["cod_available"] = *input.CODAvailable
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return apperrors.New(apperrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "pincode not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating pincode")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "pincode not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting pincode")
	}
	return nil
}

func (s *service) lookupQuietly(ctx context.Context, pincode string) *geocode.PincodeInfo {
	if s.geocoder == nil {
		return nil
	}
	info, err := s.geocoder.Lookup(ctx, pincode)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "pincode", pincode), "pincode directory lookup failed")
		return nil
	}
	return info
}
