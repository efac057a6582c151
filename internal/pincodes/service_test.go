package pincodes

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/geocode"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

type stubRepo struct {
	Repository

	rows    map[string]*models.ServiceablePincode
	created []*models.ServiceablePincode
}

func (s *stubRepo) FindByPincode(_ context.Context, pincode string) (*models.ServiceablePincode, error) {
	row, ok := s.rows[pincode]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubRepo) Create(_ context.Context, row *models.ServiceablePincode) (*models.ServiceablePincode, error) {
	s.created = append(s.created, row)
	return row, nil
}

type stubGeocoder struct {
	info *geocode.PincodeInfo
	err  error
}

func (s *stubGeocoder) Lookup(_ context.Context, _ string) (*geocode.PincodeInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

func newService(t *testing.T, repo Repository, geocoder Geocoder) Service {
	t.Helper()
	svc, err := NewService(repo, geocoder,
		logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func TestCheckServiceablePincode(t *testing.T) {
	repo := &stubRepo{rows: map[string]*models.ServiceablePincode{
		"560001": {
			ID:           uuid.New(),
			Pincode:      "560001",
			City:         "Bengaluru",
			State:        "Karnataka",
			DeliveryDays: 3,
			CODAvailable: true,
		},
	}}
	svc := newService(t, repo, nil)

	result, err := svc.Check(context.Background(), "560001")
	require.NoError(t, err)
	assert.True(t, result.Serviceable)
	assert.Equal(t, "Bengaluru", result.City)
	assert.Equal(t, 3, result.DeliveryDays)
	assert.True(t, result.CODAvailable)
}

func TestCheckUnknownPincodeFallsBackToDirectory(t *testing.T) {
	repo := &stubRepo{rows: map[string]*models.ServiceablePincode{}}
	geocoder := &stubGeocoder{info: &geocode.PincodeInfo{
		Pincode: "110001",
		City:    "New Delhi",
		State:   "Delhi",
	}}
	svc := newService(t, repo, geocoder)

	result, err := svc.Check(context.Background(), "110001")
	require.NoError(t, err)
	assert.False(t, result.Serviceable)
	assert.Equal(t, "New Delhi", result.City)
	assert.Equal(t, "Delhi", result.State)
}

func TestCheckDirectoryFailureIsSilent(t *testing.T) {
	repo := &stubRepo{rows: map[string]*models.ServiceablePincode{}}
	svc := newService(t, repo, &stubGeocoder{err: fmt.Errorf("timeout")})

	result, err := svc.Check(context.Background(), "110001")
	require.NoError(t, err)
	assert.False(t, result.Serviceable)
	assert.Empty(t, result.City)
}

func TestCheckRejectsMalformedPincode(t *testing.T) {
	svc := newService(t, &stubRepo{}, nil)

	for _, pincode := range []string{"12345", "0123456", "abc123", "012345"} {
		_, err := svc.Check(context.Background(), pincode)
		require.Error(t, err, "pincode %q", pincode)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	}
}

func TestCreateAutofillsCityState(t *testing.T) {
	repo := &stubRepo{rows: map[string]*models.ServiceablePincode{}}
	geocoder := &stubGeocoder{info: &geocode.PincodeInfo{
		Pincode: "400001",
		City:    "Mumbai",
		State:   "Maharashtra",
	}}
	svc := newService(t, repo, geocoder)

	row, err := svc.Create(context.Background(), CreateInput{Pincode: "400001"})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", row.City)
	assert.Equal(t, "Maharashtra", row.State)
	assert.Equal(t, defaultDeliveryDays, row.DeliveryDays)
	assert.True(t, row.CODAvailable)
}

func TestCreateWithoutCityWhenDirectoryDown(t *testing.T) {
	repo := &stubRepo{rows: map[string]*models.ServiceablePincode{}}
	svc := newService(t, repo, &stubGeocoder{err: fmt.Errorf("unreachable")})

	_, err := svc.Create(context.Background(), CreateInput{Pincode: "400001"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
