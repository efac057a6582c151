package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

type stubRepo struct {
	Repository

	rows   []models.WishlistItem
	addErr error
}

func (s *stubRepo) Add(_ context.Context, item *models.WishlistItem) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.rows = append(s.rows, *item)
	return nil
}

func (s *stubRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	for i, row := range s.rows {
		if row.UserID == userID && row.ProductID == productID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubProducts struct {
	known map[uuid.UUID]bool
}

func (s *stubProducts) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

func TestAddAndRemove(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	repo := &stubRepo{}
	svc, err := NewService(repo, &stubProducts{known: map[uuid.UUID]bool{productID: true}})
	require.NoError(t, err)

	require.NoError(t, svc.Add(context.Background(), userID, productID))
	assert.Len(t, repo.rows, 1)

	require.NoError(t, svc.Remove(context.Background(), userID, productID))
	assert.Empty(t, repo.rows)
}

func TestAddDuplicateIsIdempotent(t *testing.T) {
	productID := uuid.New()
	repo := &stubRepo{addErr: errors.New(`duplicate key value violates unique constraint "idx_wishlist_user_product"`)}
	svc, err := NewService(repo, &stubProducts{known: map[uuid.UUID]bool{productID: true}})
	require.NoError(t, err)

	require.NoError(t, svc.Add(context.Background(), uuid.New(), productID))
}

func TestAddUnknownProduct(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubProducts{known: map[uuid.UUID]bool{}})
	require.NoError(t, err)

	err = svc.Add(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestRemoveMissing(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubProducts{known: map[uuid.UUID]bool{}})
	require.NoError(t, err)

	err = svc.Remove(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
