package reviews

import (
	"context"
	"fmt"
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

	created   []*models.Review
	createErr error
}

func (s *stubRepo) Create(_ context.Context, review *models.Review) (*models.Review, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, review)
	return review, nil
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

func newService(t *testing.T, repo *stubRepo, productID uuid.UUID) Service {
	t.Helper()
	svc, err := NewService(repo, &stubProducts{known: map[uuid.UUID]bool{productID: true}})
	require.NoError(t, err)
	return svc
}

func TestCreateReview(t *testing.T) {
	productID := uuid.New()
	repo := &stubRepo{}
	svc := newService(t, repo, productID)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID:    uuid.New(),
		ProductID: productID,
		Rating:    4,
		Comment:   "lovely fabric",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	require.NotNil(t, review.Comment)
	assert.Equal(t, "lovely fabric", *review.Comment)
	assert.Len(t, repo.created, 1)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	productID := uuid.New()
	svc := newService(t, &stubRepo{}, productID)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), CreateInput{
			UserID:    uuid.New(),
			ProductID: productID,
			Rating:    rating,
		})
		require.Error(t, err, "rating %d", rating)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	svc := newService(t, &stubRepo{}, uuid.New())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		Rating:    5,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCreateReviewDuplicate(t *testing.T) {
	productID := uuid.New()
	repo := &stubRepo{createErr: fmt.Errorf(`duplicate key value violates unique constraint "idx_review_product_user"`)}
	svc := newService(t, repo, productID)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:    uuid.New(),
		ProductID: productID,
		Rating:    5,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}
