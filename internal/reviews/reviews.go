// Package reviews stores customer product ratings.
package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/internal/cart"
	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

// CreateInput is a new rating for a product.
type CreateInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// Repository defines persistence for reviews.
type Repository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes review operations.
type Service interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	Create(ctx context.Context, input CreateInput) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository bound to the provided DB.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type service struct {
	repo     Repository
	products cart.ProductFinder
}

// NewService builds the reviews service.
func NewService(repo Repository, products cart.ProductFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing reviews")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.New(apperrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindProductByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	review := &models.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
	}
	if input.Comment != "" {
		review.Comment = &input.Comment
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "you have already reviewed this product")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating review")
	}
	return created, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "review not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting review")
	}
	return nil
}
