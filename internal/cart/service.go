package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

type service struct {
	repo     Repository
	products ProductFinder
}

// NewService builds the cart service.
func NewService(repo Repository, products ProductFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing cart")
	}
	return items, nil
}

func (s *service) Put(ctx context.Context, input PutInput) (*models.CartItem, error) {
	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, apperrors.New(apperrors.CodeValidation, "product is no longer available")
	}

	// qty<=0 means remove the line; absent lines are a no-op
	if input.Quantity <= 0 {
		existing, err := s.repo.FindItem(ctx, input.UserID, input.ProductID, input.Size, input.Color)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart line")
		}
		if err := s.repo.DeleteItem(ctx, input.UserID, existing.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "removing cart line")
		}
		return nil, nil
	}

	if product.Stock > 0 && input.Quantity > product.Stock {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("only %d left in stock", product.Stock))
	}

	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Size:      input.Size,
		Color:     input.Color,
		Quantity:  input.Quantity,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving cart line")
	}
	item.Product = product
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "cart item not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "removing cart item")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "clearing cart")
	}
	return nil
}
