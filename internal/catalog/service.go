package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/pagination"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a display name into a URL slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing products")
	}
	return list, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if slug == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "product name yields an empty slug")
	}
	if input.SalePricePaise != nil && *input.SalePricePaise >= input.PricePaise {
		return nil, apperrors.New(apperrors.CodeValidation, "sale price must be below the list price")
	}

	product := &models.Product{
		Name:                input.Name,
		Slug:                slug,
		Description:         input.Description,
		PricePaise:          input.PricePaise,
		SalePricePaise:      input.SalePricePaise,
		Images:              pq.StringArray(input.Images),
		Sizes:               pq.StringArray(input.Sizes),
		Colors:              pq.StringArray(input.Colors),
		Stock:               input.Stock,
		IsActive:            true,
		IsFeatured:          input.IsFeatured,
		ShippingChargePaise: input.ShippingChargePaise,
		CODAvailable:        true,
	}
	if input.CODAvailable != nil {
		product.CODAvailable = *input.CODAvailable
	}
	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid category id")
		}
		product.CategoryID = &categoryID
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) error {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return apperrors.New(apperrors.CodeValidation, "invalid category id")
		}
		updates["category_id"] = categoryID
	}
	if input.PricePaise != nil {
		updates["price_paise"] = *input.PricePaise
	}
	if input.ClearSalePrice {
		updates["sale_price_paise"] = nil
	} else if input.SalePricePaise != nil {
		updates["sale_price_paise"] = *input.SalePricePaise
	}
	if input.Images != nil {
		updates["images"] = pq.StringArray(*input.Images)
	}
	if input.Sizes != nil {
		updates["sizes"] = pq.StringArray(*input.Sizes)
	}
	if input.Colors != nil {
		updates["colors"] = pq.StringArray(*input.Colors)
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.ClearShippingCharge {
		updates["shipping_charge_paise"] = nil
	} else if input.ShippingChargePaise != nil {
		updates["shipping_charge_paise"] = *input.ShippingChargePaise
	}
	if input.CODAvailable != nil {
		updates["cod_available"] = *input.CODAvailable
	}
	if len(updates) == 0 {
		return apperrors.New(apperrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating product")
	}
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product deleted")
	return nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if slug == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "category name yields an empty slug")
	}

	category := &models.Category{Name: input.Name, Slug: slug, IsActive: true}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "a category with this slug already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) error {
	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Slug != "" {
		updates["slug"] = input.Slug
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return apperrors.New(apperrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		if db.IsUniqueViolation(err, "") {
			return apperrors.New(apperrors.CodeConflict, "a category with this slug already exists")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating category")
	}
	return nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting category")
	}
	return nil
}
