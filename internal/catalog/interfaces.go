package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/pagination"
)

// Repository defines persistence operations for products and categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// Service exposes catalog reads for the storefront and writes for admins.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
