package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
)

type stubCartRepo struct {
	Repository

	items   map[uuid.UUID]*models.CartItem
	deleted []uuid.UUID
	cleared bool
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: map[uuid.UUID]*models.CartItem{}}
}

func (s *stubCartRepo) FindItem(_ context.Context, userID, productID uuid.UUID, size, color string) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID && item.Size == size && item.Color == color {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Upsert(_ context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubCartRepo) DeleteItem(_ context.Context, _, itemID uuid.UUID) error {
	if _, ok := s.items[itemID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, itemID)
	s.deleted = append(s.deleted, itemID)
	return nil
}

func (s *stubCartRepo) Clear(_ context.Context, _ uuid.UUID) error {
	s.items = map[uuid.UUID]*models.CartItem{}
	s.cleared = true
	return nil
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func fixtures(t *testing.T) (*stubCartRepo, *stubProducts, Service, *models.Product) {
	t.Helper()
	repo := newStubCartRepo()
	product := &models.Product{ID: uuid.New(), Name: "Kurta", PricePaise: 49900, IsActive: true, Stock: 5}
	products := &stubProducts{byID: map[uuid.UUID]*models.Product{product.ID: product}}
	svc, err := NewService(repo, products)
	require.NoError(t, err)
	return repo, products, svc, product
}

func TestPutCreatesLine(t *testing.T) {
	repo, _, svc, product := fixtures(t)
	userID := uuid.New()

	item, err := svc.Put(context.Background(), PutInput{
		UserID: userID, ProductID: product.ID, Size: "M", Quantity: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)
	assert.Len(t, repo.items, 1)
}

func TestPutZeroQuantityRemovesLine(t *testing.T) {
	repo, _, svc, product := fixtures(t)
	userID := uuid.New()

	item, err := svc.Put(context.Background(), PutInput{
		UserID: userID, ProductID: product.ID, Size: "M", Quantity: 1,
	})
	require.NoError(t, err)

	removed, err := svc.Put(context.Background(), PutInput{
		UserID: userID, ProductID: product.ID, Size: "M", Quantity: 0,
	})
	require.NoError(t, err)
	assert.Nil(t, removed)
	assert.Empty(t, repo.items)
	assert.Contains(t, repo.deleted, item.ID)
}

func TestPutZeroQuantityOnAbsentLineIsNoop(t *testing.T) {
	_, _, svc, product := fixtures(t)

	removed, err := svc.Put(context.Background(), PutInput{
		UserID: uuid.New(), ProductID: product.ID, Quantity: -1,
	})
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestPutRejectsInactiveProduct(t *testing.T) {
	_, products, svc, product := fixtures(t)
	product.IsActive = false
	products.byID[product.ID] = product

	_, err := svc.Put(context.Background(), PutInput{
		UserID: uuid.New(), ProductID: product.ID, Quantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestPutRejectsOverStock(t *testing.T) {
	_, _, svc, product := fixtures(t)

	_, err := svc.Put(context.Background(), PutInput{
		UserID: uuid.New(), ProductID: product.ID, Quantity: 6,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestPutUnknownProduct(t *testing.T) {
	_, _, svc, _ := fixtures(t)

	_, err := svc.Put(context.Background(), PutInput{
		UserID: uuid.New(), ProductID: uuid.New(), Quantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestRemoveMissingItem(t *testing.T) {
	_, _, svc, _ := fixtures(t)

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestClear(t *testing.T) {
	repo, _, svc, _ := fixtures(t)
	require.NoError(t, svc.Clear(context.Background(), uuid.New()))
	assert.True(t, repo.cleared)
}
