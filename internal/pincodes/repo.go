package pincodes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pincode repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByPincode(ctx context.Context, pincode string) (*models.ServiceablePincode, error) {
	var row models.ServiceablePincode
	err := r.db.WithContext(ctx).
		Where("pincode = ? AND is_active = ?", pincode, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context) ([]models.ServiceablePincode, error) {
	var rows []models.ServiceablePincode
	err := r.db.WithContext(ctx).Order("pincode ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, row *models.ServiceablePincode) (*models.ServiceablePincode, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.ServiceablePincode{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ServiceablePincode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
