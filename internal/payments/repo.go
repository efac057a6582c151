package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payment-settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SettingsRowID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Update(ctx context.Context, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.PaymentSettings{}).
		Where("id = ?", models.SettingsRowID).
		Updates(updates).Error
}
