package repository

import (
	"context"
	"errors"

	"farm-analytics/internal/model"

	"gorm.io/gorm"
)

// PriceRepository persists the per-period price history. The current
// price is always the row with the most recent period, looked up on
// demand rather than cached.
type PriceRepository interface {
	Latest(ctx context.Context) (*model.PriceRecord, error)
	FindByPeriod(ctx context.Context, period string) (*model.PriceRecord, error)
	Create(ctx context.Context, rec *model.PriceRecord) error
	Update(ctx context.Context, rec *model.PriceRecord) error
}

// priceRepository implements PriceRepository
type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

// Latest returns the record with the most recent period, or nil when no
// price has been recorded yet.
func (r *priceRepository) Latest(ctx context.Context) (*model.PriceRecord, error) {
	var rec model.PriceRecord
	err := r.db.WithContext(ctx).Order("period DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByPeriod returns the record for the given YYYY-MM period, or nil.
func (r *priceRepository) FindByPeriod(ctx context.Context, period string) (*model.PriceRecord, error) {
	var rec model.PriceRecord
	err := r.db.WithContext(ctx).Where("period = ?", period).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *priceRepository) Create(ctx context.Context, rec *model.PriceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *priceRepository) Update(ctx context.Context, rec *model.PriceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}
