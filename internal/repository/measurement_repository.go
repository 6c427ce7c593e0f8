package repository

import (
	"context"

	"farm-analytics/internal/model"
	"farm-analytics/internal/query"

	"gorm.io/gorm"
)

// BucketRow is one row of a grouped rollup query.
type BucketRow struct {
	BucketKey  string  `gorm:"column:bucket_key"`
	TotalValue float64 `gorm:"column:total_value"`
}

// MeasurementRepository is the record-store adapter consumed by the
// reporting services.
type MeasurementRepository interface {
	Fetch(ctx context.Context, w query.Window) ([]model.Measurement, error)
	FetchGrouped(ctx context.Context, w query.Window, bucket string) ([]BucketRow, error)
	EntityExists(ctx context.Context, entityID uint) (bool, error)
}

// measurementRepository implements MeasurementRepository
type measurementRepository struct {
	db *gorm.DB
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{db: db}
}

// EntityExists checks if a farm entity with the given ID exists
func (r *measurementRepository) EntityExists(ctx context.Context, entityID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FarmEntity{}).Where("id = ?", entityID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Fetch returns the raw measurements matching the window. The result is
// never nil and carries no ordering guarantee; callers re-sort.
func (r *measurementRepository) Fetch(ctx context.Context, w query.Window) ([]model.Measurement, error) {
	records := make([]model.Measurement, 0)

	tx := applyWindow(r.db.WithContext(ctx).Model(&model.Measurement{}), w)
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// FetchGrouped pushes the day/month rollup into SQL. The output matches
// the in-memory aggregator: inclusive bounds, ascending bucket keys,
// and only populated buckets.
func (r *measurementRepository) FetchGrouped(ctx context.Context, w query.Window, bucket string) ([]BucketRow, error) {
	keyExpr := "to_char(occurred_on, 'YYYY-MM-DD')"
	if bucket == "month" {
		keyExpr = "to_char(occurred_on, 'YYYY-MM')"
	}

	baseQuery := "1=1"
	args := []interface{}{}
	if w.OwnerID != nil {
		baseQuery += " AND owner_id = ?"
		args = append(args, *w.OwnerID)
	}
	if w.EntityID != nil {
		baseQuery += " AND farm_entity_id = ?"
		args = append(args, *w.EntityID)
	}
	if w.Start != nil {
		baseQuery += " AND occurred_on >= ?"
		args = append(args, *w.Start)
	}
	if w.End != nil {
		baseQuery += " AND occurred_on <= ?"
		args = append(args, *w.End)
	}

	sqlQuery := `
		SELECT
			` + keyExpr + ` AS bucket_key,
			SUM(value) AS total_value
		FROM measurements
		WHERE ` + baseQuery + `
		GROUP BY 1
		ORDER BY 1 ASC`

	rows := make([]BucketRow, 0)
	if err := r.db.WithContext(ctx).Raw(sqlQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func applyWindow(tx *gorm.DB, w query.Window) *gorm.DB {
	if w.OwnerID != nil {
		tx = tx.Where("owner_id = ?", *w.OwnerID)
	}
	if w.EntityID != nil {
		tx = tx.Where("farm_entity_id = ?", *w.EntityID)
	}
	if w.Start != nil {
		tx = tx.Where("occurred_on >= ?", *w.Start)
	}
	if w.End != nil {
		tx = tx.Where("occurred_on <= ?", *w.End)
	}
	return tx
}
