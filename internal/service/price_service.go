package service

import (
	"context"
	"fmt"
	"time"

	"farm-analytics/internal/model"
	"farm-analytics/internal/query"
	"farm-analytics/internal/repository"

	"go.uber.org/zap"
)

// Default pricing applied before any record exists. Configuration, not
// a derived value.
const (
	DefaultBaseValue     = 2.50
	DefaultAdjustmentPct = 0.15
)

const periodLayout = "2006-01"

// PriceService maintains the current per-period price. Reads degrade to
// the configured default; writes surface storage failures.
type PriceService interface {
	CurrentPrice(ctx context.Context) *model.PriceRecord
	UpdatePrice(ctx context.Context, baseValue, adjustmentPct float64) (*model.PriceRecord, error)
}

// priceService implements PriceService
type priceService struct {
	repo   repository.PriceRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewPriceService creates a new price service
func NewPriceService(repo repository.PriceRepository, logger *zap.Logger) PriceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &priceService{repo: repo, logger: logger, now: time.Now}
}

func derive(baseValue, adjustmentPct float64) float64 {
	return baseValue * (1 - adjustmentPct)
}

// CurrentPrice returns the record for the most recent period. When the
// table is empty or the store is unreachable it falls back to the
// configured default, logging the two cases apart.
func (s *priceService) CurrentPrice(ctx context.Context) *model.PriceRecord {
	rec, err := s.repo.Latest(ctx)
	if err != nil {
		s.logger.Warn("serving default price",
			zap.String("reason", "source_unavailable"),
			zap.Error(err),
		)
		return s.defaultPrice()
	}
	if rec == nil {
		s.logger.Info("serving default price",
			zap.String("reason", "empty_result"),
		)
		return s.defaultPrice()
	}
	return rec
}

func (s *priceService) defaultPrice() *model.PriceRecord {
	now := s.now().UTC()
	return &model.PriceRecord{
		Period:        now.Format(periodLayout),
		EffectiveFrom: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		BaseValue:     DefaultBaseValue,
		AdjustmentPct: DefaultAdjustmentPct,
		DerivedValue:  derive(DefaultBaseValue, DefaultAdjustmentPct),
	}
}

// UpdatePrice applies new pricing to the current calendar period: an
// existing record for the period is updated in place, otherwise a new
// record stamped with the first day of the period is inserted. The
// unique index on period keeps this upsert race-safe; a lost insert
// race is retried once as an update.
func (s *priceService) UpdatePrice(ctx context.Context, baseValue, adjustmentPct float64) (*model.PriceRecord, error) {
	if baseValue < 0 {
		return nil, &query.ValidationError{
			Field:   "base_value",
			Kind:    query.KindRange,
			Message: "base_value must be at least 0",
		}
	}
	if adjustmentPct < 0 || adjustmentPct > 1 {
		return nil, &query.ValidationError{
			Field:   "adjustment_pct",
			Kind:    query.KindRange,
			Message: "adjustment_pct must be between 0 and 1",
		}
	}

	now := s.now().UTC()
	period := now.Format(periodLayout)

	rec, err := s.repo.FindByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	if rec != nil {
		applied, err := s.applyToExisting(ctx, rec, baseValue, adjustmentPct)
		if err != nil {
			return nil, err
		}
		s.logger.Info("price updated",
			zap.String("period", period),
			zap.Float64("derived_value", applied.DerivedValue),
		)
		return applied, nil
	}

	rec = &model.PriceRecord{
		Period:        period,
		EffectiveFrom: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		BaseValue:     baseValue,
		AdjustmentPct: adjustmentPct,
		DerivedValue:  derive(baseValue, adjustmentPct),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		// A concurrent writer may have created the period first; the
		// unique index on period turns that into an update.
		existing, findErr := s.repo.FindByPeriod(ctx, period)
		if findErr != nil || existing == nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return s.applyToExisting(ctx, existing, baseValue, adjustmentPct)
	}

	s.logger.Info("price recorded",
		zap.String("period", period),
		zap.Float64("derived_value", rec.DerivedValue),
	)
	return rec, nil
}

func (s *priceService) applyToExisting(ctx context.Context, rec *model.PriceRecord, baseValue, adjustmentPct float64) (*model.PriceRecord, error) {
	rec.BaseValue = baseValue
	rec.AdjustmentPct = adjustmentPct
	rec.DerivedValue = derive(baseValue, adjustmentPct)
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return rec, nil
}
