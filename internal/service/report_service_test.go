package service

import (
	"context"
	"errors"
	"testing"

	"farm-analytics/internal/model"
	"farm-analytics/internal/query"
	"farm-analytics/internal/repository"

	"go.uber.org/zap"
)

// fakeMeasurementRepo is an in-memory MeasurementRepository.
type fakeMeasurementRepo struct {
	records []model.Measurement
	err     error
}

func (f *fakeMeasurementRepo) Fetch(ctx context.Context, w query.Window) ([]model.Measurement, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Measurement, 0)
	for _, rec := range f.records {
		if !w.Contains(rec.OccurredOn) {
			continue
		}
		if w.EntityID != nil && rec.FarmEntityID != *w.EntityID {
			continue
		}
		if w.OwnerID != nil && rec.OwnerID != *w.OwnerID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeMeasurementRepo) FetchGrouped(ctx context.Context, w query.Window, bucket string) ([]repository.BucketRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := make([]repository.BucketRow, 0)
	records, _ := f.Fetch(ctx, w)
	for _, r := range Rollup(records, bucket, w, false) {
		rows = append(rows, repository.BucketRow{BucketKey: r.BucketKey, TotalValue: r.TotalValue})
	}
	return rows, nil
}

func (f *fakeMeasurementRepo) EntityExists(ctx context.Context, entityID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, rec := range f.records {
		if rec.FarmEntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func TestProductionRollupLiveData(t *testing.T) {
	repo := &fakeMeasurementRepo{records: []model.Measurement{
		measurement(1, 1, day(2024, 1, 1), 5000),
		measurement(2, 1, day(2024, 2, 1), 5200),
	}}
	svc := NewReportService(repo, zap.NewNop())

	got, degraded := svc.ProductionRollup(context.Background(), query.Window{}, BucketMonth, false)

	if degraded {
		t.Error("live data should not degrade")
	}
	if len(got) != 2 || got[0].BucketKey != "2024-01" {
		t.Errorf("rollup = %+v, expected two monthly buckets from 2024-01", got)
	}
}

// Source failure and empty result both yield the placeholder; only the
// degraded flag and logs reveal it.
func TestProductionRollupDegrades(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeMeasurementRepo
	}{
		{name: "source unavailable", repo: &fakeMeasurementRepo{err: errors.New("connection refused")}},
		{name: "empty result", repo: &fakeMeasurementRepo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReportService(tt.repo, zap.NewNop())

			got, degraded := svc.ProductionRollup(context.Background(), query.Window{}, BucketDay, false)
			if !degraded {
				t.Error("expected degraded response")
			}
			if len(got) == 0 {
				t.Error("placeholder payload should not be empty")
			}
		})
	}
}

func TestProductionRollupDensePath(t *testing.T) {
	repo := &fakeMeasurementRepo{records: []model.Measurement{
		measurement(1, 1, day(2024, 1, 2), 100),
	}}
	svc := NewReportService(repo, zap.NewNop())

	start := day(2024, 1, 1)
	end := day(2024, 1, 3)
	got, degraded := svc.ProductionRollup(context.Background(), query.Window{Start: &start, End: &end}, BucketDay, true)

	if degraded {
		t.Error("dense rollup with data should not degrade")
	}
	if len(got) != 3 {
		t.Fatalf("got %d buckets, expected 3 zero-filled days", len(got))
	}
	if got[0].TotalValue != 0 || got[1].TotalValue != 100 || got[2].TotalValue != 0 {
		t.Errorf("dense totals = %+v, expected [0 100 0]", got)
	}
}

func TestWeightGainRates(t *testing.T) {
	repo := &fakeMeasurementRepo{records: []model.Measurement{
		measurement(1, 1, day(2024, 1, 10), 380.5),
		measurement(2, 1, day(2024, 4, 10), 450.2),
		measurement(3, 2, day(2024, 2, 1), 300), // single reading, omitted
	}}
	svc := NewReportService(repo, zap.NewNop())

	got, degraded := svc.WeightGainRates(context.Background(), query.Window{})

	if degraded {
		t.Error("live data should not degrade")
	}
	if len(got) != 1 || got[0].EntityID != 1 {
		t.Fatalf("rates = %+v, expected one result for entity 1", got)
	}
}

func TestWeightGainRatesDegradesWhenAllOmitted(t *testing.T) {
	// Records exist but no entity has two observations.
	repo := &fakeMeasurementRepo{records: []model.Measurement{
		measurement(1, 1, day(2024, 1, 10), 380.5),
	}}
	svc := NewReportService(repo, zap.NewNop())

	got, degraded := svc.WeightGainRates(context.Background(), query.Window{})
	if !degraded {
		t.Error("expected degraded response when no entity qualifies")
	}
	if len(got) == 0 {
		t.Error("placeholder payload should not be empty")
	}
}

func TestEntityRate(t *testing.T) {
	repo := &fakeMeasurementRepo{records: []model.Measurement{
		measurement(1, 5, day(2024, 1, 1), 400),
		measurement(2, 5, day(2024, 1, 31), 430),
		measurement(3, 6, day(2024, 1, 15), 999),
	}}
	svc := NewReportService(repo, zap.NewNop())

	got, degraded := svc.EntityRate(context.Background(), 5, query.Window{})

	if degraded {
		t.Error("live data should not degrade")
	}
	if got.EntityID != 5 || got.TotalDelta != 30 {
		t.Errorf("rate = %+v, expected entity 5 with delta 30", got)
	}
}

func TestEntityRateDegradesOnInsufficientData(t *testing.T) {
	repo := &fakeMeasurementRepo{records: []model.Measurement{
		measurement(1, 5, day(2024, 1, 1), 400),
	}}
	svc := NewReportService(repo, zap.NewNop())

	got, degraded := svc.EntityRate(context.Background(), 5, query.Window{})
	if !degraded {
		t.Error("expected degraded response for a single observation")
	}
	if got.EntityID != 5 {
		t.Errorf("placeholder EntityID = %d, expected the requested entity 5", got.EntityID)
	}
}
