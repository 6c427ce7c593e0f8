package service

import (
	"math"
	"testing"
	"time"

	"farm-analytics/internal/model"
)

func TestComputeRateWeightGain(t *testing.T) {
	records := []model.Measurement{
		measurement(1, 7, day(2024, 1, 10), 380.5),
		measurement(2, 7, day(2024, 4, 10), 450.2),
	}

	got := ComputeRate(records)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}

	if got.EntityID != 7 {
		t.Errorf("EntityID = %d, expected 7", got.EntityID)
	}
	if got.ElapsedDays != 91 {
		t.Errorf("ElapsedDays = %d, expected 91", got.ElapsedDays)
	}
	if math.Abs(got.TotalDelta-69.7) > 1e-9 {
		t.Errorf("TotalDelta = %f, expected 69.7", got.TotalDelta)
	}
	if math.Abs(got.DailyRate-got.TotalDelta/91) > 1e-12 {
		t.Errorf("DailyRate = %f, expected TotalDelta/91 = %f", got.DailyRate, got.TotalDelta/91)
	}
	if math.Abs(got.DailyRate-0.766) > 0.001 {
		t.Errorf("DailyRate = %f, expected about 0.766", got.DailyRate)
	}
}

func TestComputeRateInsufficientData(t *testing.T) {
	if got := ComputeRate(nil); got != nil {
		t.Errorf("empty series should have no rate, got %+v", got)
	}

	single := []model.Measurement{measurement(1, 1, day(2024, 1, 1), 100)}
	if got := ComputeRate(single); got != nil {
		t.Errorf("single observation should have no rate, got %+v", got)
	}
}

// First and last on the same date divide by one, not zero.
func TestComputeRateSameDay(t *testing.T) {
	records := []model.Measurement{
		measurement(1, 1, day(2024, 3, 3), 100),
		measurement(2, 1, day(2024, 3, 3), 104),
	}

	got := ComputeRate(records)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if got.ElapsedDays != 0 {
		t.Errorf("ElapsedDays = %d, expected 0", got.ElapsedDays)
	}
	if got.DailyRate != 4 {
		t.Errorf("DailyRate = %f, expected 4 (delta over max(0,1) days)", got.DailyRate)
	}
}

// Weight loss is a valid negative rate, never clamped.
func TestComputeRateNegativeDelta(t *testing.T) {
	records := []model.Measurement{
		measurement(1, 1, day(2024, 1, 1), 500),
		measurement(2, 1, day(2024, 1, 11), 490),
	}

	got := ComputeRate(records)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if got.TotalDelta != -10 {
		t.Errorf("TotalDelta = %f, expected -10", got.TotalDelta)
	}
	if got.DailyRate != -1 {
		t.Errorf("DailyRate = %f, expected -1", got.DailyRate)
	}
}

// Date ties resolve to the lowest record id at both ends.
func TestComputeRateTieBreak(t *testing.T) {
	records := []model.Measurement{
		measurement(4, 1, day(2024, 1, 1), 101),
		measurement(2, 1, day(2024, 1, 1), 99),
		measurement(9, 1, day(2024, 1, 31), 140),
		measurement(7, 1, day(2024, 1, 31), 150),
	}

	got := ComputeRate(records)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if got.FirstValue != 99 {
		t.Errorf("FirstValue = %f, expected 99 (lowest id on first date)", got.FirstValue)
	}
	if got.LastValue != 150 {
		t.Errorf("LastValue = %f, expected 150 (lowest id on last date)", got.LastValue)
	}

	// Order of the input must not matter.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	again := ComputeRate(records)
	if again == nil || *again != *got {
		t.Errorf("rate changed with input order: %+v vs %+v", again, got)
	}
}

func TestComputeRatesBatch(t *testing.T) {
	records := []model.Measurement{
		// Entity 3: two observations.
		measurement(1, 3, day(2024, 1, 1), 300),
		measurement(2, 3, day(2024, 1, 11), 310),
		// Entity 1: one observation, silently omitted.
		measurement(3, 1, day(2024, 1, 5), 420),
		// Entity 2: three observations.
		measurement(4, 2, day(2024, 1, 1), 200),
		measurement(5, 2, day(2024, 1, 6), 204),
		measurement(6, 2, day(2024, 1, 21), 212),
	}

	got := ComputeRates(records)

	if len(got) != 2 {
		t.Fatalf("got %d results, expected 2 (entity with one observation omitted)", len(got))
	}
	if got[0].EntityID != 2 || got[1].EntityID != 3 {
		t.Errorf("batch order = [%d %d], expected ascending entity ids [2 3]", got[0].EntityID, got[1].EntityID)
	}
	if got[0].ElapsedDays != 20 {
		t.Errorf("entity 2 ElapsedDays = %d, expected 20", got[0].ElapsedDays)
	}
	if got[1].TotalDelta != 10 {
		t.Errorf("entity 3 TotalDelta = %f, expected 10", got[1].TotalDelta)
	}
}

func TestComputeRatesEmpty(t *testing.T) {
	got := ComputeRates(nil)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestComputeRateLeapYearSpan(t *testing.T) {
	records := []model.Measurement{
		measurement(1, 1, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), 100),
		measurement(2, 1, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 102),
	}

	got := ComputeRate(records)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if got.ElapsedDays != 2 {
		t.Errorf("ElapsedDays = %d, expected 2 across the leap day", got.ElapsedDays)
	}
}
