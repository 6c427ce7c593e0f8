package service

import (
	"sort"
	"time"

	"farm-analytics/internal/model"
)

// RateResult describes the change between the first and last observation
// of one entity inside a window.
type RateResult struct {
	EntityID    uint      `json:"entity_id"`
	FirstDate   time.Time `json:"first_date"`
	LastDate    time.Time `json:"last_date"`
	FirstValue  float64   `json:"first_value"`
	LastValue   float64   `json:"last_value"`
	ElapsedDays int       `json:"elapsed_days"`
	TotalDelta  float64   `json:"total_delta"`
	DailyRate   float64   `json:"daily_rate"`
}

// ComputeRate derives the per-day change across one entity's measurement
// series. Returns nil when fewer than two observations exist; a single
// reading has no defined rate. Ties on the observation date resolve to
// the lowest record id, for both ends, so repeated runs stay
// deterministic. A negative delta (weight loss) is valid and preserved.
func ComputeRate(records []model.Measurement) *RateResult {
	if len(records) < 2 {
		return nil
	}

	first, last := records[0], records[0]
	for _, rec := range records[1:] {
		if rec.OccurredOn.Before(first.OccurredOn) ||
			(rec.OccurredOn.Equal(first.OccurredOn) && rec.ID < first.ID) {
			first = rec
		}
		if rec.OccurredOn.After(last.OccurredOn) ||
			(rec.OccurredOn.Equal(last.OccurredOn) && rec.ID < last.ID) {
			last = rec
		}
	}

	elapsed := int(last.OccurredOn.Sub(first.OccurredOn).Hours() / 24)
	delta := last.Value - first.Value

	// Same-day first and last observation still yields a defined rate.
	divisor := elapsed
	if divisor < 1 {
		divisor = 1
	}

	return &RateResult{
		EntityID:    first.FarmEntityID,
		FirstDate:   first.OccurredOn,
		LastDate:    last.OccurredOn,
		FirstValue:  first.Value,
		LastValue:   last.Value,
		ElapsedDays: elapsed,
		TotalDelta:  delta,
		DailyRate:   delta / float64(divisor),
	}
}

// ComputeRates runs ComputeRate for every entity present in records.
// Entities with fewer than two observations are omitted, not reported
// as errors. Output is ordered by entity id for stable payloads.
func ComputeRates(records []model.Measurement) []RateResult {
	byEntity := make(map[uint][]model.Measurement)
	for _, rec := range records {
		byEntity[rec.FarmEntityID] = append(byEntity[rec.FarmEntityID], rec)
	}

	ids := make([]uint, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := make([]RateResult, 0, len(ids))
	for _, id := range ids {
		if r := ComputeRate(byEntity[id]); r != nil {
			results = append(results, *r)
		}
	}
	return results
}
