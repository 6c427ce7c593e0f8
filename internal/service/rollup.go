package service

import (
	"sort"
	"time"

	"farm-analytics/internal/model"
	"farm-analytics/internal/query"
)

// Supported rollup buckets.
const (
	BucketDay   = "day"
	BucketMonth = "month"
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// RollupResult is one time bucket's summed value.
type RollupResult struct {
	BucketKey  string  `json:"bucket_key"`
	TotalValue float64 `json:"total_value"`
}

// Rollup groups measurements into day or month buckets and sums their
// values, emitting buckets in ascending key order. Buckets with no
// records are omitted unless dense is set, so a zero total and a
// missing bucket stay distinguishable to the caller. Window bounds are
// inclusive; a nil bound leaves that side open.
func Rollup(records []model.Measurement, bucket string, w query.Window, dense bool) []RollupResult {
	layout := dayKeyLayout
	if bucket == BucketMonth {
		layout = monthKeyLayout
	}

	totals := make(map[string]float64)
	for _, rec := range records {
		if !w.Contains(rec.OccurredOn) {
			continue
		}
		totals[rec.OccurredOn.UTC().Format(layout)] += rec.Value
	}

	if dense && w.Start != nil && w.End != nil {
		fillBuckets(totals, bucket, *w.Start, *w.End)
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]RollupResult, 0, len(keys))
	for _, k := range keys {
		results = append(results, RollupResult{BucketKey: k, TotalValue: totals[k]})
	}
	return results
}

// fillBuckets inserts zero-valued buckets for every day or month between
// the window bounds.
func fillBuckets(totals map[string]float64, bucket string, start, end time.Time) {
	if bucket == BucketMonth {
		cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for !cur.After(end) {
			if _, ok := totals[cur.Format(monthKeyLayout)]; !ok {
				totals[cur.Format(monthKeyLayout)] = 0
			}
			cur = cur.AddDate(0, 1, 0)
		}
		return
	}

	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if _, ok := totals[cur.Format(dayKeyLayout)]; !ok {
			totals[cur.Format(dayKeyLayout)] = 0
		}
	}
}
