/*
pipeline.go - End-to-end analysis run

PURPOSE:
  Glues the stages together: tally and recommendation are computed from the
  same normalized samples, joined on equipment identity into report rows,
  and the recommendations drive the future-date projection. A run is a pure
  function of (samples, policy, run date, window lower bound); running it
  twice on identical input yields identical output.

CACHING:
  Results MAY be memoized by callers; CacheKey produces a content hash of
  the inputs for that purpose. Correctness never depends on the cache.
*/
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Result is the full output of one analysis run.
type Result struct {
	Window     Window
	RunDate    time.Time
	Rows       []ReportRow
	Projection []ProjectionEntry
}

// Analyze runs the pipeline over normalized samples. An empty sample set
// yields empty, well-typed slices - never an error.
func Analyze(samples []Sample, policy Policy, runDate time.Time, fromYear int) Result {
	runDate = DateOnly(runDate)
	window := WindowFor(runDate, fromYear)

	tally := Tally(samples, window)
	recs := Recommend(samples, policy)

	projection := Project(ProjectionInput{
		Recommendations: recs,
		LastSampled:     LastSampled(samples),
		RunDate:         runDate,
		Policy:          policy,
	})

	return Result{
		Window:     window,
		RunDate:    runDate,
		Rows:       joinReport(tally, recs),
		Projection: projection,
	}
}

// LastSampled returns each equipment's most recent sample date.
func LastSampled(samples []Sample) map[EquipmentKey]time.Time {
	last := make(map[EquipmentKey]time.Time)
	for _, s := range samples {
		if s.SampledAt.After(last[s.Key()]) {
			last[s.Key()] = s.SampledAt
		}
	}
	return last
}

// joinReport left-joins recommendations onto tally rows by equipment key:
// every tallied equipment appears even when its recommendation is undefined.
func joinReport(tally []TallyRow, recs []Recommendation) []ReportRow {
	byKey := make(map[EquipmentKey]Recommendation, len(recs))
	for _, rec := range recs {
		byKey[rec.Key] = rec
	}

	rows := make([]ReportRow, 0, len(tally))
	for _, t := range tally {
		row := ReportRow{
			Key:         t.Key,
			AssetClass:  t.AssetClass,
			AccountName: t.AccountName,
			Counts:      t.Counts,
		}
		if rec, ok := byKey[t.Key]; ok {
			row.Cadence = rec.Cadence
			row.MeanIntervalDays = rec.MeanIntervalDays
			row.ZScore = rec.ZScore
		}
		rows = append(rows, row)
	}
	return rows
}

// CacheKey hashes the identity of an analysis request: dataset, account
// selection (order-insensitive), unit and run date. Two requests with the
// same key are guaranteed the same Result.
func CacheKey(datasetID string, accounts []string, unit FrequencyUnit, runDate time.Time) string {
	sorted := append([]string{}, accounts...)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(datasetID))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, "\x00")))
	h.Write([]byte{0})
	h.Write([]byte(unit))
	h.Write([]byte{0})
	h.Write([]byte(DateOnly(runDate).Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))
}
