package analysis

import (
	"strings"
	"time"
)

// =============================================================================
// RECORD NORMALIZER - Raw rows in, valid samples out
// =============================================================================

// dateLayouts are the sample-date formats accepted from exports. MobilServ
// exports vary between ISO dates, US slashes and full timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// Normalize cleans raw rows into Samples. Rows with a missing or unparseable
// sample date are dropped and counted, never fatal: an input where every row
// fails simply yields an empty sample set and the downstream stages produce
// empty, well-typed results.
func Normalize(rows []RawRow) ([]Sample, int) {
	samples := make([]Sample, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		sampledAt, err := ParseSampleDate(row.DateSampled)
		if err != nil {
			dropped++
			continue
		}
		samples = append(samples, Sample{
			UnitID:      strings.TrimSpace(row.UnitID),
			AssetID:     strings.TrimSpace(row.AssetID),
			AccountName: strings.TrimSpace(row.AccountName),
			BottleID:    strings.TrimSpace(row.BottleID),
			SampledAt:   sampledAt,
			AssetClass:  strings.TrimSpace(row.AssetClass),
			Year:        sampledAt.Year(),
		})
	}
	return samples, dropped
}

// ParseSampleDate parses a raw sample-date field into a date-only UTC time.
func ParseSampleDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrMissingDate
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return DateOnly(parsed), nil
		}
	}
	return time.Time{}, &UnparseableDateError{Value: value}
}
