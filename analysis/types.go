/*
Package analysis provides the core oil-sampling cadence engine.

PURPOSE:
  This package contains the analytical pipeline that turns raw equipment
  oil-sample records into a recommended re-sampling cadence and a projected
  calendar of future sample dates. It is pure computation: no I/O, no
  logging, no clocks - every run is a function of (samples, policy, run date).

PIPELINE:
  Normalize -> Intervals -> Tally
                        \-> Recommend -> Project

KEY CONCEPTS IN THIS FILE (types.go):
  - RawRow: an untyped input row as read from a CSV/XLSX export
  - Sample: a normalized, immutable sample record with a valid date
  - EquipmentKey: (Unit ID, Asset ID) identifying one physical asset
  - Cadence: a derived re-sampling frequency; absent when underivable
  - TallyRow / ReportRow / ProjectionEntry: the derived output shapes

DESIGN PRINCIPLES:
  1. Immutability: Samples are never modified after normalization
  2. Precision: decimal.Decimal for cadence values, no float drift in output
  3. Explicit absence: a missing recommendation is a nil Cadence, never zero
  4. Recompute from scratch: derived entities are never persisted

SEE ALSO:
  - normalize.go: raw row cleaning and date parsing
  - interval.go:  per-equipment day gaps
  - tally.go:     per-year distinct sample counts
  - recommend.go: cadence derivation and z-scores
  - projection.go: future date generation
*/
package analysis

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// RawRow is one row of an uploaded sampling export, before normalization.
// DateSampled is kept as the raw string; parsing (and dropping rows that
// fail to parse) is the normalizer's job.
type RawRow struct {
	UnitID      string
	AssetID     string
	AccountName string
	BottleID    string
	DateSampled string
	AssetClass  string
}

// Sample is a normalized sampling record. SampledAt is date-only UTC and
// always valid; Year is derived from it. Immutable once created.
type Sample struct {
	UnitID      string
	AssetID     string
	AccountName string
	BottleID    string
	SampledAt   time.Time
	AssetClass  string
	Year        int
}

// EquipmentKey identifies one physical asset tracked across time.
type EquipmentKey struct {
	UnitID  string
	AssetID string
}

// Key returns the equipment identity of a sample.
func (s Sample) Key() EquipmentKey {
	return EquipmentKey{UnitID: s.UnitID, AssetID: s.AssetID}
}

func (k EquipmentKey) Less(other EquipmentKey) bool {
	if k.UnitID != other.UnitID {
		return k.UnitID < other.UnitID
	}
	return k.AssetID < other.AssetID
}

func (k EquipmentKey) String() string {
	return k.UnitID + "/" + k.AssetID
}

// =============================================================================
// FREQUENCY UNITS
// =============================================================================

// FrequencyUnit is the display unit for a recommended cadence.
type FrequencyUnit string

const (
	UnitWeeks  FrequencyUnit = "weeks"
	UnitMonths FrequencyUnit = "months"
)

// divisor returns the day count that converts interval days into the unit.
// Months use a fixed 30-day convention, not calendar months.
func (u FrequencyUnit) divisor() decimal.Decimal {
	if u == UnitWeeks {
		return decimal.NewFromInt(7)
	}
	return decimal.NewFromInt(30)
}

// Valid reports whether the unit is one of the supported values.
func (u FrequencyUnit) Valid() bool {
	return u == UnitWeeks || u == UnitMonths
}

// =============================================================================
// DERIVED TYPES
// =============================================================================

// Cadence is a derived re-sampling frequency for one equipment.
// IntervalDays is the central tendency of the equipment's sample intervals;
// Frequency is the same value expressed in Unit, rounded to one decimal.
type Cadence struct {
	IntervalDays decimal.Decimal
	Frequency    decimal.Decimal
	Unit         FrequencyUnit
}

// Recommendation is the per-equipment output of the frequency recommender.
// Cadence is nil when the equipment has no usable interval (0 or 1 sample):
// the recommendation is explicitly undefined, never coerced to zero.
type Recommendation struct {
	Key         EquipmentKey
	AssetClass  string
	AccountName string
	SampleCount int
	Cadence     *Cadence

	// MeanIntervalDays feeds the per-asset-class z-score; ZScore is nil when
	// the class has too few equipments (or zero spread) to standardize.
	MeanIntervalDays *decimal.Decimal
	ZScore           *float64
}

// TallyRow is the per-equipment yearly sample tally. Counts has an entry for
// every year of the analysis window, zero-filled for years with no samples.
type TallyRow struct {
	Key         EquipmentKey
	AssetClass  string
	AccountName string
	Counts      map[int]int
}

// ReportRow joins a tally row with its recommendation (left join: every
// tallied equipment appears, Cadence nil when undefined).
type ReportRow struct {
	Key              EquipmentKey
	AssetClass       string
	AccountName      string
	Counts           map[int]int
	Cadence          *Cadence
	MeanIntervalDays *decimal.Decimal
	ZScore           *float64
}

// ProjectionEntry is one suggested future sample date for one equipment.
// The projector emits a flat sequence of these, one row per date.
type ProjectionEntry struct {
	Key         EquipmentKey
	AssetClass  string
	AccountName string
	Date        time.Time
}
