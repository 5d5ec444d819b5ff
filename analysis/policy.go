/*
policy.go - Tunable knobs of the cadence engine

PURPOSE:
  Collects every behavioral choice of the pipeline into one explicit value,
  so a run is fully determined by (samples, policy, run date). Handlers build
  a Policy once from configuration and pass it through unchanged.

THE STATISTIC:
  The source history of this tool tried median, mean and per-year inverse
  counts. The shipped behavior is MEDIAN, applied uniformly; mean remains
  selectable for comparison runs but is never the default.
*/
package analysis

import "time"

// Statistic selects the central tendency used for the recommendation.
type Statistic string

const (
	StatMedian Statistic = "median"
	StatMean   Statistic = "mean"
)

// Policy holds the engine's configuration.
type Policy struct {
	// Statistic is the central tendency of the interval list. Median.
	Statistic Statistic

	// Unit is the display unit for recommended frequencies.
	Unit FrequencyUnit

	// Weekend lists the non-business weekdays for projection roll-forward.
	Weekend []time.Weekday

	// FallbackIntervalDays, when positive, projects equipment that has no
	// derivable recommendation at this fixed cadence. Zero (the default)
	// excludes such equipment from projection entirely.
	FallbackIntervalDays int

	// MinIntervalDays clamps the projection step. A non-positive computed
	// step would never advance past the horizon; the clamp guarantees
	// termination. Values below 1 are treated as 1.
	MinIntervalDays int
}

// DefaultPolicy returns the shipped configuration: median statistic, monthly
// frequencies, Saturday/Sunday weekend, no fallback cadence.
func DefaultPolicy() Policy {
	return Policy{
		Statistic:       StatMedian,
		Unit:            UnitMonths,
		Weekend:         []time.Weekday{time.Saturday, time.Sunday},
		MinIntervalDays: 1,
	}
}

// WithUnit returns a copy of the policy using the given frequency unit.
func (p Policy) WithUnit(unit FrequencyUnit) Policy {
	p.Unit = unit
	return p
}

// Calendar builds the business calendar implied by the weekend set.
func (p Policy) Calendar() Calendar {
	if len(p.Weekend) == 0 {
		return DefaultCalendar()
	}
	return NewCalendar(p.Weekend...)
}

func (p Policy) minStep() int {
	if p.MinIntervalDays < 1 {
		return 1
	}
	return p.MinIntervalDays
}
