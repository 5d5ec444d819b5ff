/*
projection.go - Future sample date generation

PURPOSE:
  Turns a recommended cadence into a forward calendar of suggested sample
  dates, one flat row per (equipment, date).

THE SCHEDULE:
  The schedule is anchored at the equipment's last known sample date and
  advances by the recommended interval, so projected dates stay on the
  equipment's own sampling rhythm. The later of the run date and the last
  sample date acts as the emission floor: nothing in the past, nothing
  before the anchor. Generation stops at the horizon (December 31 of the
  year after the run date's year).

  Example: interval 30 days, last sample Fri 2025-06-13, run Mon 2025-06-16.
  The first candidate is 2025-07-13 (a Sunday), rolled forward to Monday
  2025-07-14 - not 2025-07-16, which would drift off the sampling rhythm.

WEEKENDS:
  A candidate landing on a non-business day rolls forward to the next
  business day, and the schedule continues from the rolled date. Which days
  count as weekend comes from the policy's calendar.

TERMINATION:
  The step is the policy statistic rounded to whole days (math.Round, once,
  before the loop) and clamped to the policy minimum (at least 1 day). A
  non-positive step can therefore never stall the loop. Equipment with no
  recommendation is skipped unless the policy provides a fallback interval.
*/
package analysis

import (
	"math"
	"time"
)

// ProjectionInput carries everything the projector needs for one run.
type ProjectionInput struct {
	Recommendations []Recommendation

	// LastSampled maps each equipment to its most recent sample date.
	LastSampled map[EquipmentKey]time.Time

	// RunDate is "today" for this run, normalized to date-only.
	RunDate time.Time

	Policy Policy
}

// Project generates future sample dates for every equipment with a defined
// (or fallback) cadence. Entries are ordered by equipment key, then date,
// and each equipment's dates are monotonically non-decreasing, never on a
// weekend, and never after the horizon.
func Project(in ProjectionInput) []ProjectionEntry {
	runDate := DateOnly(in.RunDate)
	horizon := Horizon(runDate)
	calendar := in.Policy.Calendar()

	var entries []ProjectionEntry
	for _, rec := range in.Recommendations {
		step, ok := stepDays(rec, in.Policy)
		if !ok {
			continue
		}

		anchor := runDate
		if last := in.LastSampled[rec.Key]; !last.IsZero() {
			anchor = DateOnly(last)
		}
		floor := maxDate(runDate, anchor)

		next := anchor
		for {
			next = calendar.NextBusinessDay(next.AddDate(0, 0, step))
			if next.After(horizon) {
				break
			}
			if !next.After(floor) {
				continue
			}
			entries = append(entries, ProjectionEntry{
				Key:         rec.Key,
				AssetClass:  rec.AssetClass,
				AccountName: rec.AccountName,
				Date:        next,
			})
		}
	}
	return entries
}

// stepDays resolves the projection step for one equipment: the recommended
// interval rounded to whole days, or the policy fallback when no
// recommendation exists, always clamped to the policy minimum.
func stepDays(rec Recommendation, policy Policy) (int, bool) {
	var step int
	switch {
	case rec.Cadence != nil:
		days, _ := rec.Cadence.IntervalDays.Float64()
		step = int(math.Round(days))
	case policy.FallbackIntervalDays > 0:
		step = policy.FallbackIntervalDays
	default:
		return 0, false
	}
	if step < policy.minStep() {
		step = policy.minStep()
	}
	return step, true
}
