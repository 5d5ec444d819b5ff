/*
recommend.go - Frequency recommendation and outlier flagging

PURPOSE:
  Aggregates each equipment's interval list into a single recommended
  cadence: the policy statistic (median) of the day gaps, converted to the
  chosen unit (weeks = days/7, months = days/30) and rounded to one decimal.

UNDEFINED RECOMMENDATIONS:
  An equipment with 0 or 1 usable sample has no intervals, so no cadence can
  be derived. That is represented as Cadence == nil and propagated as-is: the
  report shows blank recommendation columns and the projector skips the
  equipment (unless a fallback interval is configured). It is never zero.

Z-SCORES:
  As an auxiliary analytic, each equipment's MEAN interval is standardized
  within its asset class using the population standard deviation. Classes
  with fewer than two measurable equipments, or zero spread, yield no score.
*/
package analysis

import "github.com/shopspring/decimal"

// Recommend derives a per-equipment cadence from the samples under the given
// policy. Output is ordered by equipment key.
func Recommend(samples []Sample, policy Policy) []Recommendation {
	groups := GroupByEquipment(samples)
	intervals := Intervals(samples)

	recs := make([]Recommendation, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		latest := group[len(group)-1]

		rec := Recommendation{
			Key:         key,
			AssetClass:  latest.AssetClass,
			AccountName: latest.AccountName,
			SampleCount: len(group),
		}

		gaps := intervals[key]
		if central, ok := centralTendency(gaps, policy.Statistic); ok {
			rec.Cadence = &Cadence{
				IntervalDays: central,
				Frequency:    Round1(central.Div(policy.Unit.divisor())),
				Unit:         policy.Unit,
			}
		}
		if mean, ok := Mean(gaps); ok {
			rec.MeanIntervalDays = &mean
		}

		recs = append(recs, rec)
	}

	attachZScores(recs)
	return recs
}

func centralTendency(gaps []int, stat Statistic) (decimal.Decimal, bool) {
	if stat == StatMean {
		return Mean(gaps)
	}
	return Median(gaps)
}

// attachZScores standardizes each equipment's mean interval within its asset
// class: z = (mean - classMean) / classPopStdDev.
func attachZScores(recs []Recommendation) {
	byClass := make(map[string][]float64)
	for _, rec := range recs {
		if rec.MeanIntervalDays == nil {
			continue
		}
		v, _ := rec.MeanIntervalDays.Float64()
		byClass[rec.AssetClass] = append(byClass[rec.AssetClass], v)
	}

	type classStats struct {
		mean, stddev float64
	}
	stats := make(map[string]classStats, len(byClass))
	for class, means := range byClass {
		if len(means) < 2 {
			continue
		}
		sum := 0.0
		for _, m := range means {
			sum += m
		}
		stats[class] = classStats{
			mean:   sum / float64(len(means)),
			stddev: PopulationStdDev(means),
		}
	}

	for i := range recs {
		if recs[i].MeanIntervalDays == nil {
			continue
		}
		cs, ok := stats[recs[i].AssetClass]
		if !ok || cs.stddev == 0 {
			continue
		}
		v, _ := recs[i].MeanIntervalDays.Float64()
		z := (v - cs.mean) / cs.stddev
		recs[i].ZScore = &z
	}
}
