package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATISTICS - Small helpers over interval day-counts
// =============================================================================

var two = decimal.NewFromInt(2)

// Median returns the median of the values. ok is false for an empty slice.
// An even-length list averages the two middle values, so medians can end
// in .5 - which is why downstream math stays in decimal.
func Median(values []int) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Zero, false
	}
	sorted := append([]int{}, values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return decimal.NewFromInt(int64(sorted[mid])), true
	}
	sum := decimal.NewFromInt(int64(sorted[mid-1] + sorted[mid]))
	return sum.Div(two), true
}

// Mean returns the arithmetic mean of the values. ok is false when empty.
func Mean(values []int) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Zero, false
	}
	sum := int64(0)
	for _, v := range values {
		sum += int64(v)
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(values)))), true
}

// PopulationStdDev returns the population standard deviation (divide by N,
// not N-1), matching how the z-score standardizes asset classes.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// Round1 rounds to one decimal place, the precision of every displayed
// frequency value.
func Round1(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}
