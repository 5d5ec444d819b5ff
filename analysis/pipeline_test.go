package analysis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribolab/sampling-cadence/analysis"
)

func TestAnalyze_LeftJoinKeepsEquipmentWithoutRecommendation(t *testing.T) {
	// One equipment with a derivable cadence, one without.
	samples := append(quarterlySamples(),
		sample("U2", "A2", "B9", date(2024, time.February, 10)),
	)

	result := analysis.Analyze(samples, analysis.DefaultPolicy(), date(2025, time.June, 16), 2021)

	require.Len(t, result.Rows, 2)
	withRec := result.Rows[0]
	withoutRec := result.Rows[1]
	assert.NotNil(t, withRec.Cadence)
	assert.Nil(t, withoutRec.Cadence, "tallied equipment must appear even without a recommendation")
	assert.Equal(t, 1, withoutRec.Counts[2024])
}

func TestAnalyze_ProjectionCarriesEquipmentIdentity(t *testing.T) {
	result := analysis.Analyze(quarterlySamples(), analysis.DefaultPolicy(), date(2025, time.June, 16), 2021)

	require.NotEmpty(t, result.Projection)
	for _, e := range result.Projection {
		assert.Equal(t, "U1", e.Key.UnitID)
		assert.Equal(t, "A1", e.Key.AssetID)
		assert.Equal(t, "Engine", e.AssetClass)
		assert.Equal(t, "North Mine", e.AccountName)
	}
}

func TestLastSampled_PicksMostRecentDate(t *testing.T) {
	last := analysis.LastSampled(quarterlySamples())
	got := last[analysis.EquipmentKey{UnitID: "U1", AssetID: "A1"}]
	assert.True(t, got.Equal(date(2024, time.July, 1)), "got %s", got)
}

func TestCacheKey_OrderInsensitiveAccounts(t *testing.T) {
	run := date(2025, time.June, 16)
	a := analysis.CacheKey("ds-1", []string{"North Mine", "South Mine"}, analysis.UnitMonths, run)
	b := analysis.CacheKey("ds-1", []string{"South Mine", "North Mine"}, analysis.UnitMonths, run)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, analysis.CacheKey("ds-1", []string{"North Mine"}, analysis.UnitMonths, run))
	assert.NotEqual(t, a, analysis.CacheKey("ds-1", []string{"North Mine", "South Mine"}, analysis.UnitWeeks, run))
	assert.NotEqual(t, a, analysis.CacheKey("ds-2", []string{"North Mine", "South Mine"}, analysis.UnitMonths, run))
}

func TestProject_FallbackIntervalIncludesUnrecommendedEquipment(t *testing.T) {
	policy := analysis.DefaultPolicy()
	policy.FallbackIntervalDays = 60

	samples := []analysis.Sample{sample("U2", "A2", "B1", date(2025, time.March, 3))}
	result := analysis.Analyze(samples, policy, date(2025, time.June, 16), 2021)

	require.NotEmpty(t, result.Projection, "fallback cadence should produce a calendar")
	for _, e := range result.Projection {
		wd := e.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}
