package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tribolab/sampling-cadence/analysis"
)

func testResult() analysis.Result {
	mean := decimal.NewFromInt(91)
	z := 0.0
	return analysis.Result{
		Window:  analysis.Window{FromYear: 2023, ToYear: 2024},
		RunDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Rows: []analysis.ReportRow{
			{
				Key:         analysis.EquipmentKey{UnitID: "U1", AssetID: "A1"},
				AssetClass:  "Pump",
				AccountName: "Acme",
				Counts:      map[int]int{2023: 2, 2024: 1},
				Cadence: &analysis.Cadence{
					IntervalDays: decimal.NewFromInt(91),
					Frequency:    decimal.NewFromFloat(3),
					Unit:         analysis.UnitMonths,
				},
				MeanIntervalDays: &mean,
				ZScore:           &z,
			},
			{
				Key:         analysis.EquipmentKey{UnitID: "U2", AssetID: "A9"},
				AssetClass:  "Gearbox",
				AccountName: "Acme",
				Counts:      map[int]int{2023: 0, 2024: 1},
			},
		},
		Projection: []analysis.ProjectionEntry{
			{
				Key:         analysis.EquipmentKey{UnitID: "U1", AssetID: "A1"},
				AssetClass:  "Pump",
				AccountName: "Acme",
				Date:        time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestWorkbook_RecommendationSheet(t *testing.T) {
	// GIVEN an analysis result with one recommended and one undefined equipment
	buf, err := Workbook(testResult())
	require.NoError(t, err)

	// WHEN the workbook is read back
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetRecommendations)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// THEN the header carries one column per window year plus the
	// recommendation columns
	assert.Equal(t, []string{
		"Unit ID", "Asset ID", "Asset Class", "Account Name",
		"2023", "2024",
		"Median Interval (Days)", "Recommended Frequency (Months)", "Interval Z-Score",
	}, rows[0])

	// AND the recommended row is fully populated
	assert.Equal(t, []string{"U1", "A1", "Pump", "Acme", "2", "1", "91", "3", "0"}, rows[1])

	// AND the undefined row keeps its tallies but leaves the
	// recommendation cells blank
	assert.Equal(t, "U2", rows[2][0])
	assert.Equal(t, "0", rows[2][4])
	assert.Equal(t, "1", rows[2][5])
	assert.LessOrEqual(t, len(rows[2]), 6+3)
	for _, cell := range rows[2][6:] {
		assert.Empty(t, cell)
	}
}

func TestWorkbook_ProjectionSheet(t *testing.T) {
	// GIVEN a result with one projected date
	buf, err := Workbook(testResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	// WHEN the projection sheet is read back
	rows, err := f.GetRows(SheetProjection)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// THEN each entry is a flat identity + date row
	assert.Equal(t, []string{"Unit ID", "Asset ID", "Asset Class", "Account Name", "Projected Date"}, rows[0])
	assert.Equal(t, []string{"U1", "A1", "Pump", "Acme", "2024-09-02"}, rows[1])
}
