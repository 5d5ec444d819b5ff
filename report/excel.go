/*
Package report serializes analysis results into an Excel workbook.

PURPOSE:
  Pure formatting, no analysis. Produces the downloadable report: a
  "Recommended Sampling" sheet with one row per equipment (yearly tallies +
  recommendation columns) and a "Projected Dates" sheet with one row per
  suggested future sample date.

MISSING VALUES:
  Equipment without a derivable recommendation gets blank recommendation
  cells - an explicit gap in the sheet, never a zero.
*/
package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tribolab/sampling-cadence/analysis"
)

const (
	// SheetRecommendations holds the tally + recommendation table.
	SheetRecommendations = "Recommended Sampling"

	// SheetProjection holds the flat future-date table.
	SheetProjection = "Projected Dates"
)

// Workbook renders an analysis result as an XLSX file in memory.
func Workbook(result analysis.Result) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecommendations); err != nil {
		return nil, err
	}
	if err := writeRecommendations(f, result); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetProjection); err != nil {
		return nil, err
	}
	if err := writeProjection(f, result.Projection); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func writeRecommendations(f *excelize.File, result analysis.Result) error {
	years := result.Window.Years()

	header := []any{"Unit ID", "Asset ID", "Asset Class", "Account Name"}
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}
	header = append(header,
		"Median Interval (Days)",
		recommendationHeader(result),
		"Interval Z-Score",
	)
	if err := f.SetSheetRow(SheetRecommendations, "A1", &header); err != nil {
		return err
	}

	for i, row := range result.Rows {
		cells := []any{row.Key.UnitID, row.Key.AssetID, row.AssetClass, row.AccountName}
		for _, y := range years {
			cells = append(cells, row.Counts[y])
		}
		if row.Cadence != nil {
			days, _ := row.Cadence.IntervalDays.Float64()
			freq, _ := row.Cadence.Frequency.Float64()
			cells = append(cells, days, freq)
		} else {
			cells = append(cells, nil, nil)
		}
		if row.ZScore != nil {
			cells = append(cells, *row.ZScore)
		} else {
			cells = append(cells, nil)
		}

		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRecommendations, anchor, &cells); err != nil {
			return err
		}
	}
	return nil
}

func writeProjection(f *excelize.File, entries []analysis.ProjectionEntry) error {
	header := []any{"Unit ID", "Asset ID", "Asset Class", "Account Name", "Projected Date"}
	if err := f.SetSheetRow(SheetProjection, "A1", &header); err != nil {
		return err
	}

	for i, e := range entries {
		cells := []any{
			e.Key.UnitID, e.Key.AssetID, e.AssetClass, e.AccountName,
			e.Date.Format("2006-01-02"),
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetProjection, anchor, &cells); err != nil {
			return err
		}
	}
	return nil
}

// recommendationHeader names the frequency column after the unit in use so
// the sheet reads "Recommended Frequency (Months)" or "(Weeks)".
func recommendationHeader(result analysis.Result) string {
	unit := "Months"
	for _, row := range result.Rows {
		if row.Cadence != nil {
			if row.Cadence.Unit == analysis.UnitWeeks {
				unit = "Weeks"
			}
			break
		}
	}
	return fmt.Sprintf("Recommended Frequency (%s)", unit)
}
