/*
fixtures.go - Built-in demo dataset

PURPOSE:

	Provides a small, deterministic dataset for demos and manual testing
	without hunting for a real lab export. Loading it is non-destructive:
	it is stored like any other upload and can be deleted the same way.

WHAT IT CONTAINS:

	Two accounts (Northline Mining, Harbor Fleet) with five equipments:
	- a quarterly-sampled pump (clean 90-day cadence)
	- a monthly-sampled gearbox
	- an irregular engine (gaps from 20 to 200 days)
	- a compressor sampled twice on one day (zero interval)
	- a single-sample motor (no derivable recommendation)

USAGE VIA API:

	POST /api/datasets/demo

SEE ALSO:
  - handlers.go: LoadDemoDataset handler
*/
package api

import (
	"fmt"
	"time"

	"github.com/tribolab/sampling-cadence/analysis"
)

const demoDatasetName = "demo-oil-samples"

// demoSamples builds the demo dataset. Dates are fixed so repeated loads
// produce identical analyses.
func demoSamples() []analysis.Sample {
	var samples []analysis.Sample
	bottle := 0

	add := func(unit, asset, account, class string, dates ...string) {
		for _, d := range dates {
			bottle++
			at, _ := time.Parse("2006-01-02", d)
			samples = append(samples, analysis.Sample{
				UnitID:      unit,
				AssetID:     asset,
				AccountName: account,
				BottleID:    fmt.Sprintf("DEMO-%04d", bottle),
				SampledAt:   at,
				AssetClass:  class,
				Year:        at.Year(),
			})
		}
	}

	// Quarterly pump: steady 90-day cadence across three years.
	add("NM-100", "PUMP-01", "Northline Mining", "Pump",
		"2022-01-10", "2022-04-10", "2022-07-09", "2022-10-07",
		"2023-01-05", "2023-04-05", "2023-07-04", "2023-10-02",
		"2024-01-02", "2024-04-01")

	// Monthly gearbox.
	add("NM-100", "GBX-02", "Northline Mining", "Gearbox",
		"2023-06-01", "2023-07-01", "2023-08-01", "2023-09-01",
		"2023-10-01", "2023-11-01", "2023-12-01", "2024-01-01")

	// Irregular engine: the median should shrug off the 200-day outlier.
	add("HF-300", "ENG-07", "Harbor Fleet", "Engine",
		"2022-03-15", "2022-04-04", "2022-10-21", "2023-01-19",
		"2023-03-20", "2023-05-19")

	// Compressor with a duplicate-day pair (distinct bottles, zero gap).
	add("HF-300", "CMP-04", "Harbor Fleet", "Compressor",
		"2023-08-14", "2023-08-14", "2023-11-13")

	// Single-sample motor: tallied but never recommended or projected.
	add("HF-301", "MTR-09", "Harbor Fleet", "Motor",
		"2024-02-20")

	return samples
}
