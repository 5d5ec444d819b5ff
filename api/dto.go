/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the analysis engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - analysis/types.go: The domain shapes these wrap
*/
package api

import (
	"time"

	"github.com/tribolab/sampling-cadence/analysis"
	"github.com/tribolab/sampling-cadence/store/sqlite"
)

// =============================================================================
// DATASET TYPES
// =============================================================================

// DatasetDTO represents an uploaded dataset in API responses.
type DatasetDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	UploadedAt  string `json:"uploaded_at"`
	SampleCount int    `json:"sample_count"`
	DroppedRows int    `json:"dropped_rows"`
}

func toDatasetDTO(ds sqlite.Dataset) DatasetDTO {
	return DatasetDTO{
		ID:          ds.ID,
		Name:        ds.Name,
		UploadedAt:  ds.UploadedAt.Format(time.RFC3339),
		SampleCount: ds.SampleCount,
		DroppedRows: ds.DroppedRows,
	}
}

// AccountsDTO lists the account names present in a dataset.
type AccountsDTO struct {
	Accounts []string `json:"accounts"`
}

// =============================================================================
// ANALYSIS TYPES
// =============================================================================

// AnalyzeRequest selects what to analyze. Accounts must name at least one
// account present in the dataset. Unit and RunDate are optional: unit
// defaults to the server policy, run_date (YYYY-MM-DD) to today.
type AnalyzeRequest struct {
	Accounts []string `json:"accounts"`
	Unit     string   `json:"unit,omitempty"`
	RunDate  string   `json:"run_date,omitempty"`
}

// YearCountDTO is one (year, distinct samples) cell of a report row.
type YearCountDTO struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// ReportRowDTO is one equipment's tally and recommendation. The cadence
// fields are null when no recommendation could be derived.
type ReportRowDTO struct {
	UnitID       string         `json:"unit_id"`
	AssetID      string         `json:"asset_id"`
	AssetClass   string         `json:"asset_class"`
	AccountName  string         `json:"account_name"`
	YearCounts   []YearCountDTO `json:"year_counts"`
	IntervalDays *float64       `json:"interval_days,omitempty"`
	Frequency    *float64       `json:"frequency,omitempty"`
	Unit         string         `json:"unit,omitempty"`
	ZScore       *float64       `json:"z_score,omitempty"`
}

// ProjectionEntryDTO is one suggested future sample date.
type ProjectionEntryDTO struct {
	UnitID      string `json:"unit_id"`
	AssetID     string `json:"asset_id"`
	AssetClass  string `json:"asset_class"`
	AccountName string `json:"account_name"`
	Date        string `json:"date"`
}

// AnalysisResponse is the full output of one analysis run.
type AnalysisResponse struct {
	DatasetID  string               `json:"dataset_id"`
	RunDate    string               `json:"run_date"`
	WindowFrom int                  `json:"window_from"`
	WindowTo   int                  `json:"window_to"`
	Rows       []ReportRowDTO       `json:"rows"`
	Projection []ProjectionEntryDTO `json:"projection"`
}

func toAnalysisResponse(datasetID string, result analysis.Result) AnalysisResponse {
	years := result.Window.Years()

	rows := make([]ReportRowDTO, 0, len(result.Rows))
	for _, row := range result.Rows {
		dto := ReportRowDTO{
			UnitID:      row.Key.UnitID,
			AssetID:     row.Key.AssetID,
			AssetClass:  row.AssetClass,
			AccountName: row.AccountName,
			ZScore:      row.ZScore,
		}
		for _, y := range years {
			dto.YearCounts = append(dto.YearCounts, YearCountDTO{Year: y, Count: row.Counts[y]})
		}
		if row.Cadence != nil {
			days, _ := row.Cadence.IntervalDays.Float64()
			freq, _ := row.Cadence.Frequency.Float64()
			dto.IntervalDays = &days
			dto.Frequency = &freq
			dto.Unit = string(row.Cadence.Unit)
		}
		rows = append(rows, dto)
	}

	projection := make([]ProjectionEntryDTO, 0, len(result.Projection))
	for _, e := range result.Projection {
		projection = append(projection, ProjectionEntryDTO{
			UnitID:      e.Key.UnitID,
			AssetID:     e.Key.AssetID,
			AssetClass:  e.AssetClass,
			AccountName: e.AccountName,
			Date:        e.Date.Format("2006-01-02"),
		})
	}

	return AnalysisResponse{
		DatasetID:  datasetID,
		RunDate:    result.RunDate.Format("2006-01-02"),
		WindowFrom: result.Window.FromYear,
		WindowTo:   result.Window.ToYear,
		Rows:       rows,
		Projection: projection,
	}
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
