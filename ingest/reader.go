/*
Package ingest reads uploaded sampling exports into raw rows.

PURPOSE:
  Turns a CSV or XLSX upload into []analysis.RawRow. This is a thin I/O
  wrapper: it locates the required columns by header and extracts cell
  strings. Date parsing and row dropping are the core normalizer's job.

REQUIRED COLUMNS (header names, case/spacing-insensitive):
  Unit ID, Asset ID, Account Name, Sample Bottle ID, Date Sampled,
  Asset Class

XLSX HANDLING:
  Exports sometimes carry extra sheets (legends, pivot leftovers). The
  reader probes every sheet and uses the first one whose rows contain all
  required headers.

SEE ALSO:
  - analysis/normalize.go: what happens to the rows next
*/
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tribolab/sampling-cadence/analysis"
)

// Required column headers, in canonical spelling.
const (
	ColUnitID      = "Unit ID"
	ColAssetID     = "Asset ID"
	ColAccountName = "Account Name"
	ColBottleID    = "Sample Bottle ID"
	ColDateSampled = "Date Sampled"
	ColAssetClass  = "Asset Class"
)

var requiredColumns = []string{
	ColUnitID, ColAssetID, ColAccountName, ColBottleID, ColDateSampled, ColAssetClass,
}

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format (expected .csv or .xlsx)")

// ErrNoDataSheet is returned when no XLSX sheet carries the required headers.
var ErrNoDataSheet = errors.New("no sheet with the required sampling columns")

// MissingColumnError reports a required header absent from the input.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// Read parses an uploaded file into raw rows. The filename decides the
// format: .csv or .xlsx (anything else is ErrUnsupportedFormat).
func Read(r io.Reader, filename string) ([]analysis.RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadCSV parses comma-separated sampling data with a header row.
func ReadCSV(r io.Reader) ([]analysis.RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []analysis.RawRow
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("unable to read CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, toRawRow(record, cols))
	}
	return rows, nil
}

// ReadXLSX parses the first spreadsheet sheet that carries the required
// headers. The header row does not have to be the first row of the sheet.
func ReadXLSX(r io.Reader) ([]analysis.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for i, row := range sheetRows {
			cols, err := mapColumns(row)
			if err != nil {
				continue // not the header row
			}
			var rows []analysis.RawRow
			for _, record := range sheetRows[i+1:] {
				if isBlank(record) {
					continue
				}
				rows = append(rows, toRawRow(record, cols))
			}
			return rows, nil
		}
	}
	return nil, ErrNoDataSheet
}

// =============================================================================
// HEADER MAPPING
// =============================================================================

type columnIndex map[string]int

// mapColumns locates every required column in a header row. Matching is
// insensitive to case, spaces, underscores and dashes, so "unit_id" and
// "Unit ID" both work.
func mapColumns(header []string) (columnIndex, error) {
	byNormalized := make(map[string]int, len(header))
	for idx, h := range header {
		key := normalizeHeader(h)
		if _, exists := byNormalized[key]; !exists {
			byNormalized[key] = idx
		}
	}

	cols := make(columnIndex, len(requiredColumns))
	for _, name := range requiredColumns {
		idx, ok := byNormalized[normalizeHeader(name)]
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		cols[name] = idx
	}
	return cols, nil
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func toRawRow(record []string, cols columnIndex) analysis.RawRow {
	return analysis.RawRow{
		UnitID:      cell(record, cols[ColUnitID]),
		AssetID:     cell(record, cols[ColAssetID]),
		AccountName: cell(record, cols[ColAccountName]),
		BottleID:    cell(record, cols[ColBottleID]),
		DateSampled: cell(record, cols[ColDateSampled]),
		AssetClass:  cell(record, cols[ColAssetClass]),
	}
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
