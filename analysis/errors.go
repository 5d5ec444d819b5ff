/*
errors.go - Centralized error types for the cadence engine

PURPOSE:
  All engine error conditions in one place. None of these abort an analysis
  run: malformed rows are dropped and counted, empty selections produce empty
  results, and an underivable recommendation is a nil Cadence. The sentinels
  exist so collaborators (HTTP layer, ingestion) can classify conditions with
  errors.Is and map them to the right status.
*/
package analysis

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingDate is returned when a row has an empty sample-date field.
	ErrMissingDate = errors.New("missing sample date")

	// ErrUnparseableDate is returned when no accepted layout matches.
	ErrUnparseableDate = errors.New("unparseable sample date")

	// ErrInvalidUnit is returned for a frequency unit outside weeks/months.
	ErrInvalidUnit = errors.New("invalid frequency unit")

	// ErrDatasetNotFound is returned when a referenced dataset doesn't exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrNoAccountsSelected is returned when an analysis request names no
	// account/operation to filter by.
	ErrNoAccountsSelected = errors.New("no accounts selected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnparseableDateError reports the raw value that failed to parse.
type UnparseableDateError struct {
	Value string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable sample date: %q", e.Value)
}

func (e *UnparseableDateError) Unwrap() error { return ErrUnparseableDate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidUnit) ||
		errors.Is(err, ErrNoAccountsSelected) ||
		errors.Is(err, ErrMissingDate) ||
		errors.Is(err, ErrUnparseableDate)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDatasetNotFound)
}
