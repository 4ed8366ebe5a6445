/*
errors.go - Centralized error types

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Structural errors - abort a run before any computation
     (no workbook, missing table, missing identifier column)
  2. Configuration errors - invalid engine configuration
  3. Store errors - run history lookups

  Per-cell conditions (unresolved joins, undefined rates, zero divisors)
  are NOT errors. They become undefined quantities plus warnings, see
  manning/warnings.go.

USAGE:
  if errors.Is(err, generic.ErrMissingColumn) {
      var mc *generic.MissingColumnError
      errors.As(err, &mc)
      ...
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoWorkbook is returned when no spreadsheet was supplied at all.
	ErrNoWorkbook = errors.New("no workbook supplied")

	// ErrMissingTable is returned when a required input table is absent.
	ErrMissingTable = errors.New("missing input table")

	// ErrMissingColumn is returned when a table lacks a required identifier column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidConfig is returned when the engine configuration is unusable.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRunNotFound is returned when a stored run does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrUnknownTable is returned when an export names an unknown result table.
	ErrUnknownTable = errors.New("unknown result table")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingColumnError names the table and column that are missing.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %q: missing required column %q", e.Table, e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// SheetError names a required table that could not be found or read.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
	}
	return fmt.Sprintf("sheet %q not found", e.Sheet)
}

func (e *SheetError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMissingTable
}

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoWorkbook) ||
		errors.Is(err, ErrMissingTable) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnknownTable)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
