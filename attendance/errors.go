/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All engine error types in one place. Collaborating packages (report,
  source, notify) wrap these with their own context.

ERROR CATEGORIES:
  1. Configuration errors - named sheet/source/zone missing: fatal to a run
  2. Date errors          - no bucket for the target date, bad date input
  3. Record errors        - per-record defects: absorbed and counted, never fatal

PROPAGATION POLICY:
  Record-level errors are logged and skipped during index building.
  Configuration and date-lookup errors abort the current report; the caller
  always receives a clear failure instead of a crash, and no email goes out
  on a fatal error.

SEE ALSO:
  - index.go: absorbs MalformedRecordError while building
  - resolver.go: returns ErrNoDataForDate
  - report/runner.go: maps these onto run outcomes
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSourceNotFound is returned when a named sheet or data source does
	// not exist. Fatal to the run.
	ErrSourceNotFound = errors.New("data source not found")

	// ErrNoDataForDate is returned when the target date has no bucket in the
	// index at all. Distinct from "everyone absent": it means no information.
	ErrNoDataForDate = errors.New("no attendance data for date")

	// ErrInvalidDateInput is returned for a custom report date that cannot
	// be parsed. The run fails rather than silently using today.
	ErrInvalidDateInput = errors.New("invalid date input")

	// ErrMalformedRecord marks a record with an unparseable date or missing
	// employee identity. Absorbed during indexing, never aborts a load.
	ErrMalformedRecord = errors.New("malformed attendance record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigError reports an unusable configuration value.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NoDataError reports which date had no indexed records.
type NoDataError struct {
	Day Day
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no attendance data for %s", e.Day.Key())
}

func (e *NoDataError) Unwrap() error { return ErrNoDataForDate }

// InvalidDateError reports an unparseable custom report date.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date input %q", e.Input)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDateInput }

// MalformedRecordError reports a single defective record.
type MalformedRecordError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("malformed record: %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed record: %s: %s", e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsFatal reports whether the error must abort the whole report run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSourceNotFound) || errors.Is(err, ErrInvalidDateInput)
}

// IsRecordLevel reports whether the error concerns one record only and may
// be absorbed.
func IsRecordLevel(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}
