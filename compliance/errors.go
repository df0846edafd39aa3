/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Note the split the engine is built around:

  1. Domain findings (violations, warnings) are NEVER errors. They are
     returned as ordinary data; an empty list means compliant.
  2. Programming/input errors (malformed shift, unknown violation type
     during export) fail fast at the boundary where the malformed value
     is first used and propagate unmodified.

USAGE:
  Callers classify with errors.Is / errors.As:

    if errors.Is(err, compliance.ErrInvalidShift) {
        // 400, not 500
    }

SEE ALSO:
  - types.go:  NewShift, the construction-time validation boundary
  - report/export.go: unknown-violation-type failure during export
*/
package compliance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidShift is returned when a shift fails construction-time
	// validation (endTime <= startTime, negative break, negative rate).
	ErrInvalidShift = errors.New("invalid shift")

	// ErrInvalidPeriod is returned when an evaluation window is malformed.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrUnknownViolationType is returned during report export when a
	// violation carries a discriminant the exporter does not recognize.
	ErrUnknownViolationType = errors.New("unknown violation type")

	// ErrUnknownJurisdiction is returned by the config factory for an
	// unrecognized jurisdiction key.
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

	// ErrShiftNotFound is returned by repositories for a missing shift.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrOrgNotFound is returned by the org directory for a missing org.
	ErrOrgNotFound = errors.New("organization not found")

	// ErrReportNotFound is returned by report stores for a missing report.
	ErrReportNotFound = errors.New("report not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidShiftError describes which field of a shift was malformed.
type InvalidShiftError struct {
	Field  string
	Reason string
	Shift  string // shift ID if known, may be empty
}

func (e *InvalidShiftError) Error() string {
	if e.Shift != "" {
		return fmt.Sprintf("invalid shift %s: %s (%s)", e.Shift, e.Reason, e.Field)
	}
	return fmt.Sprintf("invalid shift: %s (%s)", e.Reason, e.Field)
}

func (e *InvalidShiftError) Unwrap() error { return ErrInvalidShift }

// UnknownViolationTypeError names the discriminant the exporter choked on.
type UnknownViolationTypeError struct {
	Type string
}

func (e *UnknownViolationTypeError) Error() string {
	return fmt.Sprintf("unknown violation type %q", e.Type)
}

func (e *UnknownViolationTypeError) Unwrap() error { return ErrUnknownViolationType }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidShift) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownJurisdiction)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrOrgNotFound) ||
		errors.Is(err, ErrReportNotFound)
}
