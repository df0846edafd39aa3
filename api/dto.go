/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's domain model from the external API contract:
  the HTTP layer validates raw input here and only hands construction-
  validated values to the engine.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Shift payloads are validated by toShift (delegating to
  compliance.NewShift); malformed shifts become 400s before the engine
  ever sees them.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON, reused as the config wire shape
*/
package api

import (
	"time"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ShiftDTO is the wire form of a shift.
type ShiftDTO struct {
	ID           string  `json:"id,omitempty"`
	UserID       string  `json:"user_id"`
	StartTime    string  `json:"start_time"` // RFC3339
	EndTime      string  `json:"end_time"`   // RFC3339
	BreakMinutes int     `json:"break_minutes,omitempty"`
	HourlyRate   float64 `json:"hourly_rate,omitempty"`
}

// ValidateShiftRequest asks whether a candidate shift is compliant
// against the employee's existing schedule.
type ValidateShiftRequest struct {
	Shift          ShiftDTO   `json:"shift"`
	ExistingShifts []ShiftDTO `json:"existing_shifts,omitempty"`
	PeriodStart    string     `json:"period_start,omitempty"` // YYYY-MM-DD
	PeriodEnd      string     `json:"period_end,omitempty"`
	Config         *string    `json:"config,omitempty"` // raw ConfigJSON override
}

// ViolationDTO is the wire form of a violation, shared by both shapes.
type ViolationDTO struct {
	Type             string   `json:"type"`
	Scope            string   `json:"scope"`
	Limit            float64  `json:"limit"`
	Actual           float64  `json:"actual"`
	AffectedShiftIDs []string `json:"affected_shift_ids,omitempty"`
	PeriodStart      string   `json:"period_start,omitempty"`
	PeriodEnd        string   `json:"period_end,omitempty"`
	Indicator        any      `json:"indicator,omitempty"` // compliance.Indicator
}

// ValidateShiftResponse carries the findings plus a summary badge.
// Violations are data: this response is always a 200.
type ValidateShiftResponse struct {
	Compliant  bool           `json:"compliant"`
	Violations []ViolationDTO `json:"violations"`
	Summary    any            `json:"summary"` // compliance.Indicator
}

// CostRequest computes the cost of one or many shifts.
type CostRequest struct {
	Shifts []ShiftDTO `json:"shifts"`
	Config *string    `json:"config,omitempty"`
}

// VarianceRequest compares actual spend against budget.
type VarianceRequest struct {
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toShift(d ShiftDTO) (compliance.ShiftData, error) {
	start, err := time.Parse(time.RFC3339, d.StartTime)
	if err != nil {
		return compliance.ShiftData{}, &compliance.InvalidShiftError{Field: "startTime", Reason: "not RFC3339", Shift: d.ID}
	}
	end, err := time.Parse(time.RFC3339, d.EndTime)
	if err != nil {
		return compliance.ShiftData{}, &compliance.InvalidShiftError{Field: "endTime", Reason: "not RFC3339", Shift: d.ID}
	}
	return compliance.NewShift(d.ID, d.UserID, start, end, d.BreakMinutes, d.HourlyRate)
}

func toShifts(dtos []ShiftDTO) ([]compliance.ShiftData, error) {
	shifts := make([]compliance.ShiftData, 0, len(dtos))
	for _, d := range dtos {
		s, err := toShift(d)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, nil
}

func toViolationDTO(v compliance.Violation, indicator any) ViolationDTO {
	dto := ViolationDTO{
		Type:      string(v.ViolationType()),
		Scope:     string(v.ViolationScope()),
		Limit:     v.Limit(),
		Actual:    v.Actual(),
		Indicator: indicator,
	}
	switch c := v.(type) {
	case compliance.RestPeriodViolation:
		dto.AffectedShiftIDs = c.AffectedShiftIDs
		if c.Window != nil {
			dto.PeriodStart = c.Window.Start.Format("2006-01-02")
			dto.PeriodEnd = c.Window.End.Format("2006-01-02")
		}
	case compliance.WorkingHoursViolation:
		dto.PeriodStart = c.AffectedPeriod.Start.UTC().Format(time.RFC3339)
		dto.PeriodEnd = c.AffectedPeriod.End.UTC().Format(time.RFC3339)
	}
	return dto
}
