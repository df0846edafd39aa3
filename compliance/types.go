/*
Package compliance implements the labor compliance and cost engine.

PURPOSE:
  This package contains the pure, deterministic core that judges whether
  a set of work shifts satisfies statutory rest-period, working-hour, and
  overtime rules, and computes the resulting labor cost including the
  statutory overtime premium.

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftData: A scheduled work interval (construction-validated)
  - ComplianceConfig: Immutable statutory constants for one jurisdiction
  - Violation: A typed finding returned as data, never as an error
  - Period: A half-open evaluation window

DESIGN PRINCIPLES:
  1. Purity: every validator is a pure function of its inputs. No hidden
     state, no I/O, no clock reads. Same input, same output, always.
  2. Findings are data: a violation is a report, not a control-flow
     signal. An empty list means "compliant".
  3. Precision: labor cost uses decimal.Decimal to avoid floating-point
     drift in money (see cost.go).
  4. The engine never retains references across calls. Callers may invoke
     it concurrently for independent employees with no coordination.

USAGE:
  shift, err := compliance.NewShift("", "emp-1", start, end, 30, 175)
  if err != nil { ... }
  v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())
  violations := v.ValidateAll(shift, history, periodStart, periodEnd)

SEE ALSO:
  - rest.go:  Daily/weekly rest-period validation
  - hours.go: Daily/weekly hour caps and overtime ceilings
  - cost.go:  Labor cost and overtime premium calculation
  - visual.go: Presentation mapping of violations to indicators
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SHIFT DATA - A scheduled work interval
// =============================================================================

// ShiftData is a single scheduled work interval for one employee.
// Invariants (enforced by NewShift): EndTime > StartTime,
// BreakMinutes >= 0, HourlyRate >= 0.
type ShiftData struct {
	ID           string // empty for not-yet-persisted shifts
	UserID       string
	StartTime    time.Time
	EndTime      time.Time
	BreakMinutes int             // unpaid, subtracted from worked duration
	HourlyRate   decimal.Decimal // zero when unknown; cost fields come out zero

	// CreatedAt is when the shift was published to the roster. Optional;
	// zero means unknown and the publish-deadline check skips the shift.
	CreatedAt time.Time
}

// PublishedLate reports whether the shift was published closer to its
// start than the statutory deadline allows. Unknown publish time: false.
func (s ShiftData) PublishedLate(deadlineDays int) bool {
	if s.CreatedAt.IsZero() {
		return false
	}
	return s.StartTime.Sub(s.CreatedAt) < time.Duration(deadlineDays)*24*time.Hour
}

// NewShift constructs a validated shift. This is the boundary where
// malformed input fails fast; validators assume shifts are well-formed.
func NewShift(id, userID string, start, end time.Time, breakMinutes int, hourlyRate float64) (ShiftData, error) {
	if !end.After(start) {
		return ShiftData{}, &InvalidShiftError{Field: "endTime", Reason: "endTime must be after startTime", Shift: id}
	}
	if breakMinutes < 0 {
		return ShiftData{}, &InvalidShiftError{Field: "breakMinutes", Reason: "breakMinutes must not be negative", Shift: id}
	}
	if hourlyRate < 0 {
		return ShiftData{}, &InvalidShiftError{Field: "hourlyRate", Reason: "hourlyRate must not be negative", Shift: id}
	}
	return ShiftData{
		ID:           id,
		UserID:       userID,
		StartTime:    start.UTC(),
		EndTime:      end.UTC(),
		BreakMinutes: breakMinutes,
		HourlyRate:   decimal.NewFromFloat(hourlyRate),
	}, nil
}

// WorkedHours returns scheduled hours minus the unpaid break.
// A break longer than the interval clamps to zero rather than going negative.
func (s ShiftData) WorkedHours() float64 {
	h := s.EndTime.Sub(s.StartTime).Hours() - float64(s.BreakMinutes)/60
	if h < 0 {
		return 0
	}
	return h
}

// Day returns the calendar day [00:00, 24:00) containing the shift's start.
func (s ShiftData) Day() time.Time {
	y, m, d := s.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two shifts share any time.
func (s ShiftData) Overlaps(o ShiftData) bool {
	return s.StartTime.Before(o.EndTime) && o.StartTime.Before(s.EndTime)
}

// =============================================================================
// PERIOD - Evaluation window
// =============================================================================

// Period is an evaluation window. Start is inclusive; End is exclusive
// for window arithmetic (rolling windows slide in whole days).
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + ")"
}

// =============================================================================
// COMPLIANCE CONFIG - Statutory constants, one value per jurisdiction
// =============================================================================

// ComplianceConfig is the immutable set of statutory parameters in force
// for an evaluation. All hour values are decimal hours.
type ComplianceConfig struct {
	MaxDailyHours        float64 // cap on hours in one calendar day
	MaxWeeklyHours       float64 // cap on hours in a rolling 7-day window
	MinDailyRest         float64 // required continuous rest between shifts
	MinWeeklyRest        float64 // required longest continuous rest per rolling week
	PublishDeadlineDays  int     // roster must be published this many days ahead
	MaxOvertimePerWeek   float64
	MaxOvertimePer4Weeks float64
	MaxOvertimePerYear   float64
	OvertimeMultiplier   float64 // statutory premium, minimum 1.4
}

// NorwayConfig returns the Arbeidsmiljøloven defaults the engine ships with.
func NorwayConfig() ComplianceConfig {
	return ComplianceConfig{
		MaxDailyHours:        9,
		MaxWeeklyHours:       40,
		MinDailyRest:         11,
		MinWeeklyRest:        35,
		PublishDeadlineDays:  14,
		MaxOvertimePerWeek:   10,
		MaxOvertimePer4Weeks: 25,
		MaxOvertimePerYear:   200,
		OvertimeMultiplier:   1.4,
	}
}

// Multiplier returns the configured overtime premium, floored at the
// statutory minimum of 1.4.
func (c ComplianceConfig) Multiplier() decimal.Decimal {
	if c.OvertimeMultiplier < 1.4 {
		return decimal.NewFromFloat(1.4)
	}
	return decimal.NewFromFloat(c.OvertimeMultiplier)
}

// =============================================================================
// VIOLATIONS - Typed findings, returned as data
// =============================================================================

// ViolationType is the discriminant shared by all violation shapes.
type ViolationType string

const (
	ViolationRestPeriod   ViolationType = "rest_period"
	ViolationWorkingHours ViolationType = "working_hours"
)

// Scope identifies which statutory rule a violation breaches.
type Scope string

const (
	ScopeDaily          Scope = "daily"
	ScopeWeekly         Scope = "weekly"
	ScopeOvertimeWeekly Scope = "overtime_weekly"
	ScopeOvertime4Weeks Scope = "overtime_4weeks"
	ScopeOvertimeYearly Scope = "overtime_yearly"
)

// Violation is the common view over both concrete violation shapes.
// Actual() is always the measured value that triggered the finding;
// Limit() is always the config value in force at evaluation time.
type Violation interface {
	ViolationType() ViolationType
	ViolationScope() Scope
	Limit() float64
	Actual() float64
}

// RestPeriodViolation reports a continuous-rest shortfall.
type RestPeriodViolation struct {
	Scope             Scope    `json:"scope"` // daily or weekly
	RequiredRestHours float64  `json:"required_rest_hours"`
	ActualRestHours   float64  `json:"actual_rest_hours"`
	AffectedShiftIDs  []string `json:"affected_shift_ids"`
	Window            *Period  `json:"-"` // weekly only: the rolling window that failed
}

func (v RestPeriodViolation) ViolationType() ViolationType { return ViolationRestPeriod }
func (v RestPeriodViolation) ViolationScope() Scope        { return v.Scope }
func (v RestPeriodViolation) Limit() float64               { return v.RequiredRestHours }
func (v RestPeriodViolation) Actual() float64              { return v.ActualRestHours }

// WorkingHoursViolation reports an hour-cap or overtime-ceiling breach.
type WorkingHoursViolation struct {
	Scope          Scope   `json:"scope"`
	LimitHours     float64 `json:"limit_hours"`
	ActualHours    float64 `json:"actual_hours"`
	AffectedPeriod Period  `json:"affected_period"`
}

func (v WorkingHoursViolation) ViolationType() ViolationType { return ViolationWorkingHours }
func (v WorkingHoursViolation) ViolationScope() Scope        { return v.Scope }
func (v WorkingHoursViolation) Limit() float64               { return v.LimitHours }
func (v WorkingHoursViolation) Actual() float64              { return v.ActualHours }

// Compile-time checks that both shapes satisfy Violation.
var (
	_ Violation = RestPeriodViolation{}
	_ Violation = WorkingHoursViolation{}
)
