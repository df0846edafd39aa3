/*
hours.go - Working-hour caps and overtime ceilings

PURPOSE:
  Checks three families of working-hour rules:

  DAILY:    (a) the candidate shift alone must not exceed MaxDailyHours;
            (b) the sum of the employee's shifts inside the calendar day
            containing the candidate's start must not exceed it either.
            Both checks are evaluated and may both fire.

  WEEKLY:   The sum of hours in the 7-day window starting at the
            candidate's start date (NOT calendar-aligned) must not exceed
            MaxWeeklyHours.

  OVERTIME: Three independent horizons from a reference date: weekly
            [ref, ref+7d), 4-week [ref, ref+28d), yearly [ref-1y, ref].
            Per-shift overtime is max(0, shiftHours - MaxDailyHours),
            summed per horizon and compared against the matching ceiling.

  Overtime is measured against the DAILY cap on every horizon, not
  against a weekly baseline. That is the contract downstream payroll
  reconciliation depends on; do not change it without confirming intent.

SEE ALSO:
  - rest.go: Rest-period validation
  - cost.go: The same daily-cap split drives the overtime premium
*/
package compliance

import "time"

// WorkingHoursValidator checks daily/weekly hour caps and the three
// overtime ceilings. Stateless apart from the config.
type WorkingHoursValidator struct {
	config ComplianceConfig
}

func NewWorkingHoursValidator(config ComplianceConfig) *WorkingHoursValidator {
	return &WorkingHoursValidator{config: config}
}

// =============================================================================
// DAILY HOURS
// =============================================================================

// ValidateDailyHours checks the candidate shift alone and the calendar-day
// total. existingShifts must exclude the shift under evaluation.
func (v *WorkingHoursValidator) ValidateDailyHours(newShift ShiftData, existingShifts []ShiftData) []WorkingHoursViolation {
	var violations []WorkingHoursViolation

	shiftHours := newShift.WorkedHours()
	if shiftHours > v.config.MaxDailyHours {
		violations = append(violations, WorkingHoursViolation{
			Scope:          ScopeDaily,
			LimitHours:     v.config.MaxDailyHours,
			ActualHours:    roundHours(shiftHours),
			AffectedPeriod: Period{Start: newShift.StartTime, End: newShift.EndTime},
		})
	}

	day := newShift.Day()
	dayEnd := day.AddDate(0, 0, 1)
	total := shiftHours
	for _, s := range existingShifts {
		if s.UserID == newShift.UserID && s.Day().Equal(day) {
			total += s.WorkedHours()
		}
	}
	// Evaluated independently of the single-shift check above; a lone
	// oversized shift trips both.
	if total > v.config.MaxDailyHours {
		violations = append(violations, WorkingHoursViolation{
			Scope:          ScopeDaily,
			LimitHours:     v.config.MaxDailyHours,
			ActualHours:    roundHours(total),
			AffectedPeriod: Period{Start: day, End: dayEnd},
		})
	}

	return violations
}

// =============================================================================
// WEEKLY HOURS
// =============================================================================

// ValidateWeeklyHours sums hours over the 7-day window starting at the
// candidate's start date.
func (v *WorkingHoursValidator) ValidateWeeklyHours(newShift ShiftData, existingShifts []ShiftData) []WorkingHoursViolation {
	window := Period{Start: newShift.Day(), End: newShift.Day().AddDate(0, 0, 7)}

	total := newShift.WorkedHours()
	for _, s := range existingShifts {
		if s.UserID == newShift.UserID && window.Contains(s.StartTime) {
			total += s.WorkedHours()
		}
	}

	if total > v.config.MaxWeeklyHours {
		return []WorkingHoursViolation{{
			Scope:          ScopeWeekly,
			LimitHours:     v.config.MaxWeeklyHours,
			ActualHours:    roundHours(total),
			AffectedPeriod: window,
		}}
	}
	return nil
}

// =============================================================================
// OVERTIME CEILINGS
// =============================================================================

// ValidateOvertimeLimits accumulates per-shift overtime (hours beyond the
// daily cap) over the weekly, 4-week, and yearly horizons as of
// referenceDate. shifts is the employee's full shift set.
func (v *WorkingHoursValidator) ValidateOvertimeLimits(userID string, shifts []ShiftData, referenceDate time.Time) []WorkingHoursViolation {
	ref := startOfDay(referenceDate)

	horizons := []struct {
		scope  Scope
		window Period
		limit  float64
	}{
		{ScopeOvertimeWeekly, Period{Start: ref, End: ref.AddDate(0, 0, 7)}, v.config.MaxOvertimePerWeek},
		{ScopeOvertime4Weeks, Period{Start: ref, End: ref.AddDate(0, 0, 28)}, v.config.MaxOvertimePer4Weeks},
		{ScopeOvertimeYearly, Period{Start: ref.AddDate(-1, 0, 0), End: ref.AddDate(0, 0, 1)}, v.config.MaxOvertimePerYear},
	}

	var violations []WorkingHoursViolation
	for _, h := range horizons {
		var overtime float64
		for _, s := range shifts {
			if s.UserID != userID || !h.window.Contains(s.StartTime) {
				continue
			}
			if extra := s.WorkedHours() - v.config.MaxDailyHours; extra > 0 {
				overtime += extra
			}
		}
		if overtime > h.limit {
			violations = append(violations, WorkingHoursViolation{
				Scope:          h.scope,
				LimitHours:     h.limit,
				ActualHours:    roundHours(overtime),
				AffectedPeriod: h.window,
			})
		}
	}
	return violations
}

// =============================================================================
// COMBINED
// =============================================================================

// ValidateAll runs daily, weekly, and overtime checks in that order.
// The overtime reference date is the candidate's start date.
func (v *WorkingHoursValidator) ValidateAll(newShift ShiftData, existingShifts []ShiftData) []WorkingHoursViolation {
	violations := v.ValidateDailyHours(newShift, existingShifts)
	violations = append(violations, v.ValidateWeeklyHours(newShift, existingShifts)...)

	merged := make([]ShiftData, 0, len(existingShifts)+1)
	merged = append(merged, existingShifts...)
	merged = append(merged, newShift)
	violations = append(violations, v.ValidateOvertimeLimits(newShift.UserID, merged, newShift.StartTime)...)

	return violations
}
