/*
rest.go - Rest-period validation (daily and weekly continuous rest)

PURPOSE:
  Checks the two statutory rest requirements:

  DAILY:  At least MinDailyRest continuous hours between consecutive
          shifts. Both directions are checked independently; a shift can
          violate rest both before and after it.

  WEEKLY: In every rolling 7-day window, the employee must have at least
          one continuous rest block of MinWeeklyRest hours. The window
          slides one day at a time; no calendar-week alignment.

ALGORITHM - DAILY:
  Merge existing shifts with the candidate, sort by start time, locate
  the candidate, and measure the gap to its immediate predecessor and
  successor. The first/last shift in the sequence skips the missing-
  neighbor check.

ALGORITHM - WEEKLY:
  For each window position containing at least one shift, compute the
  LONGEST continuous rest inside the window: the gap before the first
  shift, the gaps between consecutive shifts, and the gap after the last
  shift. Only if the maximum falls short is a violation emitted. This
  finds a qualifying rest block anywhere in the rolling week if one
  exists.

FAILURE SEMANTICS:
  Violations are data, not errors. Malformed shifts are precluded by
  NewShift; the validator assumes well-formed input.

SEE ALSO:
  - hours.go: Working-hour caps and overtime ceilings
  - types.go: ShiftData and violation shapes
*/
package compliance

import (
	"sort"
	"time"
)

// RestPeriodValidator checks daily and weekly continuous-rest rules.
// It is stateless apart from the config and safe for concurrent use.
type RestPeriodValidator struct {
	config ComplianceConfig
}

func NewRestPeriodValidator(config ComplianceConfig) *RestPeriodValidator {
	return &RestPeriodValidator{config: config}
}

// =============================================================================
// DAILY REST
// =============================================================================

// ValidateDailyRest measures the rest gap between the new shift and its
// immediate neighbors in the employee's schedule. existingShifts must
// exclude the shift under evaluation.
func (v *RestPeriodValidator) ValidateDailyRest(newShift ShiftData, existingShifts []ShiftData) []RestPeriodViolation {
	all := make([]ShiftData, 0, len(existingShifts)+1)
	all = append(all, existingShifts...)
	all = append(all, newShift)
	sortShifts(all)

	idx := -1
	for i, s := range all {
		if s.ID == newShift.ID && s.StartTime.Equal(newShift.StartTime) && s.UserID == newShift.UserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var violations []RestPeriodViolation

	if idx > 0 {
		prev := all[idx-1]
		rest := newShift.StartTime.Sub(prev.EndTime).Hours()
		if rest < v.config.MinDailyRest {
			violations = append(violations, RestPeriodViolation{
				Scope:             ScopeDaily,
				RequiredRestHours: v.config.MinDailyRest,
				ActualRestHours:   roundHours(rest),
				AffectedShiftIDs:  shiftIDs(prev, newShift),
			})
		}
	}

	if idx < len(all)-1 {
		next := all[idx+1]
		rest := next.StartTime.Sub(newShift.EndTime).Hours()
		if rest < v.config.MinDailyRest {
			violations = append(violations, RestPeriodViolation{
				Scope:             ScopeDaily,
				RequiredRestHours: v.config.MinDailyRest,
				ActualRestHours:   roundHours(rest),
				AffectedShiftIDs:  shiftIDs(newShift, next),
			})
		}
	}

	return violations
}

// =============================================================================
// WEEKLY REST
// =============================================================================

// ValidateWeeklyRest slides a 7-day window one day at a time across
// [periodStart, periodEnd] and requires a continuous rest block of at
// least MinWeeklyRest hours inside every window that contains work.
func (v *RestPeriodValidator) ValidateWeeklyRest(userID string, shifts []ShiftData, periodStart, periodEnd time.Time) []RestPeriodViolation {
	var own []ShiftData
	for _, s := range shifts {
		if s.UserID == userID {
			own = append(own, s)
		}
	}
	if len(own) == 0 {
		return nil
	}
	sortShifts(own)

	// periodEnd is an inclusive date: a window may end at midnight after it.
	limit := startOfDay(periodEnd).AddDate(0, 0, 1)

	var violations []RestPeriodViolation
	for day := startOfDay(periodStart); !day.AddDate(0, 0, 7).After(limit); day = day.AddDate(0, 0, 1) {
		window := Period{Start: day, End: day.AddDate(0, 0, 7)}

		inWindow := shiftsInWindow(own, window)
		if len(inWindow) == 0 {
			continue
		}

		longest := longestRest(inWindow, window)
		if longest < v.config.MinWeeklyRest {
			violations = append(violations, RestPeriodViolation{
				Scope:             ScopeWeekly,
				RequiredRestHours: v.config.MinWeeklyRest,
				ActualRestHours:   roundHours(longest),
				AffectedShiftIDs:  shiftIDs(inWindow...),
				Window:            &Period{Start: window.Start, End: window.End},
			})
		}
	}
	return violations
}

// longestRest returns the longest continuous work-free span inside the
// window: before the first shift, between consecutive shifts, and after
// the last shift. Shifts are assumed sorted by start time.
func longestRest(shifts []ShiftData, window Period) float64 {
	longest := shifts[0].StartTime.Sub(window.Start).Hours()

	prevEnd := shifts[0].EndTime
	for _, s := range shifts[1:] {
		if gap := s.StartTime.Sub(prevEnd).Hours(); gap > longest {
			longest = gap
		}
		if s.EndTime.After(prevEnd) {
			prevEnd = s.EndTime
		}
	}

	if tail := window.End.Sub(prevEnd).Hours(); tail > longest {
		longest = tail
	}
	if longest < 0 {
		return 0
	}
	return longest
}

// =============================================================================
// COMBINED
// =============================================================================

// ValidateAll runs the daily check for the new shift, then the weekly
// check over the merged schedule. Order is stable: daily first.
func (v *RestPeriodValidator) ValidateAll(newShift ShiftData, existingShifts []ShiftData, periodStart, periodEnd time.Time) []RestPeriodViolation {
	violations := v.ValidateDailyRest(newShift, existingShifts)

	merged := make([]ShiftData, 0, len(existingShifts)+1)
	merged = append(merged, existingShifts...)
	merged = append(merged, newShift)
	violations = append(violations, v.ValidateWeeklyRest(newShift.UserID, merged, periodStart, periodEnd)...)

	return violations
}

// =============================================================================
// HELPERS
// =============================================================================

func sortShifts(shifts []ShiftData) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].StartTime.Equal(shifts[j].StartTime) {
			return shifts[i].ID < shifts[j].ID
		}
		return shifts[i].StartTime.Before(shifts[j].StartTime)
	})
}

// shiftsInWindow returns the shifts overlapping the window, in order.
func shiftsInWindow(sorted []ShiftData, window Period) []ShiftData {
	var out []ShiftData
	for _, s := range sorted {
		if s.StartTime.Before(window.End) && s.EndTime.After(window.Start) {
			out = append(out, s)
		}
	}
	return out
}

func shiftIDs(shifts ...ShiftData) []string {
	ids := make([]string, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// roundHours rounds a measured duration to 2 decimals for reporting.
// Limits stay exactly as configured; only measured values are rounded.
func roundHours(h float64) float64 {
	d, _ := decimalFromFloat(h).Round(2).Float64()
	return d
}
