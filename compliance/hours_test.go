package compliance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/compliance"
)

func mustShiftWithBreak(t *testing.T, id, userID string, start, end time.Time, breakMin int) compliance.ShiftData {
	t.Helper()
	s, err := compliance.NewShift(id, userID, start, end, breakMin, 0)
	require.NoError(t, err)
	return s
}

// =============================================================================
// DAILY HOURS
// =============================================================================

func TestDailyHours_SingleOversizedShift_BothChecksFire(t *testing.T) {
	// GIVEN: one 11h shift, maxDailyHours=9
	// THEN: the shift-alone check and the calendar-day check both fire

	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	shift := mustShift(t, "s1", "emp-1", at(0, 8), at(0, 19))
	violations := v.ValidateDailyHours(shift, nil)

	require.Len(t, violations, 2)
	assert.Equal(t, compliance.ScopeDaily, violations[0].Scope)
	assert.Equal(t, 11.0, violations[0].ActualHours)
	assert.Equal(t, 9.0, violations[0].LimitHours)
	assert.Equal(t, 11.0, violations[1].ActualHours)
}

func TestDailyHours_SplitShiftsSumOverCap(t *testing.T) {
	// GIVEN: two 5h shifts on the same calendar day (each under the cap)
	// THEN: only the day-sum check fires

	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	morning := mustShift(t, "m", "emp-1", at(0, 6), at(0, 11))
	evening := mustShift(t, "e", "emp-1", at(0, 15), at(0, 20))

	violations := v.ValidateDailyHours(evening, []compliance.ShiftData{morning})

	require.Len(t, violations, 1)
	assert.Equal(t, 10.0, violations[0].ActualHours)
	assert.Equal(t, at(0, 0), violations[0].AffectedPeriod.Start)
}

func TestDailyHours_BreakDeducted(t *testing.T) {
	// A 9.5h span with a 60-minute break is 8.5 worked hours: compliant.
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	shift := mustShiftWithBreak(t, "s1", "emp-1", at(0, 8), at(0, 17).Add(30*time.Minute), 60)
	assert.Empty(t, v.ValidateDailyHours(shift, nil))
}

func TestDailyHours_OtherUsersExcluded(t *testing.T) {
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	mine := mustShift(t, "m", "emp-1", at(0, 6), at(0, 11))
	theirs := mustShift(t, "t", "emp-2", at(0, 12), at(0, 20))

	assert.Empty(t, v.ValidateDailyHours(mine, []compliance.ShiftData{theirs}))
}

// =============================================================================
// WEEKLY HOURS
// =============================================================================

func TestWeeklyHours_WindowStartsAtShiftDay(t *testing.T) {
	// GIVEN: 8h shifts on days 0-4 plus a 9h candidate on day 0 (49h total
	// in [day0, day7)), maxWeeklyHours=40
	// THEN: one weekly violation over the rolling window

	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	var existing []compliance.ShiftData
	for day := 1; day < 5; day++ {
		existing = append(existing, mustShift(t, "s", "emp-1", at(day, 9), at(day, 17)))
	}
	candidate := mustShift(t, "new", "emp-1", at(0, 8), at(0, 17))

	violations := v.ValidateWeeklyHours(candidate, existing)

	require.Len(t, violations, 1)
	assert.Equal(t, compliance.ScopeWeekly, violations[0].Scope)
	assert.Equal(t, 41.0, violations[0].ActualHours)
	assert.Equal(t, 40.0, violations[0].LimitHours)
	assert.Equal(t, at(0, 0), violations[0].AffectedPeriod.Start)
	assert.Equal(t, at(7, 0), violations[0].AffectedPeriod.End)
}

func TestWeeklyHours_ShiftsOutsideWindowIgnored(t *testing.T) {
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	outside := mustShift(t, "old", "emp-1", at(8, 9), at(8, 17))
	candidate := mustShift(t, "new", "emp-1", at(0, 9), at(0, 17))

	assert.Empty(t, v.ValidateWeeklyHours(candidate, []compliance.ShiftData{outside}))
}

// =============================================================================
// OVERTIME CEILINGS
// =============================================================================

func TestOvertime_MeasuredAgainstDailyCap(t *testing.T) {
	// Per-shift overtime is hours beyond the DAILY cap, accumulated over
	// the horizon. Six 11h shifts = 12h overtime in a week, ceiling 10.
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for day := 0; day < 6; day++ {
		shifts = append(shifts, mustShift(t, "s", "emp-1", at(day, 8), at(day, 19)))
	}

	violations := v.ValidateOvertimeLimits("emp-1", shifts, at(0, 0))

	require.Len(t, violations, 1)
	assert.Equal(t, compliance.ScopeOvertimeWeekly, violations[0].Scope)
	assert.Equal(t, 12.0, violations[0].ActualHours)
	assert.Equal(t, 10.0, violations[0].LimitHours)
}

func TestOvertime_FourWeekHorizon(t *testing.T) {
	// Two 13h shifts (4h overtime each) per week stay under the 10h weekly
	// ceiling, but 8 of them inside 28 days sum to 32h against the 25h
	// 4-week ceiling.
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for week := 0; week < 4; week++ {
		shifts = append(shifts, mustShift(t, "a", "emp-1", at(week*7, 6), at(week*7, 19)))
		shifts = append(shifts, mustShift(t, "b", "emp-1", at(week*7+3, 6), at(week*7+3, 19)))
	}

	violations := v.ValidateOvertimeLimits("emp-1", shifts, at(0, 0))

	require.Len(t, violations, 1)
	assert.Equal(t, compliance.ScopeOvertime4Weeks, violations[0].Scope)
	assert.Equal(t, 32.0, violations[0].ActualHours) // 8 shifts x 4h
	assert.Equal(t, 25.0, violations[0].LimitHours)
}

func TestOvertime_YearlyHorizonLooksBack(t *testing.T) {
	// The yearly horizon is [ref-1y, ref]: overtime worked months ago
	// still counts against the annual ceiling.
	cfg := compliance.NorwayConfig()
	cfg.MaxOvertimePerYear = 20
	v := compliance.NewWorkingHoursValidator(cfg)

	var shifts []compliance.ShiftData
	for day := 0; day < 6; day++ {
		// 13h shifts ~6 months before the reference date
		shifts = append(shifts, mustShift(t, "s", "emp-1", at(day-180, 6), at(day-180, 19)))
	}

	violations := v.ValidateOvertimeLimits("emp-1", shifts, at(0, 0))

	require.Len(t, violations, 1)
	assert.Equal(t, compliance.ScopeOvertimeYearly, violations[0].Scope)
	assert.Equal(t, 24.0, violations[0].ActualHours)
}

func TestOvertime_NoOvertimeUnderDailyCap(t *testing.T) {
	// 8h shifts never accumulate overtime no matter how many there are.
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for day := 0; day < 30; day++ {
		shifts = append(shifts, mustShift(t, "s", "emp-1", at(day, 9), at(day, 17)))
	}

	assert.Empty(t, v.ValidateOvertimeLimits("emp-1", shifts, at(0, 0)))
}

// =============================================================================
// COMBINED + PROPERTIES
// =============================================================================

func TestWorkingHours_ValidateAll_Order(t *testing.T) {
	// Daily violations come first, then weekly, then overtime.
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	var existing []compliance.ShiftData
	for day := 1; day < 6; day++ {
		existing = append(existing, mustShift(t, "s", "emp-1", at(day, 6), at(day, 19)))
	}
	candidate := mustShift(t, "new", "emp-1", at(0, 6), at(0, 19))

	violations := v.ValidateAll(candidate, existing)

	require.GreaterOrEqual(t, len(violations), 3)
	assert.Equal(t, compliance.ScopeDaily, violations[0].Scope)
	assert.Equal(t, compliance.ScopeOvertimeWeekly, violations[len(violations)-1].Scope)
}

func TestWorkingHours_Idempotent(t *testing.T) {
	v := compliance.NewWorkingHoursValidator(compliance.NorwayConfig())

	var existing []compliance.ShiftData
	for day := 1; day < 6; day++ {
		existing = append(existing, mustShift(t, "s", "emp-1", at(day, 6), at(day, 19)))
	}
	candidate := mustShift(t, "new", "emp-1", at(0, 6), at(0, 19))

	assert.Equal(t, v.ValidateAll(candidate, existing), v.ValidateAll(candidate, existing))
}
