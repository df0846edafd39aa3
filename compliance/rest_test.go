package compliance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func mustShift(t *testing.T, id, userID string, start, end time.Time) compliance.ShiftData {
	t.Helper()
	s, err := compliance.NewShift(id, userID, start, end, 0, 0)
	require.NoError(t, err)
	return s
}

func at(day int, hour int) time.Time {
	// Monday 2025-03-03 is day 0 in all rest/hours fixtures.
	return time.Date(2025, time.March, 3+day, hour, 0, 0, 0, time.UTC)
}

// =============================================================================
// DAILY REST
// =============================================================================

func TestDailyRest_GapBeforeShift_Violation(t *testing.T) {
	// GIVEN: shift A ends 22:00, shift B starts 06:00 the next day (8h gap)
	// WHEN: validating B against [A] with minDailyRest=11
	// THEN: exactly one violation, actual=8, required=11, both shifts named

	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	a := mustShift(t, "a", "emp-1", at(0, 14), at(0, 22))
	b := mustShift(t, "b", "emp-1", at(1, 6), at(1, 14))

	violations := v.ValidateDailyRest(b, []compliance.ShiftData{a})

	require.Len(t, violations, 1)
	assert.Equal(t, compliance.ScopeDaily, violations[0].Scope)
	assert.Equal(t, 11.0, violations[0].RequiredRestHours)
	assert.Equal(t, 8.0, violations[0].ActualRestHours)
	assert.Equal(t, []string{"a", "b"}, violations[0].AffectedShiftIDs)
}

func TestDailyRest_BothDirections(t *testing.T) {
	// GIVEN: the candidate is squeezed between two shifts, 8h on each side
	// THEN: two independent violations, predecessor first

	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	before := mustShift(t, "before", "emp-1", at(0, 14), at(0, 22))
	candidate := mustShift(t, "mid", "emp-1", at(1, 6), at(1, 14))
	after := mustShift(t, "after", "emp-1", at(1, 22), at(2, 6))

	violations := v.ValidateDailyRest(candidate, []compliance.ShiftData{before, after})

	require.Len(t, violations, 2)
	assert.Equal(t, []string{"before", "mid"}, violations[0].AffectedShiftIDs)
	assert.Equal(t, []string{"mid", "after"}, violations[1].AffectedShiftIDs)
}

func TestDailyRest_FirstAndLastShiftSkipMissingNeighbor(t *testing.T) {
	// A lone shift has no neighbors; nothing to violate.
	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	only := mustShift(t, "only", "emp-1", at(0, 8), at(0, 16))
	assert.Empty(t, v.ValidateDailyRest(only, nil))
}

func TestDailyRest_SufficientGap_NoViolation(t *testing.T) {
	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	a := mustShift(t, "a", "emp-1", at(0, 8), at(0, 16))
	b := mustShift(t, "b", "emp-1", at(1, 8), at(1, 16)) // 16h gap

	assert.Empty(t, v.ValidateDailyRest(b, []compliance.ShiftData{a}))
}

// =============================================================================
// WEEKLY REST
// =============================================================================

func TestWeeklyRest_WeekendOff_Compliant(t *testing.T) {
	// GIVEN: five consecutive 8h weekday shifts (Mon-Fri), weekend off
	// WHEN: validating a 7-day window starting Monday
	// THEN: zero weekly violations (Fri 17:00 -> next Mon is a 55h rest)

	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for day := 0; day < 5; day++ {
		shifts = append(shifts, mustShift(t, "s", "emp-1", at(day, 9), at(day, 17)))
	}

	violations := v.ValidateWeeklyRest("emp-1", shifts, at(0, 0), at(6, 0))
	assert.Empty(t, violations)
}

func TestWeeklyRest_SevenTwelveHourShifts_Violation(t *testing.T) {
	// GIVEN: seven consecutive 12h shifts with no day off
	// THEN: at least one violation with the longest rest under 35h

	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for day := 0; day < 7; day++ {
		shifts = append(shifts, mustShift(t, "s", "emp-1", at(day, 8), at(day, 20)))
	}

	violations := v.ValidateWeeklyRest("emp-1", shifts, at(0, 0), at(6, 0))
	require.NotEmpty(t, violations)
	assert.Equal(t, compliance.ScopeWeekly, violations[0].Scope)
	assert.Equal(t, 35.0, violations[0].RequiredRestHours)
	assert.Less(t, violations[0].ActualRestHours, 35.0)
	assert.Equal(t, 12.0, violations[0].ActualRestHours) // longest overnight gap
}

func TestWeeklyRest_IgnoresOtherUsers(t *testing.T) {
	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for day := 0; day < 7; day++ {
		shifts = append(shifts, mustShift(t, "s", "emp-2", at(day, 8), at(day, 20)))
	}

	assert.Empty(t, v.ValidateWeeklyRest("emp-1", shifts, at(0, 0), at(6, 0)))
}

func TestWeeklyRest_WindowSlidesDaily(t *testing.T) {
	// A 14-day period produces one violation per failing window position,
	// not one per period.
	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	var shifts []compliance.ShiftData
	for day := 0; day < 14; day++ {
		shifts = append(shifts, mustShift(t, "s", "emp-1", at(day, 8), at(day, 20)))
	}

	violations := v.ValidateWeeklyRest("emp-1", shifts, at(0, 0), at(13, 0))
	assert.Len(t, violations, 8) // windows starting day 0..7
	for _, violation := range violations {
		require.NotNil(t, violation.Window)
	}
}

// =============================================================================
// COMBINED + PROPERTIES
// =============================================================================

func TestValidateAll_DailyFirstThenWeekly(t *testing.T) {
	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	var existing []compliance.ShiftData
	for day := 0; day < 6; day++ {
		existing = append(existing, mustShift(t, "s", "emp-1", at(day, 8), at(day, 20)))
	}
	candidate := mustShift(t, "new", "emp-1", at(6, 4), at(6, 16)) // 8h after day-5 shift

	violations := v.ValidateAll(candidate, existing, at(0, 0), at(6, 0))

	require.NotEmpty(t, violations)
	assert.Equal(t, compliance.ScopeDaily, violations[0].Scope)
	assert.Equal(t, compliance.ScopeWeekly, violations[len(violations)-1].Scope)
}

func TestRestValidation_Idempotent(t *testing.T) {
	// Same input twice yields deep-equal output in the same order.
	v := compliance.NewRestPeriodValidator(compliance.NorwayConfig())

	var existing []compliance.ShiftData
	for day := 0; day < 7; day++ {
		existing = append(existing, mustShift(t, "s", "emp-1", at(day, 8), at(day, 20)))
	}
	candidate := mustShift(t, "new", "emp-1", at(3, 22), at(4, 2))

	first := v.ValidateAll(candidate, existing, at(0, 0), at(6, 0))
	second := v.ValidateAll(candidate, existing, at(0, 0), at(6, 0))

	assert.Equal(t, first, second)
}
