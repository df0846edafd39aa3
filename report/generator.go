/*
generator.go - Builds compliance reports from injected collaborators

PURPOSE:
  Pulls shifts and actual-hours for a date range, runs the rest-period
  and working-hours validators per shift, classifies each shift, and
  assembles the report. Pure given its inputs: the only nondeterminism
  (clock, report ID) sits behind seams so audits can reproduce output
  byte for byte.

CLASSIFICATION:
  violation  - at least one violation touches the shift
  warning    - compliant, but worked hours are within one hour of the
               daily cap (near-limit condition surfaced proactively)
  compliant  - everything else

AUDIT:
  Every generation appends an audit entry. Audit failures are logged and
  swallowed here; a storage outage on the audit path never blocks the
  compliance determination.
*/
package report

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/compliance-engine/compliance"
)

// warningMarginHours is how close to the daily cap a shift may run
// before it is surfaced as a warning.
const warningMarginHours = 1.0

// Generator assembles compliance reports. Construct with NewGenerator;
// the zero value is not usable.
type Generator struct {
	config compliance.ComplianceConfig
	shifts ShiftRepository
	actual ActualHoursRepository
	orgs   OrgDirectory
	audit  AuditLog // may be nil

	rest  *compliance.RestPeriodValidator
	hours *compliance.WorkingHoursValidator
	cost  *compliance.LaborCostCalculator

	now   func() time.Time
	newID func() string
	logf  func(format string, args ...any)
}

func NewGenerator(config compliance.ComplianceConfig, shifts ShiftRepository, actual ActualHoursRepository, orgs OrgDirectory, audit AuditLog) *Generator {
	return &Generator{
		config: config,
		shifts: shifts,
		actual: actual,
		orgs:   orgs,
		audit:  audit,
		rest:   compliance.NewRestPeriodValidator(config),
		hours:  compliance.NewWorkingHoursValidator(config),
		cost:   compliance.NewLaborCostCalculator(config),
		now:    time.Now,
		newID:  uuid.NewString,
		logf:   log.Printf,
	}
}

// WithClock pins GeneratedAt. Returns the generator for chaining.
func (g *Generator) WithClock(now func() time.Time) *Generator { g.now = now; return g }

// WithIDSource pins report ID generation (audits, tests).
func (g *Generator) WithIDSource(newID func() string) *Generator { g.newID = newID; return g }

// WithLogger redirects the swallowed-audit-failure log line.
func (g *Generator) WithLogger(logf func(format string, args ...any)) *Generator {
	g.logf = logf
	return g
}

// Generate builds the report for [start, end] (inclusive dates).
func (g *Generator) Generate(ctx context.Context, orgID string, start, end time.Time) (*ComplianceReport, error) {
	if end.Before(start) {
		return nil, compliance.ErrInvalidPeriod
	}

	org, err := g.orgs.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load organization %s: %w", orgID, err)
	}

	shifts, err := g.shifts.FindShiftsInRange(ctx, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load shifts: %w", err)
	}

	actuals, err := g.actual.FindActualHoursInRange(ctx, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load actual hours: %w", err)
	}
	actualByShift := make(map[string]float64, len(actuals))
	for _, a := range actuals {
		actualByShift[a.ShiftID] = a.Hours
	}

	byUser := make(map[string][]compliance.ShiftData)
	for _, s := range shifts {
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}
	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	r := &ComplianceReport{
		ID:           g.newID(),
		Organization: org,
		PeriodStart:  formatDate(start),
		PeriodEnd:    formatDate(end),
		GeneratedAt:  g.now().UTC().Format(time.RFC3339),
	}

	typeCounts := make(map[TypeCount]int)
	overview := Overview{
		ComplianceRate:     decimal.Zero,
		TotalPlannedHours:  decimal.Zero,
		TotalActualHours:   decimal.Zero,
		TotalOvertimeHours: decimal.Zero,
	}

	for _, userID := range userIDs {
		userShifts := byUser[userID]
		emp, err := g.orgs.GetEmployee(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load employee %s: %w", userID, err)
		}

		for i, shift := range userShifts {
			others := make([]compliance.ShiftData, 0, len(userShifts)-1)
			others = append(others, userShifts[:i]...)
			others = append(others, userShifts[i+1:]...)

			var shiftViolations []compliance.Violation
			for _, v := range g.rest.ValidateDailyRest(shift, others) {
				shiftViolations = append(shiftViolations, v)
			}
			for _, v := range g.hours.ValidateDailyHours(shift, others) {
				shiftViolations = append(shiftViolations, v)
			}
			for _, v := range g.hours.ValidateWeeklyHours(shift, others) {
				shiftViolations = append(shiftViolations, v)
			}

			row, err := g.buildRow(shift, emp, actualByShift, shiftViolations)
			if err != nil {
				return nil, err
			}
			r.Rows = append(r.Rows, row)

			for _, v := range shiftViolations {
				typeCounts[TypeCount{Type: v.ViolationType(), Scope: v.ViolationScope()}]++
				r.Violations = append(r.Violations, g.detail(v, emp, formatDate(shift.StartTime)))
			}

			overview.TotalShifts++
			switch row.Status {
			case ShiftViolation:
				overview.ViolationShifts++
			case ShiftWarning:
				overview.WarningShifts++
			default:
				overview.CompliantShifts++
			}
			if shift.PublishedLate(g.config.PublishDeadlineDays) {
				overview.LatePublications++
			}
			overview.TotalPlannedHours = overview.TotalPlannedHours.Add(row.PlannedHours)
			overview.TotalActualHours = overview.TotalActualHours.Add(row.ActualHours)
			overview.TotalOvertimeHours = overview.TotalOvertimeHours.Add(g.cost.CalculateShiftCost(shift).OvertimeHours)
		}

		// Per-employee checks that span the whole period rather than a
		// single shift: rolling weekly rest and the overtime ceilings.
		for _, v := range g.rest.ValidateWeeklyRest(userID, userShifts, start, end) {
			typeCounts[TypeCount{Type: v.ViolationType(), Scope: v.ViolationScope()}]++
			date := formatDate(start)
			if v.Window != nil {
				date = formatDate(v.Window.Start)
			}
			r.Violations = append(r.Violations, g.detail(v, emp, date))
		}
		for _, v := range g.hours.ValidateOvertimeLimits(userID, userShifts, start) {
			typeCounts[TypeCount{Type: v.ViolationType(), Scope: v.ViolationScope()}]++
			r.Violations = append(r.Violations, g.detail(v, emp, formatDate(v.AffectedPeriod.Start)))
		}
	}

	if overview.TotalShifts > 0 {
		overview.ComplianceRate = decimal.NewFromInt(int64(overview.CompliantShifts)).
			Div(decimal.NewFromInt(int64(overview.TotalShifts))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	r.Overview = overview
	r.ByType = sortedTypeCounts(typeCounts)
	sortRows(r.Rows)
	sortDetails(r.Violations)

	g.recordAudit(ctx, orgID, r)
	return r, nil
}

func (g *Generator) buildRow(shift compliance.ShiftData, emp Employee, actualByShift map[string]float64, violations []compliance.Violation) (ShiftRow, error) {
	worked := shift.WorkedHours()

	status := ShiftCompliant
	if len(violations) > 0 {
		status = ShiftViolation
	} else if worked >= g.config.MaxDailyHours-warningMarginHours {
		status = ShiftWarning
	}

	labels := make([]string, 0, len(violations))
	for _, v := range violations {
		label, err := Label(v)
		if err != nil {
			return ShiftRow{}, err
		}
		labels = append(labels, label)
	}

	return ShiftRow{
		ShiftID:        shift.ID,
		EmployeeName:   emp.Name,
		EmployeeNumber: emp.Number,
		Department:     emp.Department,
		Date:           formatDate(shift.StartTime),
		StartTime:      formatTime(shift.StartTime),
		EndTime:        formatTime(shift.EndTime),
		PlannedHours:   decimal.NewFromFloat(worked).Round(2),
		ActualHours:    decimal.NewFromFloat(actualByShift[shift.ID]).Round(2),
		Overtime:       worked > g.config.MaxDailyHours,
		Status:         status,
		Violations:     labels,
	}, nil
}

func (g *Generator) detail(v compliance.Violation, emp Employee, date string) ViolationDetail {
	label, err := Label(v)
	if err != nil {
		// Unreachable for violations the validators produce; keep the
		// raw discriminant so the report is still readable.
		label = string(v.ViolationType())
	}
	return ViolationDetail{
		Type:         v.ViolationType(),
		Scope:        v.ViolationScope(),
		EmployeeName: emp.Name,
		Date:         date,
		Limit:        v.Limit(),
		Actual:       v.Actual(),
		Description:  label,
	}
}

// recordAudit is fire-and-forget: failures degrade observability, not
// correctness.
func (g *Generator) recordAudit(ctx context.Context, orgID string, r *ComplianceReport) {
	if g.audit == nil {
		return
	}
	entry := AuditEntry{
		ID:        g.newID(),
		Timestamp: g.now().UTC(),
		OrgID:     orgID,
		Action:    "report_generated",
		Payload: map[string]any{
			"report_id":    r.ID,
			"period_start": r.PeriodStart,
			"period_end":   r.PeriodEnd,
			"total_shifts": r.Overview.TotalShifts,
		},
	}
	if err := g.audit.Record(ctx, entry); err != nil {
		g.logf("audit record failed for report %s: %v", r.ID, err)
	}
}

// =============================================================================
// DETERMINISTIC ORDERING
// =============================================================================

func sortedTypeCounts(counts map[TypeCount]int) []TypeCount {
	out := make([]TypeCount, 0, len(counts))
	for tc, n := range counts {
		tc.Count = n
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Scope < out[j].Scope
	})
	return out
}

func sortRows(rows []ShiftRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.EmployeeName != b.EmployeeName:
			return a.EmployeeName < b.EmployeeName
		case a.Date != b.Date:
			return a.Date < b.Date
		case a.StartTime != b.StartTime:
			return a.StartTime < b.StartTime
		default:
			return a.ShiftID < b.ShiftID
		}
	})
}

func sortDetails(details []ViolationDetail) {
	sort.Slice(details, func(i, j int) bool {
		a, b := details[i], details[j]
		switch {
		case a.Date != b.Date:
			return a.Date < b.Date
		case a.EmployeeName != b.EmployeeName:
			return a.EmployeeName < b.EmployeeName
		case a.Type != b.Type:
			return a.Type < b.Type
		default:
			return a.Scope < b.Scope
		}
	})
}
