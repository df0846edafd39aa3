/*
Package report assembles audit-ready compliance reports.

PURPOSE:
  Aggregates validator output and cost data per employee for a date
  range into an immutable, exportable report. Reports must be stable
  and reproducible: the same shift/actual-hours snapshot produces
  byte-identical JSON on every run (GeneratedAt comes from an injected
  clock so audits can pin it).

STRUCTURE:
  ComplianceReport
    Organization  header metadata (name, registration number)
    Overview      counts, compliance rate, late publications, hours
    ByType        violations-by-type breakdown, deterministically sorted
    Rows          one row per shift: planned vs actual, overtime flag
    Violations    flat per-violation detail list with formatted dates

SEE ALSO:
  - generator.go: Builds these from the injected collaborators
  - export.go:    JSON and CSV serialization
*/
package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/compliance-engine/compliance"
)

// ShiftStatus classifies a single shift within a report.
type ShiftStatus string

const (
	ShiftCompliant ShiftStatus = "compliant"
	ShiftWarning   ShiftStatus = "warning"
	ShiftViolation ShiftStatus = "violation"
)

// ComplianceReport is the per-period, per-org aggregate. Immutable once
// produced; persisted by an external ReportStore.
type ComplianceReport struct {
	ID           string             `json:"id"`
	Organization Organization       `json:"organization"`
	PeriodStart  string             `json:"period_start"` // 2006-01-02
	PeriodEnd    string             `json:"period_end"`
	GeneratedAt  string             `json:"generated_at"` // RFC3339, from the clock seam
	Overview     Overview           `json:"overview"`
	ByType       []TypeCount        `json:"violations_by_type"`
	Rows         []ShiftRow         `json:"rows"`
	Violations   []ViolationDetail  `json:"violations"`
}

// Overview is the headline numbers an auditor reads first.
type Overview struct {
	TotalShifts        int             `json:"total_shifts"`
	CompliantShifts    int             `json:"compliant_shifts"`
	WarningShifts      int             `json:"warning_shifts"`
	ViolationShifts    int             `json:"violation_shifts"`
	ComplianceRate     decimal.Decimal `json:"compliance_rate"` // percent, 2 decimals
	LatePublications   int             `json:"late_publications"`
	TotalPlannedHours  decimal.Decimal `json:"total_planned_hours"`
	TotalActualHours   decimal.Decimal `json:"total_actual_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
}

// TypeCount is one line of the violations-by-type breakdown.
// Sorted by (Type, Scope) for reproducible output.
type TypeCount struct {
	Type  compliance.ViolationType `json:"type"`
	Scope compliance.Scope         `json:"scope"`
	Count int                      `json:"count"`
}

// ShiftRow is the flattened per-shift detail row (also the CSV shape).
type ShiftRow struct {
	ShiftID        string          `json:"shift_id"`
	EmployeeName   string          `json:"employee_name"`
	EmployeeNumber string          `json:"employee_number"`
	Department     string          `json:"department"`
	Date           string          `json:"date"`       // 2006-01-02
	StartTime      string          `json:"start_time"` // 15:04
	EndTime        string          `json:"end_time"`
	PlannedHours   decimal.Decimal `json:"planned_hours"`
	ActualHours    decimal.Decimal `json:"actual_hours"`
	Overtime       bool            `json:"overtime"`
	Status         ShiftStatus     `json:"status"`
	Violations     []string        `json:"violations,omitempty"` // labels, see export.go
}

// ViolationDetail is one line of the flat per-violation list.
type ViolationDetail struct {
	Type         compliance.ViolationType `json:"type"`
	Scope        compliance.Scope         `json:"scope"`
	EmployeeName string                   `json:"employee_name"`
	Date         string                   `json:"date"`
	Limit        float64                  `json:"limit"`
	Actual       float64                  `json:"actual"`
	Description  string                   `json:"description"`
}

// reportDate and reportClock formats shared by generator and exports.
const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"
)

func formatDate(t time.Time) string { return t.UTC().Format(dateFormat) }
func formatTime(t time.Time) string { return t.UTC().Format(timeFormat) }
