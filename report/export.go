/*
export.go - JSON and CSV serialization of compliance reports

CONTRACT:
  JSON is the full-fidelity shape; field names are stable across
  versions (additive changes only). CSV is the flattened one-row-per-
  shift form with the fixed header below; violation labels are joined
  by ";". Both exports are deterministic given a report.

  An unknown violation discriminant is a programming error and fails
  fast with ErrUnknownViolationType; it is never silently skipped in an
  audit artifact.
*/
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/warp/compliance-engine/compliance"
)

// CSVHeader is the contractual header row for CSV exports.
var CSVHeader = []string{
	"Employee Name", "Employee Number", "Department", "Date",
	"Start Time", "End Time", "Planned Hours", "Actual Hours",
	"Overtime", "Violations",
}

// Label renders a violation as the stable one-line string used in rows,
// detail lists, and CSV cells.
func Label(v compliance.Violation) (string, error) {
	switch v.ViolationType() {
	case compliance.ViolationRestPeriod:
		return fmt.Sprintf("rest_period %s: actual %.2fh, required %.2fh",
			v.ViolationScope(), v.Actual(), v.Limit()), nil
	case compliance.ViolationWorkingHours:
		return fmt.Sprintf("working_hours %s: actual %.2fh, limit %.2fh",
			v.ViolationScope(), v.Actual(), v.Limit()), nil
	default:
		return "", &compliance.UnknownViolationTypeError{Type: string(v.ViolationType())}
	}
}

// ExportJSON writes the report as indented JSON. Byte-identical for
// identical reports: struct field order is fixed and all slices are
// deterministically sorted by the generator.
func ExportJSON(r *ComplianceReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// MarshalJSON-style convenience for callers that want bytes.
func ExportJSONBytes(r *ComplianceReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportJSON(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportCSV writes the flattened one-row-per-shift form.
func ExportCSV(r *ComplianceReport, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range r.Rows {
		overtime := "no"
		if row.Overtime {
			overtime = "yes"
		}
		record := []string{
			row.EmployeeName,
			row.EmployeeNumber,
			row.Department,
			row.Date,
			row.StartTime,
			row.EndTime,
			row.PlannedHours.StringFixed(2),
			row.ActualHours.StringFixed(2),
			overtime,
			strings.Join(row.Violations, ";"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSVBytes is ExportCSV into a byte slice.
func ExportCSVBytes(r *ComplianceReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportCSV(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
