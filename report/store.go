/*
store.go - Collaborator interfaces consumed by the report generator

PURPOSE:
  The engine never holds a database handle. Everything the generator
  needs is injected behind these interfaces, so tests run against the
  in-memory fakes in store/memory and production runs against
  store/sqlite.

FAILURE CONTRACT:
  Repository failures propagate: a report cannot be generated without
  its data. AuditLog failures do NOT propagate - the generator logs and
  swallows them at the call site. A compliance determination is never
  blocked by a storage outage on the audit path.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - store/memory: in-memory fakes for tests and dev

SEE ALSO:
  - generator.go: Injection point for all of these
*/
package report

import (
	"context"
	"time"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// SHIFT & ACTUAL-HOURS REPOSITORIES
// =============================================================================

// ShiftRepository provides the scheduled shifts for a reporting range.
type ShiftRepository interface {
	// FindShiftsInRange returns all shifts for the org whose start falls
	// in [start, end], ordered by start time.
	FindShiftsInRange(ctx context.Context, orgID string, start, end time.Time) ([]compliance.ShiftData, error)
}

// ActualHours is a clocked-hours record matched to a scheduled shift.
type ActualHours struct {
	ShiftID string  `json:"shift_id"`
	UserID  string  `json:"user_id"`
	Hours   float64 `json:"hours"`
}

// ActualHoursRepository provides time-clock data for a reporting range.
type ActualHoursRepository interface {
	FindActualHoursInRange(ctx context.Context, orgID string, start, end time.Time) ([]ActualHours, error)
}

// =============================================================================
// ORGANIZATION METADATA
// =============================================================================

// Organization is the header metadata stamped on every report.
type Organization struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
}

// Employee is the roster metadata used for report rows.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Number     string `json:"number"`
	Department string `json:"department"`
}

// OrgDirectory looks up organization and employee metadata.
type OrgDirectory interface {
	GetOrganization(ctx context.Context, orgID string) (Organization, error)
	GetEmployee(ctx context.Context, userID string) (Employee, error)
}

// =============================================================================
// AUDIT LOG - Fire-and-forget at the call site
// =============================================================================

// AuditEntry records that a report was generated and by what inputs.
type AuditEntry struct {
	ID        string
	Timestamp time.Time
	OrgID     string
	Action    string
	Payload   map[string]any
}

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// =============================================================================
// REPORT STORE - Retention is the store's problem, not the engine's
// =============================================================================

// ReportStore persists generated reports. The multi-year statutory
// retention requirement lives behind this interface.
type ReportStore interface {
	Save(ctx context.Context, r *ComplianceReport) error
	Load(ctx context.Context, reportID string) (*ComplianceReport, error)
}
