/*
Package sqlite provides a SQLite-backed implementation of the report
collaborator interfaces.

PURPOSE:
  Implements ShiftRepository, ActualHoursRepository, OrgDirectory,
  AuditLog, and ReportStore using SQLite. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  organizations: Report header metadata
  employees:     Roster metadata for report rows
  shifts:        Scheduled work intervals
  actual_hours:  Time-clock records matched to shifts
  audit_log:     Append-only record of report generations
  reports:       Generated reports, stored as JSON documents

APPEND-ONLY ENFORCEMENT:
  audit_log and reports have no UPDATE or DELETE statements. Reports are
  immutable once produced; the multi-year statutory retention lives
  here, not in the engine.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block the writer.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  gen := report.NewGenerator(cfg, store, store, store, store)

SEE ALSO:
  - report/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/report"
)

// Store implements all report collaborator interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		registration_number TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		name TEXT NOT NULL,
		number TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		created_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_shifts_org_start ON shifts(org_id, start_time);
	CREATE INDEX IF NOT EXISTS idx_shifts_user_start ON shifts(user_id, start_time);

	CREATE TABLE IF NOT EXISTS actual_hours (
		shift_id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		hours REAL NOT NULL
	);

	-- Append-only: no UPDATE, no DELETE
	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		org_id TEXT NOT NULL,
		action TEXT NOT NULL,
		payload TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_audit_org_time ON audit_log(org_id, timestamp);

	-- Immutable once written; statutory retention lives here
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		body TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SEEDING / WRITE SIDE
// =============================================================================

func (s *Store) CreateOrganization(ctx context.Context, org report.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO organizations (id, name, registration_number) VALUES (?, ?, ?)`,
		org.ID, org.Name, org.RegistrationNumber)
	return err
}

func (s *Store) CreateEmployee(ctx context.Context, orgID string, emp report.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO employees (id, org_id, name, number, department) VALUES (?, ?, ?, ?, ?)`,
		emp.ID, orgID, emp.Name, emp.Number, emp.Department)
	return err
}

func (s *Store) CreateShift(ctx context.Context, orgID string, shift compliance.ShiftData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var createdAt any
	if !shift.CreatedAt.IsZero() {
		createdAt = shift.CreatedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO shifts
		 (id, org_id, user_id, start_time, end_time, break_minutes, hourly_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.ID, orgID, shift.UserID,
		shift.StartTime.UTC().Format(time.RFC3339),
		shift.EndTime.UTC().Format(time.RFC3339),
		shift.BreakMinutes, shift.HourlyRate.String(), createdAt)
	return err
}

func (s *Store) RecordActualHours(ctx context.Context, orgID string, a report.ActualHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO actual_hours (shift_id, org_id, user_id, hours) VALUES (?, ?, ?, ?)`,
		a.ShiftID, orgID, a.UserID, a.Hours)
	return err
}

// =============================================================================
// SHIFT REPOSITORY
// =============================================================================

func (s *Store) FindShiftsInRange(ctx context.Context, orgID string, start, end time.Time) ([]compliance.ShiftData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endExclusive := end.AddDate(0, 0, 1) // end is an inclusive date
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, start_time, end_time, break_minutes, hourly_rate, created_at
		 FROM shifts
		 WHERE org_id = ? AND start_time >= ? AND start_time < ?
		 ORDER BY start_time, id`,
		orgID, start.UTC().Format(time.RFC3339), endExclusive.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []compliance.ShiftData
	for rows.Next() {
		var (
			shift      compliance.ShiftData
			startStr   string
			endStr     string
			rateStr    string
			createdStr sql.NullString
		)
		if err := rows.Scan(&shift.ID, &shift.UserID, &startStr, &endStr, &shift.BreakMinutes, &rateStr, &createdStr); err != nil {
			return nil, err
		}
		if shift.StartTime, err = time.Parse(time.RFC3339, startStr); err != nil {
			return nil, fmt.Errorf("shift %s: bad start_time: %w", shift.ID, err)
		}
		if shift.EndTime, err = time.Parse(time.RFC3339, endStr); err != nil {
			return nil, fmt.Errorf("shift %s: bad end_time: %w", shift.ID, err)
		}
		if shift.HourlyRate, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("shift %s: bad hourly_rate: %w", shift.ID, err)
		}
		if createdStr.Valid {
			if shift.CreatedAt, err = time.Parse(time.RFC3339, createdStr.String); err != nil {
				return nil, fmt.Errorf("shift %s: bad created_at: %w", shift.ID, err)
			}
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// =============================================================================
// ACTUAL HOURS REPOSITORY
// =============================================================================

func (s *Store) FindActualHoursInRange(ctx context.Context, orgID string, start, end time.Time) ([]report.ActualHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endExclusive := end.AddDate(0, 0, 1)
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.shift_id, a.user_id, a.hours
		 FROM actual_hours a
		 JOIN shifts sh ON sh.id = a.shift_id
		 WHERE a.org_id = ? AND sh.start_time >= ? AND sh.start_time < ?
		 ORDER BY a.shift_id`,
		orgID, start.UTC().Format(time.RFC3339), endExclusive.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.ActualHours
	for rows.Next() {
		var a report.ActualHours
		if err := rows.Scan(&a.ShiftID, &a.UserID, &a.Hours); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// ORG DIRECTORY
// =============================================================================

func (s *Store) GetOrganization(ctx context.Context, orgID string) (report.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var org report.Organization
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, registration_number FROM organizations WHERE id = ?`, orgID).
		Scan(&org.ID, &org.Name, &org.RegistrationNumber)
	if err == sql.ErrNoRows {
		return report.Organization{}, compliance.ErrOrgNotFound
	}
	return org, err
}

func (s *Store) GetEmployee(ctx context.Context, userID string) (report.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp report.Employee
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, number, department FROM employees WHERE id = ?`, userID).
		Scan(&emp.ID, &emp.Name, &emp.Number, &emp.Department)
	if err == sql.ErrNoRows {
		// Metadata is best effort; unknown employees still show up.
		return report.Employee{ID: userID, Name: userID}, nil
	}
	return emp, err
}

// =============================================================================
// AUDIT LOG (append-only)
// =============================================================================

func (s *Store) Record(ctx context.Context, entry report.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, timestamp, org_id, action, payload) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UTC().Format(time.RFC3339), entry.OrgID, entry.Action, string(payload))
	return err
}

// =============================================================================
// REPORT STORE (immutable)
// =============================================================================

func (s *Store) Save(ctx context.Context, r *report.ComplianceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, org_id, generated_at, body) VALUES (?, ?, ?, ?)`,
		r.ID, r.Organization.ID, r.GeneratedAt, string(body))
	return err
}

func (s *Store) Load(ctx context.Context, reportID string) (*report.ComplianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, reportID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, compliance.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	var r report.ComplianceReport
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", reportID, err)
	}
	return &r, nil
}

// Compile-time checks.
var (
	_ report.ShiftRepository       = (*Store)(nil)
	_ report.ActualHoursRepository = (*Store)(nil)
	_ report.OrgDirectory          = (*Store)(nil)
	_ report.AuditLog              = (*Store)(nil)
	_ report.ReportStore           = (*Store)(nil)
)
