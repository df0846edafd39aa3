// Package memory provides in-memory implementations of the report
// collaborators (for tests and dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/report"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store implements every collaborator interface the report generator
// consumes, plus seeding helpers for fixtures.
type Store struct {
	mu        sync.RWMutex
	orgs      map[string]report.Organization
	employees map[string]report.Employee
	shifts    map[string][]compliance.ShiftData // by orgID, sorted by start
	actuals   map[string][]report.ActualHours   // by orgID
	audit     []report.AuditEntry
	reports   map[string]*report.ComplianceReport

	// FailAudit makes Record return this error; exercises the
	// fire-and-forget contract in tests.
	FailAudit error
}

func New() *Store {
	return &Store{
		orgs:      make(map[string]report.Organization),
		employees: make(map[string]report.Employee),
		shifts:    make(map[string][]compliance.ShiftData),
		actuals:   make(map[string][]report.ActualHours),
		reports:   make(map[string]*report.ComplianceReport),
	}
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

func (s *Store) PutOrganization(org report.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[org.ID] = org
}

func (s *Store) PutEmployee(emp report.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.ID] = emp
}

// PutShift inserts keeping the per-org slice sorted by start time.
func (s *Store) PutShift(orgID string, shift compliance.ShiftData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shifts := s.shifts[orgID]
	i := sort.Search(len(shifts), func(i int) bool {
		return shifts[i].StartTime.After(shift.StartTime)
	})
	shifts = append(shifts, compliance.ShiftData{})
	copy(shifts[i+1:], shifts[i:])
	shifts[i] = shift
	s.shifts[orgID] = shifts
}

func (s *Store) PutActualHours(orgID string, a report.ActualHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actuals[orgID] = append(s.actuals[orgID], a)
}

// AuditEntries returns a copy of everything recorded so far.
func (s *Store) AuditEntries() []report.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]report.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

func (s *Store) FindShiftsInRange(_ context.Context, orgID string, start, end time.Time) ([]compliance.ShiftData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endExclusive := end.AddDate(0, 0, 1) // end is an inclusive date
	var out []compliance.ShiftData
	for _, shift := range s.shifts[orgID] {
		if !shift.StartTime.Before(start) && shift.StartTime.Before(endExclusive) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (s *Store) FindActualHoursInRange(_ context.Context, orgID string, start, end time.Time) ([]report.ActualHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Actuals carry no timestamp of their own; they follow their shift.
	shifts, _ := s.findShiftIDs(orgID, start, end)
	var out []report.ActualHours
	for _, a := range s.actuals[orgID] {
		if shifts[a.ShiftID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) findShiftIDs(orgID string, start, end time.Time) (map[string]bool, error) {
	ids := make(map[string]bool)
	endExclusive := end.AddDate(0, 0, 1)
	for _, shift := range s.shifts[orgID] {
		if !shift.StartTime.Before(start) && shift.StartTime.Before(endExclusive) {
			ids[shift.ID] = true
		}
	}
	return ids, nil
}

func (s *Store) GetOrganization(_ context.Context, orgID string) (report.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[orgID]
	if !ok {
		return report.Organization{}, compliance.ErrOrgNotFound
	}
	return org, nil
}

func (s *Store) GetEmployee(_ context.Context, userID string) (report.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[userID]
	if !ok {
		// Unknown employees still appear in reports; metadata is best
		// effort outside the engine's correctness contract.
		return report.Employee{ID: userID, Name: userID}, nil
	}
	return emp, nil
}

func (s *Store) Record(_ context.Context, entry report.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAudit != nil {
		return s.FailAudit
	}
	s.audit = append(s.audit, entry)
	return nil
}

func (s *Store) Save(_ context.Context, r *report.ComplianceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

func (s *Store) Load(_ context.Context, reportID string) (*report.ComplianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportID]
	if !ok {
		return nil, compliance.ErrReportNotFound
	}
	return r, nil
}

// Compile-time checks.
var (
	_ report.ShiftRepository       = (*Store)(nil)
	_ report.ActualHoursRepository = (*Store)(nil)
	_ report.OrgDirectory          = (*Store)(nil)
	_ report.AuditLog              = (*Store)(nil)
	_ report.ReportStore           = (*Store)(nil)
)
