/*
handlers.go - HTTP API handlers for the compliance engine

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP request/
  response, JSON serialization, and delegates to the pure engine. The
  engine itself is invoked with already-validated parameters; this
  layer is where raw input dies or becomes a domain value.

ENDPOINTS:
  Compliance:
    POST /api/compliance/validate      Judge a candidate shift
    POST /api/compliance/cost          Cost one or many shifts
    POST /api/compliance/cost/variance Budget vs actual

  Reports:
    GET  /api/reports/{orgID}          Generate report (?format=csv)

  Config:
    GET  /api/config                   List jurisdictions
    GET  /api/config/{jurisdiction}    Preset values

  Roster (write side, feeds the report store):
    POST /api/orgs                     Upsert organization
    POST /api/orgs/{orgID}/employees   Upsert employee
    POST /api/orgs/{orgID}/shifts      Upsert shift
    POST /api/orgs/{orgID}/actual-hours Record clocked hours

ERROR HANDLING:
  Violations are NEVER errors: a non-compliant shift is a 200 with the
  findings in the body. Errors are reserved for malformed input (400),
  unknown resources (404), and storage failures (500).

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/report"
	"github.com/warp/compliance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Config compliance.ComplianceConfig

	visual *compliance.VisualComplianceGenerator
}

// NewHandler creates a new handler with the given store and the default
// (Norwegian) statutory config.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:  store,
		Config: compliance.NorwayConfig(),
		visual: compliance.NewVisualComplianceGenerator(),
	}
}

// configFor resolves a per-request config override, falling back to the
// handler default.
func (h *Handler) configFor(raw *string) (compliance.ComplianceConfig, error) {
	if raw == nil {
		return h.Config, nil
	}
	return factory.ParseConfig(*raw)
}

// =============================================================================
// COMPLIANCE ENDPOINTS
// =============================================================================

// ValidateShift judges a candidate shift against the employee's
// existing schedule.
// POST /api/compliance/validate
func (h *Handler) ValidateShift(w http.ResponseWriter, r *http.Request) {
	var req ValidateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.configFor(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid config", err)
		return
	}

	shift, err := toShift(req.Shift)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}
	existing, err := toShifts(req.ExistingShifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid existing shift", err)
		return
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd, shift)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	rest := compliance.NewRestPeriodValidator(cfg)
	hours := compliance.NewWorkingHoursValidator(cfg)

	var violations []compliance.Violation
	for _, v := range rest.ValidateAll(shift, existing, periodStart, periodEnd) {
		violations = append(violations, v)
	}
	for _, v := range hours.ValidateAll(shift, existing) {
		violations = append(violations, v)
	}

	dtos := make([]ViolationDTO, 0, len(violations))
	for _, v := range violations {
		dtos = append(dtos, toViolationDTO(v, h.visual.ForViolation(v)))
	}

	writeJSON(w, http.StatusOK, ValidateShiftResponse{
		Compliant:  len(violations) == 0,
		Violations: dtos,
		Summary:    h.visual.ForSummary(len(violations), 0),
	})
}

// CalculateCost costs one shift or a whole set.
// POST /api/compliance/cost
func (h *Handler) CalculateCost(w http.ResponseWriter, r *http.Request) {
	var req CostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Shifts) == 0 {
		writeError(w, http.StatusBadRequest, "At least one shift is required", nil)
		return
	}

	cfg, err := h.configFor(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid config", err)
		return
	}
	shifts, err := toShifts(req.Shifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	calc := compliance.NewLaborCostCalculator(cfg)
	if len(shifts) == 1 {
		writeJSON(w, http.StatusOK, calc.CalculateShiftCost(shifts[0]))
		return
	}
	writeJSON(w, http.StatusOK, calc.CalculateTotalCost(shifts))
}

// CostVariance compares actual spend against budget.
// POST /api/compliance/cost/variance
func (h *Handler) CostVariance(w http.ResponseWriter, r *http.Request) {
	var req VarianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	calc := compliance.NewLaborCostCalculator(h.Config)
	variance := calc.CalculateVariance(
		decimal.NewFromFloat(req.Budgeted),
		decimal.NewFromFloat(req.Actual),
	)
	writeJSON(w, http.StatusOK, variance)
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

// GenerateReport builds, persists, and returns the compliance report
// for a date range. ?format=csv returns the flattened export.
// GET /api/reports/{orgID}?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := chi.URLParam(r, "orgID")

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}

	gen := report.NewGenerator(h.Config, h.Store, h.Store, h.Store, h.Store)
	rep, err := gen.Generate(ctx, orgID, start, end)
	if err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Organization not found", err)
			return
		}
		if compliance.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid report request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}

	// Persistence failure is a real failure: an audit artifact that was
	// never retained is worthless.
	if err := h.Store.Save(ctx, rep); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist report", err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="compliance-%s.csv"`, rep.PeriodStart))
		if err := report.ExportCSV(rep, w); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to export CSV", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := report.ExportJSON(rep, w); err != nil {
		// Headers are gone; nothing more to do than log via middleware.
		return
	}
}

// =============================================================================
// CONFIG ENDPOINTS
// =============================================================================

// ListJurisdictions lists the selectable statutory presets.
// GET /api/config
func (h *Handler) ListJurisdictions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.Jurisdictions())
}

// GetConfig returns the preset for a jurisdiction.
// GET /api/config/{jurisdiction}
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	j := factory.Jurisdiction(chi.URLParam(r, "jurisdiction"))
	cfg, err := factory.ForJurisdiction(j)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown jurisdiction", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(j, cfg))
}

// =============================================================================
// ROSTER WRITE SIDE
// =============================================================================

// CreateOrganization upserts an organization.
// POST /api/orgs
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var org report.Organization
	if err := json.NewDecoder(r.Body).Decode(&org); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if org.ID == "" || org.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if err := h.Store.CreateOrganization(r.Context(), org); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create organization", err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// CreateEmployee upserts an employee.
// POST /api/orgs/{orgID}/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var emp report.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if emp.ID == "" || emp.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if err := h.Store.CreateEmployee(r.Context(), chi.URLParam(r, "orgID"), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

// CreateShift upserts a shift.
// POST /api/orgs/{orgID}/shifts
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var dto ShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	shift, err := toShift(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}
	if shift.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required for persisted shifts", nil)
		return
	}
	if err := h.Store.CreateShift(r.Context(), chi.URLParam(r, "orgID"), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// RecordActualHours records a clocked-hours entry for a shift.
// POST /api/orgs/{orgID}/actual-hours
func (h *Handler) RecordActualHours(w http.ResponseWriter, r *http.Request) {
	var a report.ActualHours
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if a.ShiftID == "" || a.Hours < 0 {
		writeError(w, http.StatusBadRequest, "shift_id and non-negative hours are required", nil)
		return
	}
	if err := h.Store.RecordActualHours(r.Context(), chi.URLParam(r, "orgID"), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record hours", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// =============================================================================
// HELPERS
// =============================================================================

// parsePeriod defaults the weekly-rest evaluation window to the week
// around the candidate shift when the caller does not supply one.
func parsePeriod(startStr, endStr string, shift compliance.ShiftData) (time.Time, time.Time, error) {
	if startStr == "" && endStr == "" {
		start := shift.Day().AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 14), nil
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period_end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, compliance.ErrInvalidPeriod
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
