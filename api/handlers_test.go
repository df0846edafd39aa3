package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/api"
	"github.com/warp/compliance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func shiftJSON(id, userID, start, end string, rate float64) map[string]any {
	return map[string]any{
		"id":          id,
		"user_id":     userID,
		"start_time":  start,
		"end_time":    end,
		"hourly_rate": rate,
	}
}

// =============================================================================
// VALIDATION ENDPOINT
// =============================================================================

func TestValidateShift_ViolationsAreA200(t *testing.T) {
	// GIVEN: a candidate shift only 8h after the previous one
	// THEN: HTTP 200 with the findings in the body, never an error status

	srv := newServer(t)

	resp := postJSON(t, srv, "/api/compliance/validate", map[string]any{
		"shift": shiftJSON("b", "e1", "2025-03-04T06:00:00Z", "2025-03-04T14:00:00Z", 0),
		"existing_shifts": []map[string]any{
			shiftJSON("a", "e1", "2025-03-03T14:00:00Z", "2025-03-03T22:00:00Z", 0),
		},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Compliant  bool `json:"compliant"`
		Violations []struct {
			Type             string   `json:"type"`
			Scope            string   `json:"scope"`
			Limit            float64  `json:"limit"`
			Actual           float64  `json:"actual"`
			AffectedShiftIDs []string `json:"affected_shift_ids"`
		} `json:"violations"`
		Summary struct {
			Status string `json:"status"`
			Color  string `json:"color"`
		} `json:"summary"`
	}
	decodeBody(t, resp, &body)

	assert.False(t, body.Compliant)
	require.Len(t, body.Violations, 1)
	assert.Equal(t, "rest_period", body.Violations[0].Type)
	assert.Equal(t, "daily", body.Violations[0].Scope)
	assert.Equal(t, 11.0, body.Violations[0].Limit)
	assert.Equal(t, 8.0, body.Violations[0].Actual)
	assert.Equal(t, []string{"a", "b"}, body.Violations[0].AffectedShiftIDs)
	assert.Equal(t, "violation", body.Summary.Status)
}

func TestValidateShift_Compliant(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv, "/api/compliance/validate", map[string]any{
		"shift": shiftJSON("s1", "e1", "2025-03-03T09:00:00Z", "2025-03-03T17:00:00Z", 0),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Compliant  bool  `json:"compliant"`
		Violations []any `json:"violations"`
		Summary    struct {
			Status string `json:"status"`
			Color  string `json:"color"`
		} `json:"summary"`
	}
	decodeBody(t, resp, &body)

	assert.True(t, body.Compliant)
	assert.Empty(t, body.Violations)
	assert.Equal(t, "compliant", body.Summary.Status)
	assert.Equal(t, "green", body.Summary.Color)
}

func TestValidateShift_ConfigOverride(t *testing.T) {
	// The same 8h gap passes under a custom config with min_daily_rest=8.
	srv := newServer(t)

	override := `{"min_daily_rest": 8}`
	resp := postJSON(t, srv, "/api/compliance/validate", map[string]any{
		"shift": shiftJSON("b", "e1", "2025-03-04T06:00:00Z", "2025-03-04T14:00:00Z", 0),
		"existing_shifts": []map[string]any{
			shiftJSON("a", "e1", "2025-03-03T14:00:00Z", "2025-03-03T22:00:00Z", 0),
		},
		"config": override,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Compliant bool `json:"compliant"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Compliant)
}

func TestValidateShift_MalformedShift(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name  string
		shift map[string]any
	}{
		{"bad timestamp", shiftJSON("s1", "e1", "yesterday", "2025-03-03T17:00:00Z", 0)},
		{"end before start", shiftJSON("s1", "e1", "2025-03-03T17:00:00Z", "2025-03-03T09:00:00Z", 0)},
		{"negative rate", shiftJSON("s1", "e1", "2025-03-03T09:00:00Z", "2025-03-03T17:00:00Z", -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv, "/api/compliance/validate", map[string]any{"shift": tt.shift})
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

// =============================================================================
// COST ENDPOINTS
// =============================================================================

func TestCalculateCost_SingleShift(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv, "/api/compliance/cost", map[string]any{
		"shifts": []map[string]any{
			shiftJSON("s1", "e1", "2025-03-03T08:00:00Z", "2025-03-03T19:00:00Z", 200),
		},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		TotalHours    string `json:"total_hours"`
		RegularHours  string `json:"regular_hours"`
		OvertimeHours string `json:"overtime_hours"`
		OvertimeCost  string `json:"overtime_cost"`
		TotalCost     string `json:"total_cost"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, "11", body.TotalHours)
	assert.Equal(t, "9", body.RegularHours)
	assert.Equal(t, "2", body.OvertimeHours)
	assert.Equal(t, "560", body.OvertimeCost)
	assert.Equal(t, "2360", body.TotalCost)
}

func TestCalculateCost_EmptyShifts(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv, "/api/compliance/cost", map[string]any{"shifts": []any{}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCostVariance(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv, "/api/compliance/cost/variance", map[string]any{
		"budgeted": 1000.0,
		"actual":   1100.0,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Variance           string `json:"variance"`
		VariancePercentage string `json:"variance_percentage"`
		IsOverBudget       bool   `json:"is_over_budget"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, "100", body.Variance)
	assert.Equal(t, "10", body.VariancePercentage)
	assert.True(t, body.IsOverBudget)
}

// =============================================================================
// CONFIG ENDPOINTS
// =============================================================================

func TestConfigEndpoints(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jurisdictions []string
	decodeBody(t, resp, &jurisdictions)
	assert.Equal(t, []string{"norway", "eu_directive"}, jurisdictions)

	resp, err = http.Get(srv.URL + "/api/config/eu_directive")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg struct {
		Jurisdiction  string  `json:"jurisdiction"`
		MaxDailyHours float64 `json:"max_daily_hours"`
	}
	decodeBody(t, resp, &cfg)
	assert.Equal(t, "eu_directive", cfg.Jurisdiction)
	assert.Equal(t, 13.0, cfg.MaxDailyHours)

	resp, err = http.Get(srv.URL + "/api/config/atlantis")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// REPORT FLOW
// =============================================================================

func seedOrg(t *testing.T, srv *httptest.Server) {
	t.Helper()

	resp := postJSON(t, srv, "/api/orgs", map[string]any{
		"id": "org-1", "name": "Fjord Care AS", "registration_number": "NO 987 654 321",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv, "/api/orgs/org-1/employees", map[string]any{
		"id": "e1", "name": "Anna Berg", "number": "100", "department": "Care",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv, "/api/orgs/org-1/shifts",
		shiftJSON("s1", "e1", "2025-03-03T08:00:00Z", "2025-03-03T19:00:00Z", 200))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv, "/api/orgs/org-1/actual-hours", map[string]any{
		"shift_id": "s1", "user_id": "e1", "hours": 10.5,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGenerateReport_JSON(t *testing.T) {
	srv := newServer(t)
	seedOrg(t, srv)

	resp, err := http.Get(srv.URL + "/api/reports/org-1?start=2025-03-03&end=2025-03-09")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Organization struct {
			Name string `json:"name"`
		} `json:"organization"`
		Overview struct {
			TotalShifts     int `json:"total_shifts"`
			ViolationShifts int `json:"violation_shifts"`
		} `json:"overview"`
		Rows []struct {
			EmployeeName string `json:"employee_name"`
			Status       string `json:"status"`
			Overtime     bool   `json:"overtime"`
		} `json:"rows"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, "Fjord Care AS", body.Organization.Name)
	assert.Equal(t, 1, body.Overview.TotalShifts)
	assert.Equal(t, 1, body.Overview.ViolationShifts)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "Anna Berg", body.Rows[0].EmployeeName)
	assert.Equal(t, "violation", body.Rows[0].Status)
	assert.True(t, body.Rows[0].Overtime)
}

func TestGenerateReport_CSV(t *testing.T) {
	srv := newServer(t)
	seedOrg(t, srv)

	resp, err := http.Get(srv.URL + "/api/reports/org-1?start=2025-03-03&end=2025-03-09&format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="compliance-2025-03-03.csv"`)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Employee Name,"))
	assert.Contains(t, lines[1], "Anna Berg")
	assert.Contains(t, lines[1], "yes") // overtime flag
}

func TestGenerateReport_UnknownOrg(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/api/reports/ghost?start=2025-03-03&end=2025-03-09")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateReport_BadDates(t *testing.T) {
	srv := newServer(t)
	seedOrg(t, srv)

	for _, query := range []string{
		"start=March&end=2025-03-09",
		"start=2025-03-03&end=soon",
		"start=2025-03-09&end=2025-03-03",
	} {
		resp, err := http.Get(fmt.Sprintf("%s/api/reports/org-1?%s", srv.URL, query))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

// =============================================================================
// ROSTER WRITE SIDE
// =============================================================================

func TestCreateOrganization_RequiresIDAndName(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv, "/api/orgs", map[string]any{"id": "", "name": "Nameless"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateShift_RequiresID(t *testing.T) {
	srv := newServer(t)
	seedOrg(t, srv)

	resp := postJSON(t, srv, "/api/orgs/org-1/shifts",
		shiftJSON("", "e1", "2025-03-05T08:00:00Z", "2025-03-05T16:00:00Z", 200))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
