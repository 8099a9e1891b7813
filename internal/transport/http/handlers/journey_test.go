package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinichr/internal/app/server"
	"clinichr/internal/domain/users"
	"clinichr/internal/identity"
	"clinichr/internal/platform/config"
	"clinichr/internal/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	cfg := config.Config{
		Addr:               ":0",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		CORSAllowedOrigins: []string{"*"},
	}
	st := store.NewMemory()
	tokens := identity.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	app := server.New(cfg, st, tokens, nil)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, st
}

func seedUser(t *testing.T, st store.Store, uid, email, role, password string) {
	t.Helper()
	err := users.NewService(st).Create(context.Background(), users.CreateInput{
		UID:         uid,
		DisplayName: "User " + uid,
		Email:       email,
		Role:        role,
		EmployeeID:  "EMP-" + uid,
		Password:    password,
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", uid, err)
	}
}

func login(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	resp := postJSON(t, ts, "/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any, wantStatus int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, wantStatus, resp.StatusCode, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode envelope: %v: %s", err, raw)
	}
	return env
}

func postJSON(t *testing.T, ts *httptest.Server, path, token string, body any, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, ts, http.MethodPost, path, token, body, wantStatus)
}

func getJSON(t *testing.T, ts *httptest.Server, path, token string, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, ts, http.MethodGet, path, token, nil, wantStatus)
}

func TestLeaveApprovalJourney(t *testing.T) {
	ts, st := newTestApp(t)
	seedUser(t, st, "sup1", "sup@clinic.test", "supervisor", "Super123!")
	seedUser(t, st, "emp1", "emp@clinic.test", "employee", "Employee123!")

	supToken := login(t, ts, "sup@clinic.test", "Super123!")
	empToken := login(t, ts, "emp@clinic.test", "Employee123!")

	resp := postJSON(t, ts, "/leave", empToken, map[string]any{
		"type":       "Vacation",
		"start_date": "2024-04-01",
		"end_date":   "2024-04-03",
		"reason":     "family trip",
	}, http.StatusCreated)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode leave response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected leave request id")
	}

	// Employees cannot see or review the full queue.
	getJSON(t, ts, "/leave/all", empToken, http.StatusForbidden)

	doJSON(t, ts, http.MethodPut, "/leave/emp1/"+created.ID+"/status", supToken,
		map[string]any{"status": "Approved"}, http.StatusOK)

	// Three inclusive days deducted from the default balance of 15.
	profileResp := getJSON(t, ts, "/users/me", empToken, http.StatusOK)
	var me struct {
		Profile struct {
			LeaveBalance int `json:"leaveBalance"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(profileResp.Data, &me); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if me.Profile.LeaveBalance != 12 {
		t.Fatalf("expected leave balance 12, got %d", me.Profile.LeaveBalance)
	}

	// A second review of the same request must be rejected without a
	// second deduction.
	env := doJSON(t, ts, http.MethodPut, "/leave/emp1/"+created.ID+"/status", supToken,
		map[string]any{"status": "Approved"}, http.StatusBadRequest)
	if env.Error == nil || env.Error.Code != "already_reviewed" {
		t.Fatalf("expected already_reviewed error, got %+v", env.Error)
	}
}

func TestAttendanceJourney(t *testing.T) {
	ts, st := newTestApp(t)
	seedUser(t, st, "emp1", "emp@clinic.test", "employee", "Employee123!")
	empToken := login(t, ts, "emp@clinic.test", "Employee123!")

	postJSON(t, ts, "/attendance/time-in", empToken, map[string]any{
		"time_in": "08:01 AM",
		"status":  "On Time",
	}, http.StatusCreated)

	env := postJSON(t, ts, "/attendance/time-in", empToken, map[string]any{
		"time_in": "08:05 AM",
		"status":  "Late",
	}, http.StatusBadRequest)
	if env.Error == nil || env.Error.Code != "already_timed_in" {
		t.Fatalf("expected already_timed_in error, got %+v", env.Error)
	}

	postJSON(t, ts, "/attendance/time-out", empToken, map[string]any{
		"time_out":    "05:02 PM",
		"total_hours": 8.0,
		"extra_hours": 0.0,
	}, http.StatusOK)

	resp := getJSON(t, ts, "/attendance/me", empToken, http.StatusOK)
	var listed struct {
		Records []struct {
			TimeIn  string `json:"timeIn"`
			TimeOut string `json:"timeOut"`
		} `json:"records"`
	}
	if err := json.Unmarshal(resp.Data, &listed); err != nil {
		t.Fatalf("failed to decode attendance list: %v", err)
	}
	if len(listed.Records) != 1 {
		t.Fatalf("expected 1 attendance record, got %d", len(listed.Records))
	}
	if listed.Records[0].TimeIn != "08:01 AM" || listed.Records[0].TimeOut != "05:02 PM" {
		t.Fatalf("unexpected attendance record: %+v", listed.Records[0])
	}

	getJSON(t, ts, "/attendance/all", empToken, http.StatusForbidden)
}

func TestBulkTimeOutJourney(t *testing.T) {
	ts, st := newTestApp(t)
	seedUser(t, st, "sup1", "sup@clinic.test", "supervisor", "Super123!")
	seedUser(t, st, "emp1", "emp1@clinic.test", "employee", "Employee123!")
	seedUser(t, st, "emp2", "emp2@clinic.test", "employee", "Employee123!")

	supToken := login(t, ts, "sup@clinic.test", "Super123!")
	emp1Token := login(t, ts, "emp1@clinic.test", "Employee123!")

	postJSON(t, ts, "/attendance/time-in", emp1Token, map[string]any{
		"time_in": "08:00 AM",
		"status":  "On Time",
	}, http.StatusCreated)

	today := time.Now().Format("2006-01-02")
	resp := postJSON(t, ts, "/attendance/bulk-timeout", supToken, map[string]any{
		"date":          today,
		"employee_uids": []string{"emp1", "emp2"},
	}, http.StatusOK)

	// Only the employee with an open shift gets closed; the other is
	// skipped, not errored.
	var result struct {
		Updated []string `json:"updated"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("failed to decode bulk response: %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0] != "emp1" {
		t.Fatalf("expected only emp1 updated, got %v", result.Updated)
	}
}

func TestPayrollJourney(t *testing.T) {
	ts, st := newTestApp(t)
	seedUser(t, st, "hr1", "hr@clinic.test", "hr_admin", "Admin123!")
	seedUser(t, st, "emp1", "emp@clinic.test", "employee", "Employee123!")
	seedUser(t, st, "emp2", "emp2@clinic.test", "employee", "Employee123!")

	hrToken := login(t, ts, "hr@clinic.test", "Admin123!")
	empToken := login(t, ts, "emp@clinic.test", "Employee123!")
	emp2Token := login(t, ts, "emp2@clinic.test", "Employee123!")

	// Employees cannot generate payroll.
	postJSON(t, ts, "/payroll", empToken, map[string]any{
		"employee_uid": "emp1",
		"period_start": "2024-03-01",
		"period_end":   "2024-03-15",
		"cutoff":       "1st Cutoff",
	}, http.StatusForbidden)

	resp := postJSON(t, ts, "/payroll", hrToken, map[string]any{
		"employee_uid": "emp1",
		"period_start": "2024-03-01",
		"period_end":   "2024-03-15",
		"cutoff":       "1st Cutoff",
		"basic_pay":    10000.0,
		"ot_pay":       500.0,
		"incentives":   200.0,
	}, http.StatusCreated)
	var created struct {
		ID       string  `json:"id"`
		GrossPay float64 `json:"gross_pay"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode payroll response: %v", err)
	}
	if created.GrossPay != 10700 {
		t.Fatalf("expected gross pay 10700, got %v", created.GrossPay)
	}

	listResp := getJSON(t, ts, "/payroll/me", empToken, http.StatusOK)
	var listed struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	if err := json.Unmarshal(listResp.Data, &listed); err != nil {
		t.Fatalf("failed to decode payroll list: %v", err)
	}
	if len(listed.Records) != 1 || listed.Records[0].ID != created.ID {
		t.Fatalf("expected own payroll entry, got %+v", listed.Records)
	}

	// Owner downloads the payslip; another employee may not.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/payroll/emp1/"+created.ID+"/payslip", nil)
	if err != nil {
		t.Fatalf("failed to build payslip request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+empToken)
	pdfResp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("payslip request failed: %v", err)
	}
	defer pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusOK {
		t.Fatalf("expected payslip status 200, got %d", pdfResp.StatusCode)
	}
	if ct := pdfResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	pdfBytes, err := io.ReadAll(pdfResp.Body)
	if err != nil {
		t.Fatalf("failed to read payslip: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("expected PDF payload")
	}

	getJSON(t, ts, "/payroll/emp1/"+created.ID+"/payslip", emp2Token, http.StatusForbidden)
	getJSON(t, ts, "/payroll/emp1", empToken, http.StatusForbidden)
}

func TestUserManagementJourney(t *testing.T) {
	ts, st := newTestApp(t)
	seedUser(t, st, "root1", "root@clinic.test", "super_admin", "Root123!")
	seedUser(t, st, "emp1", "emp@clinic.test", "employee", "Employee123!")

	rootToken := login(t, ts, "root@clinic.test", "Root123!")
	empToken := login(t, ts, "emp@clinic.test", "Employee123!")

	getJSON(t, ts, "/users", empToken, http.StatusForbidden)

	postJSON(t, ts, "/users", rootToken, map[string]any{
		"uid":          "emp2",
		"display_name": "New Hire",
		"email":        "hire@clinic.test",
		"role":         "employee",
		"employee_id":  "EMP-0002",
		"password":     "Welcome123!",
	}, http.StatusCreated)

	// Creating a second profile at the same uid is a conflict.
	env := postJSON(t, ts, "/users", rootToken, map[string]any{
		"uid":          "emp2",
		"display_name": "Duplicate",
		"email":        "dup@clinic.test",
		"role":         "employee",
		"employee_id":  "EMP-0003",
	}, http.StatusBadRequest)
	if env.Error == nil || env.Error.Code != "conflict" {
		t.Fatalf("expected conflict error, got %+v", env.Error)
	}

	// The new hire can log in right away.
	login(t, ts, "hire@clinic.test", "Welcome123!")

	doJSON(t, ts, http.MethodPut, "/users/emp2/status", rootToken,
		map[string]any{"status": "inactive"}, http.StatusOK)

	env = doJSON(t, ts, http.MethodPut, "/users/emp2/status", rootToken,
		map[string]any{"status": "terminated"}, http.StatusBadRequest)
	if env.Error == nil || env.Error.Code != "invalid_status" {
		t.Fatalf("expected invalid_status error, got %+v", env.Error)
	}

	// Inactive accounts are locked out of login.
	postJSON(t, ts, "/auth/login", "", map[string]any{
		"email":    "hire@clinic.test",
		"password": "Welcome123!",
	}, http.StatusUnauthorized)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts, _ := newTestApp(t)

	env := getJSON(t, ts, "/attendance/me", "", http.StatusUnauthorized)
	if env.Error == nil || env.Error.Code != "unauthorized" {
		t.Fatalf("expected unauthorized error, got %+v", env.Error)
	}

	env = getJSON(t, ts, "/users/me", "garbage-token", http.StatusUnauthorized)
	if env.Error == nil || env.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token error, got %+v", env.Error)
	}
}
