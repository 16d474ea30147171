package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hrms/internal/app/server"
	"hrms/internal/platform/config"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"requestId"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "test",
		TempPasswordLength: 10,
		TokenTTL:           time.Hour,
		PayslipDir:         "storage/payslips-test",
		RunMigrations:      true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func TestCompanyToPayslipJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	suffix := time.Now().UnixNano()
	companyEmail := fmt.Sprintf("hr-%d@acme.test", suffix)
	companyCode := fmt.Sprintf("A%d", suffix%100000)

	// Register and log in as the company admin.
	postJSON(t, client, ts.URL+"/api/company/register", "", http.StatusCreated, map[string]any{
		"name":     "Acme Corp",
		"code":     companyCode,
		"email":    companyEmail,
		"password": "CompanyPass1!",
	})
	loginResp := postJSON(t, client, ts.URL+"/api/company/login", "", http.StatusOK, map[string]any{
		"email":    companyEmail,
		"password": "CompanyPass1!",
	})
	adminToken := tokenFrom(t, loginResp)

	// Create an employee; the response carries the one-time credentials.
	createResp := postJSON(t, client, ts.URL+"/api/employees", adminToken, http.StatusCreated, map[string]any{
		"firstName":   "John",
		"lastName":    "Doe",
		"email":       fmt.Sprintf("john-%d@acme.test", suffix),
		"department":  "Engineering",
		"designation": "Engineer",
		"grossSalary": 50000,
		"role":        "employee",
	})
	var created struct {
		Employee struct {
			ID             string `json:"id"`
			EmployeeNumber string `json:"employeeNumber"`
		} `json:"employee"`
		LoginID      string `json:"loginId"`
		TempPassword string `json:"tempPassword"`
	}
	if err := json.Unmarshal(createResp.Data, &created); err != nil {
		t.Fatalf("decode create employee: %v", err)
	}
	if created.LoginID == "" || created.TempPassword == "" {
		t.Fatal("expected issued credentials")
	}

	// The employee can log in with the issued credentials.
	empLogin := postJSON(t, client, ts.URL+"/api/auth/login", "", http.StatusOK, map[string]any{
		"loginId":  created.LoginID,
		"password": created.TempPassword,
	})
	empToken := tokenFrom(t, empLogin)

	// Employees cannot create employees.
	postJSON(t, client, ts.URL+"/api/employees", empToken, http.StatusForbidden, map[string]any{
		"firstName": "Nope", "lastName": "Nope", "email": "nope@acme.test", "grossSalary": 1,
	})

	// Attendance and leave.
	postJSON(t, client, ts.URL+"/api/attendance/mark", empToken, http.StatusCreated, map[string]any{
		"employeeId": created.Employee.ID,
		"date":       "2026-08-03",
		"status":     "present",
	})
	// Leave type is free text, not a fixed enum.
	leaveResp := postJSON(t, client, ts.URL+"/api/leave/request", empToken, http.StatusCreated, map[string]any{
		"employeeId": created.Employee.ID,
		"type":       "paternity leave",
		"startDate":  "2026-08-10",
		"endDate":    "2026-08-12",
		"reason":     "Rest",
	})
	var leaveReq struct {
		ID   string `json:"id"`
		Days int    `json:"days"`
	}
	if err := json.Unmarshal(leaveResp.Data, &leaveReq); err != nil {
		t.Fatalf("decode leave request: %v", err)
	}
	if leaveReq.Days != 3 {
		t.Fatalf("expected 3 leave days, got %d", leaveReq.Days)
	}

	putJSON(t, client, ts.URL+"/api/leave/"+leaveReq.ID+"/approve", adminToken, http.StatusOK, nil)
	// A second decision must be refused.
	putJSON(t, client, ts.URL+"/api/leave/"+leaveReq.ID+"/reject", adminToken, http.StatusConflict, nil)

	// The employee cannot see a payslip before processing.
	getJSON(t, client, ts.URL+"/api/payslip/"+created.Employee.ID, empToken, http.StatusNotFound)

	// Process payroll under the default 12/10 settings.
	processResp := postJSON(t, client, ts.URL+"/api/payroll/process/"+created.Employee.ID, adminToken, http.StatusOK, nil)
	var processed struct {
		Deductions float64 `json:"deductions"`
		NetPay     float64 `json:"netPay"`
		Status     string  `json:"status"`
	}
	if err := json.Unmarshal(processResp.Data, &processed); err != nil {
		t.Fatalf("decode payroll: %v", err)
	}
	if processed.Deductions != 11000 || processed.NetPay != 39000 {
		t.Fatalf("payroll figures = %+v", processed)
	}
	if processed.Status != "processed" {
		t.Fatalf("payroll status = %s", processed.Status)
	}

	// Payslip is now visible to the employee.
	getJSON(t, client, ts.URL+"/api/payslip/"+created.Employee.ID, empToken, http.StatusOK)

	// Employee summary fields reflect the processed payroll.
	empResp := getJSON(t, client, ts.URL+"/api/employees/"+created.Employee.ID, adminToken, http.StatusOK)
	var emp struct {
		Deductions     float64 `json:"deductions"`
		NetPay         float64 `json:"netPay"`
		AttendanceDays int     `json:"attendanceDays"`
		ApprovedLeaves int     `json:"approvedLeaves"`
	}
	if err := json.Unmarshal(empResp.Data, &emp); err != nil {
		t.Fatalf("decode employee: %v", err)
	}
	if emp.Deductions != 11000 || emp.NetPay != 39000 {
		t.Fatalf("employee payroll fields = %+v", emp)
	}
	if emp.AttendanceDays != 1 || emp.ApprovedLeaves != 1 {
		t.Fatalf("employee counters = %+v", emp)
	}

	// Lookup by employee number resolves the same employee.
	byNumber := getJSON(t, client, ts.URL+"/api/employees/number/"+created.Employee.EmployeeNumber, adminToken, http.StatusOK)
	var numbered struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(byNumber.Data, &numbered); err != nil {
		t.Fatalf("decode employee by number: %v", err)
	}
	if numbered.ID != created.Employee.ID {
		t.Fatalf("lookup by number resolved %q, want %q", numbered.ID, created.Employee.ID)
	}

	// The company profile is visible to authenticated actors.
	profileResp := getJSON(t, client, ts.URL+"/api/company/me", empToken, http.StatusOK)
	var profile struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(profileResp.Data, &profile); err != nil {
		t.Fatalf("decode company profile: %v", err)
	}
	if profile.Code != companyCode {
		t.Fatalf("company code = %q, want %q", profile.Code, companyCode)
	}

	// Reports include the processed run.
	reportResp := getJSON(t, client, ts.URL+"/api/payroll/reports", adminToken, http.StatusOK)
	var report struct {
		Trend       []map[string]any `json:"trend"`
		TotalPayout float64          `json:"totalPayout"`
	}
	if err := json.Unmarshal(reportResp.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Trend) == 0 || report.TotalPayout < 39000 {
		t.Fatalf("report = %+v", report)
	}
}

func TestDuplicateCompanyCodeRejected(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	suffix := time.Now().UnixNano()
	code := fmt.Sprintf("D%d", suffix%100000)
	body := map[string]any{
		"name":     "Dup Co",
		"code":     code,
		"email":    fmt.Sprintf("dup-%d@dup.test", suffix),
		"password": "CompanyPass1!",
	}
	postJSON(t, ts.Client(), ts.URL+"/api/company/register", "", http.StatusCreated, body)

	body["email"] = fmt.Sprintf("dup2-%d@dup.test", suffix)
	postJSON(t, ts.Client(), ts.URL+"/api/company/register", "", http.StatusConflict, body)
}

func postJSON(t *testing.T, client *http.Client, url, token string, wantStatus int, payload map[string]any) envelope {
	t.Helper()
	return sendJSON(t, client, http.MethodPost, url, token, wantStatus, payload)
}

func putJSON(t *testing.T, client *http.Client, url, token string, wantStatus int, payload map[string]any) envelope {
	t.Helper()
	return sendJSON(t, client, http.MethodPut, url, token, wantStatus, payload)
}

func sendJSON(t *testing.T, client *http.Client, method, url, token string, wantStatus int, payload map[string]any) envelope {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, client, req, wantStatus)
}

func getJSON(t *testing.T, client *http.Client, url, token string, wantStatus int) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, client, req, wantStatus)
}

func doRequest(t *testing.T, client *http.Client, req *http.Request, wantStatus int) envelope {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d, body %s", req.Method, req.URL.Path, resp.StatusCode, wantStatus, raw)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode envelope: %v, body %s", err, raw)
		}
	}
	return env
}

func tokenFrom(t *testing.T, env envelope) string {
	t.Helper()
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}
