package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fieldops/internal/adapters/web"
	"fieldops/internal/app"
	"fieldops/internal/core"
	"fieldops/internal/store/memory"
	"fieldops/internal/timeutil"

	"github.com/shopspring/decimal"
)

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string) (func(), error) {
	return nil, core.ErrBusy
}

func newServer(t *testing.T, locker core.Locker) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	loc, _ := timeutil.LoadLocation(timeutil.DefaultZone)
	clock := timeutil.FixedClock{T: time.Date(2026, 4, 10, 6, 0, 0, 0, time.UTC).In(loc)}
	svc := app.NewAppService(store, locker, clock, nil)
	return web.NewHandler(svc, []string{"http://localhost:5173"}, nil), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type apiError struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Field     string   `json:"field"`
	Applied   []string `json:"applied"`
	RequestID string   `json:"request_id"`
}

func createEmployee(t *testing.T, h http.Handler, name string) core.Employee {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/employees", map[string]any{"name": name, "salary": "20000"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create employee: %d %s", rec.Code, rec.Body.String())
	}
	return decode[core.Employee](t, rec)
}

func createRecord(t *testing.T, h http.Handler, amount string, doneBy ...string) core.CustomerRecord {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/customer-records", map[string]any{
		"name":         "Anita",
		"phone":        "9000000001",
		"address":      "12 Lake Road",
		"booking_date": "2026-04-10",
		"amount":       amount,
		"task_done_by": doneBy,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer record: %d %s", rec.Code, rec.Body.String())
	}
	return decode[core.CustomerRecord](t, rec)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	h, _ := newServer(t, nil)
	rec := do(t, h, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["status"] != "ok" || body["today"] != "2026-04-10" {
		t.Errorf("unexpected body %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h, _ := newServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/customer-records/none/complete", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	body := decode[apiError](t, rec)
	if body.RequestID != "abc-123" {
		t.Errorf("request_id in error body = %q", body.RequestID)
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	h, _ := newServer(t, nil)
	rec := do(t, h, http.MethodPost, "/api/bookings", map[string]any{
		"customer_name": "Suresh",
		"service_name":  "Deep Cleaning",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	body := decode[apiError](t, rec)
	if body.Code != "VALIDATION_ERROR" || body.Field != "booking_date" {
		t.Errorf("got %+v", body)
	}
}

func TestMalformedJSON(t *testing.T) {
	h, _ := newServer(t, nil)
	rec := do(t, h, http.MethodPost, "/api/employees", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode[apiError](t, rec); body.Code != "BAD_REQUEST" {
		t.Errorf("code = %s", body.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	h, _ := newServer(t, nil)
	big := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	rec := do(t, h, http.MethodPost, "/api/employees", big)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	h, _ := newServer(t, nil)
	rec := do(t, h, http.MethodPost, "/api/customer-records/does-not-exist/complete", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	if body := decode[apiError](t, rec); body.Code != "NOT_FOUND" {
		t.Errorf("code = %s", body.Code)
	}
}

func TestStoreUnavailable(t *testing.T) {
	h, store := newServer(t, nil)
	store.InjectFault("CreateEmployee", errors.New("connection refused"))

	rec := do(t, h, http.MethodPost, "/api/employees", map[string]any{"name": "Ravi"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	body := decode[apiError](t, rec)
	if body.Code != "UNAVAILABLE" || strings.Contains(body.Error, "connection refused") {
		t.Errorf("driver detail must not leak: %+v", body)
	}
}

func TestBusyLockIsConflict(t *testing.T) {
	h, _ := newServer(t, busyLocker{})
	createEmployee(t, h, "Ravi")
	cr := createRecord(t, h, "500", "Ravi")

	rec := do(t, h, http.MethodPost, "/api/customer-records/"+cr.ID+"/complete", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCompleteTaskSplitsAmount(t *testing.T) {
	h, _ := newServer(t, nil)
	createEmployee(t, h, "Ravi")
	createEmployee(t, h, "Meena")
	cr := createRecord(t, h, "1000", "Ravi", "Meena")

	rec := do(t, h, http.MethodPost, "/api/customer-records/"+cr.ID+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	got := decode[core.TaskCompletion](t, rec)
	if got.EmployeeCount != 2 || !got.PerEmployeeAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("got %+v", got)
	}

	again := decode[core.TaskCompletion](t, do(t, h, http.MethodPost, "/api/customer-records/"+cr.ID+"/complete", nil))
	if !again.AlreadyCompleted {
		t.Error("second completion should report already_completed")
	}
}

func TestBatchCompletePartialEffect(t *testing.T) {
	h, _ := newServer(t, nil)
	createEmployee(t, h, "Ravi")
	first := createRecord(t, h, "400", "Ravi")

	rec := do(t, h, http.MethodPost, "/api/customer-records/complete", map[string]any{
		"ids": []string{first.ID, "missing"},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	body := decode[apiError](t, rec)
	if body.Code != "PARTIAL_EFFECT" || len(body.Applied) != 1 || body.Applied[0] != first.ID {
		t.Errorf("got %+v", body)
	}
}

func TestBatchCompleteRequiresIDs(t *testing.T) {
	h, _ := newServer(t, nil)
	rec := do(t, h, http.MethodPost, "/api/customer-records/complete", map[string]any{"ids": []string{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExpenseSheetRoundTrip(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/expense-sheets/2026-04", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	def := decode[app.ExpenseSheetResult](t, rec)
	if def.Persisted || len(def.Sheet.DirectExpenses) != len(core.DefaultDirectExpenses) {
		t.Errorf("expected unsaved default sheet, got %+v", def)
	}

	rec = do(t, h, http.MethodPut, "/api/expense-sheets/2026-04", map[string]any{
		"month":           "2020-01",
		"direct_expenses": []map[string]any{{"type": "Petrol", "amount": "1200"}},
		"deposits":        "500",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d %s", rec.Code, rec.Body.String())
	}
	saved := decode[app.ExpenseSheetResult](t, rec)
	if saved.Sheet.Month != "2026-04" {
		t.Errorf("path month must win, got %s", saved.Sheet.Month)
	}

	summary := decode[app.SummaryResult](t, do(t, h, http.MethodGet, "/api/accounts/summary?month=2026-04", nil))
	if !summary.Summary.TotalDirectExpenses.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("direct expenses = %s", summary.Summary.TotalDirectExpenses)
	}
	if !summary.Summary.Deposits.Equal(decimal.NewFromInt(500)) {
		t.Errorf("deposits = %s", summary.Summary.Deposits)
	}
}

func TestSummaryRejectsBadMonth(t *testing.T) {
	h, _ := newServer(t, nil)
	rec := do(t, h, http.MethodGet, "/api/accounts/summary?month=April", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
}

func TestTaskWorkflowCreditsManager(t *testing.T) {
	h, _ := newServer(t, nil)
	emp := createEmployee(t, h, "Meena")

	rec := do(t, h, http.MethodPost, "/api/bookings", map[string]any{
		"customer_name": "Suresh",
		"service_name":  "Deep Cleaning",
		"booking_date":  "2026-04-10",
		"total_amount":  "1500",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rec.Code, rec.Body.String())
	}
	booking := decode[core.Booking](t, rec)

	rec = do(t, h, http.MethodPost, "/api/bookings/"+booking.ID+"/assignments", map[string]any{"employee_id": emp.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("assign: %d %s", rec.Code, rec.Body.String())
	}
	assignment := decode[core.TaskAssignment](t, rec)

	board := decode[core.TaskBoard](t, do(t, h, http.MethodGet, "/api/tasks", nil))
	if len(board.Assigned) != 1 || len(board.Unassigned) != 0 {
		t.Errorf("board = %d assigned / %d unassigned", len(board.Assigned), len(board.Unassigned))
	}

	rec = do(t, h, http.MethodPatch, "/api/assignments/"+assignment.ID+"/status", map[string]any{"status": "Completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", rec.Code, rec.Body.String())
	}
	res := decode[core.TaskStatusResult](t, rec)
	if res.ManagerRevenue == nil || !res.ManagerRevenue.RevenueGenerated.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("manager revenue = %+v", res.ManagerRevenue)
	}
}

func TestAttendanceEndpoints(t *testing.T) {
	h, _ := newServer(t, nil)
	emp := createEmployee(t, h, "Ravi")

	rec := do(t, h, http.MethodPut, "/api/attendance/"+emp.ID+"/2026-04-10", map[string]any{"status": "Present"})
	if rec.Code != http.StatusOK {
		t.Fatalf("mark: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPut, "/api/attendance/"+emp.ID+"/2026-04-10/times", map[string]any{
		"check_in_time":  "09:00",
		"check_out_time": "17:30",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("times: %d %s", rec.Code, rec.Body.String())
	}

	day := decode[core.AttendanceDay](t, do(t, h, http.MethodGet, "/api/attendance", nil))
	if day.Date != "2026-04-10" || day.Present != 1 {
		t.Errorf("got %+v", day)
	}
}

func TestEmployeesActiveFlag(t *testing.T) {
	h, _ := newServer(t, nil)
	if rec := do(t, h, http.MethodGet, "/api/employees?active=maybe", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	createEmployee(t, h, "Ravi")
	list := decode[app.EmployeeListResult](t, do(t, h, http.MethodGet, "/api/employees?active=true", nil))
	if len(list.Employees) != 1 {
		t.Errorf("employees = %d", len(list.Employees))
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	h, _ := newServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected CORS header for unlisted origin: %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newServer(t, nil)
	do(t, h, http.MethodGet, "/api/health", nil)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "fieldops_http_requests_total") {
		t.Errorf("metrics status %d", rec.Code)
	}
}
