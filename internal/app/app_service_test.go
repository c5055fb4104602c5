package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/internal/app"
	"fieldops/internal/core"
	"fieldops/internal/store/memory"
	"fieldops/internal/timeutil"

	"github.com/shopspring/decimal"
)

func setupApp(t *testing.T) (app.ApplicationService, *memory.Store, context.Context) {
	t.Helper()
	store := memory.New()
	loc, _ := timeutil.LoadLocation(timeutil.DefaultZone)
	// 2026-03-31 20:00 UTC is already 1 April in the business zone.
	clock := timeutil.FixedClock{T: time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC).In(loc)}
	return app.NewAppService(store, nil, clock, nil), store, context.Background()
}

func newRecord(t *testing.T, ctx context.Context, svc app.ApplicationService, amount int64, doneBy ...string) *core.CustomerRecord {
	t.Helper()
	rec, err := svc.CreateCustomerRecord(ctx, app.CreateCustomerRecordRequest{
		Name:        "Anita",
		Phone:       "9000000001",
		Address:     "12 Lake Road",
		BookingDate: "2026-04-01",
		Amount:      decimal.NewFromInt(amount),
		TaskDoneBy:  doneBy,
	})
	if err != nil {
		t.Fatalf("CreateCustomerRecord failed: %v", err)
	}
	return rec
}

func TestApp_CurrentMonthUsesBusinessZone(t *testing.T) {
	svc, _, ctx := setupApp(t)
	if svc.CurrentMonth() != "2026-04" || svc.Today() != "2026-04-01" {
		t.Fatalf("got %s / %s, want 2026-04 / 2026-04-01", svc.CurrentMonth(), svc.Today())
	}
	res, err := svc.GetAccountsSummary(ctx, "")
	if err != nil {
		t.Fatalf("GetAccountsSummary failed: %v", err)
	}
	if res.Summary.Month != "2026-04" {
		t.Errorf("summary month = %s, want 2026-04", res.Summary.Month)
	}
}

func TestApp_ValidationUsesJSONFieldNames(t *testing.T) {
	svc, _, ctx := setupApp(t)

	cases := []struct {
		name  string
		call  func() error
		field string
	}{
		{"missing booking date", func() error {
			_, err := svc.CreateBooking(ctx, app.CreateBookingRequest{CustomerName: "A", ServiceName: "B"})
			return err
		}, "booking_date"},
		{"bad task status", func() error {
			_, err := svc.UpdateTaskStatus(ctx, app.UpdateTaskStatusRequest{AssignmentID: "x", Status: "Done"})
			return err
		}, "status"},
		{"bad payment status", func() error {
			_, err := svc.UpdatePaymentStatus(ctx, app.UpdatePaymentRequest{ID: "x", PaymentStatus: "Owed"})
			return err
		}, "payment_status"},
		{"bad month", func() error {
			_, err := svc.SaveExpenseSheet(ctx, app.SaveExpenseSheetRequest{Month: "2026-3"})
			return err
		}, "month"},
		{"bad email", func() error {
			_, err := svc.CreateBooking(ctx, app.CreateBookingRequest{
				CustomerName: "A", ServiceName: "B", BookingDate: "2026-04-01", CustomerEmail: "nope",
			})
			return err
		}, "customer_email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ve *core.ValidationError
			if err := tc.call(); !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
		})
	}
}

func TestApp_TaskStatusAcceptsInProgress(t *testing.T) {
	svc, _, ctx := setupApp(t)
	emp, err := svc.CreateEmployee(ctx, app.CreateEmployeeRequest{Name: "Meena", Salary: decimal.NewFromInt(30000)})
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	b, err := svc.CreateBooking(ctx, app.CreateBookingRequest{
		CustomerName: "Suresh", ServiceName: "Deep Cleaning", BookingDate: "2026-04-01",
		TotalAmount: decimal.NewFromInt(1500),
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	a, err := svc.AssignEmployee(ctx, app.AssignEmployeeRequest{BookingID: b.ID, EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("AssignEmployee failed: %v", err)
	}
	res, err := svc.UpdateTaskStatus(ctx, app.UpdateTaskStatusRequest{AssignmentID: a.ID, Status: "In Progress"})
	if err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if res.Assignment.Status != core.AssignmentInProgress {
		t.Errorf("status = %s", res.Assignment.Status)
	}
}

func TestApp_CompleteTasksReportsPartialEffect(t *testing.T) {
	svc, store, ctx := setupApp(t)
	if _, err := svc.CreateEmployee(ctx, app.CreateEmployeeRequest{Name: "Ravi"}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	first := newRecord(t, ctx, svc, 400, "Ravi")
	second := newRecord(t, ctx, svc, 600, "Ravi")

	out, err := svc.CompleteTasks(ctx, []string{first.ID, "missing", second.ID})
	var pe *core.PartialEffectError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PartialEffectError, got %v", err)
	}
	if len(pe.Applied) != 1 || pe.Applied[0] != first.ID {
		t.Errorf("applied = %v, want [%s]", pe.Applied, first.ID)
	}
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected cause to be ErrNotFound, got %v", pe.Err)
	}
	if out == nil || len(out.Completions) != 1 {
		t.Errorf("expected one completion in the partial result, got %+v", out)
	}

	got, err := store.GetCustomerRecord(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetCustomerRecord failed: %v", err)
	}
	if got.TaskCompleted {
		t.Error("records after the failure must be left untouched")
	}
}

func TestApp_CompleteTasksFirstFailureIsPlainError(t *testing.T) {
	svc, _, ctx := setupApp(t)

	_, err := svc.CompleteTasks(ctx, []string{"missing"})
	var pe *core.PartialEffectError
	if errors.As(err, &pe) {
		t.Fatalf("nothing was applied; got PartialEffectError %v", err)
	}
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApp_ManagerExpenseDefaultsToToday(t *testing.T) {
	svc, _, ctx := setupApp(t)
	emp, err := svc.CreateEmployee(ctx, app.CreateEmployeeRequest{Name: "Meena"})
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	rec, err := svc.RecordManagerExpense(ctx, app.ManagerExpenseRequest{EmployeeID: emp.ID, Amount: decimal.NewFromInt(250)})
	if err != nil {
		t.Fatalf("RecordManagerExpense failed: %v", err)
	}
	if rec.Date != "2026-04-01" || !rec.Profit.Equal(decimal.NewFromInt(-250)) {
		t.Errorf("got %s profit %s", rec.Date, rec.Profit)
	}
}

func TestApp_ListCustomerRecordsByMonth(t *testing.T) {
	svc, _, ctx := setupApp(t)
	newRecord(t, ctx, svc, 100)

	res, err := svc.ListCustomerRecords(ctx, "2026-04")
	if err != nil {
		t.Fatalf("ListCustomerRecords failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Errorf("april: %d records", len(res.Records))
	}
	res, err = svc.ListCustomerRecords(ctx, "2026-03")
	if err != nil {
		t.Fatalf("ListCustomerRecords failed: %v", err)
	}
	if len(res.Records) != 0 {
		t.Errorf("march: %d records", len(res.Records))
	}
}
