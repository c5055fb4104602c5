package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/internal/core"
	"fieldops/internal/store/memory"
)

func strPtr(s string) *string { return &s }

func createBooking(t *testing.T, ctx context.Context, svc core.TaskService, amount string) *core.Booking {
	t.Helper()
	b, err := svc.CreateBooking(ctx, core.Booking{
		CustomerName: "Suresh",
		ServiceName:  "Deep Cleaning",
		BookingDate:  "2026-03-10",
		TotalAmount:  dec(amount),
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	return b
}

func TestLatestAssignment_PicksNewestWithEmployee(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	as := []core.TaskAssignment{
		{ID: "a1", BookingID: "b", EmployeeID: strPtr("e1"), CreatedAt: t1},
		{ID: "a3", BookingID: "b", EmployeeID: strPtr("e3"), CreatedAt: t1.Add(2 * time.Hour)},
		{ID: "a2", BookingID: "b", EmployeeID: strPtr("e2"), CreatedAt: t1.Add(time.Hour)},
		{ID: "a4", BookingID: "b", EmployeeID: nil, CreatedAt: t1.Add(3 * time.Hour)},
	}
	got := core.LatestAssignment(as)
	if got == nil || got.ID != "a3" {
		t.Fatalf("LatestAssignment = %v, want a3", got)
	}
}

func TestLatestAssignment_TieBreaksOnID(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	as := []core.TaskAssignment{
		{ID: "b", EmployeeID: strPtr("e1"), CreatedAt: t1},
		{ID: "c", EmployeeID: strPtr("e2"), CreatedAt: t1},
		{ID: "a", EmployeeID: strPtr("e3"), CreatedAt: t1},
	}
	if got := core.LatestAssignment(as); got == nil || got.ID != "c" {
		t.Fatalf("LatestAssignment = %v, want c", got)
	}
	if got := core.LatestAssignment(nil); got != nil {
		t.Fatalf("LatestAssignment(nil) = %v, want nil", got)
	}
}

func TestCurrentAssignment_PointerWins(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := &core.Booking{ID: "b", CurrentAssignmentID: strPtr("a1")}
	as := []core.TaskAssignment{
		{ID: "a1", BookingID: "b", EmployeeID: strPtr("e1"), CreatedAt: t1},
		{ID: "a2", BookingID: "b", EmployeeID: strPtr("e2"), CreatedAt: t1.Add(time.Hour)},
	}
	if got := core.CurrentAssignment(b, as); got == nil || got.ID != "a1" {
		t.Fatalf("CurrentAssignment = %v, want a1", got)
	}
	b.CurrentAssignmentID = strPtr("missing")
	if got := core.CurrentAssignment(b, as); got == nil || got.ID != "a2" {
		t.Fatalf("CurrentAssignment with dangling pointer = %v, want a2", got)
	}
}

// seedLegacyAssignments writes three assignments without maintaining the
// booking's current pointer, as rows imported from before it existed.
func seedLegacyAssignments(t *testing.T, ctx context.Context, store *memory.Store, bookingID string, emps ...*core.Employee) []*core.TaskAssignment {
	t.Helper()
	base := testNow.Add(-3 * time.Hour)
	var out []*core.TaskAssignment
	for i, e := range emps {
		a := &core.TaskAssignment{
			BookingID:  bookingID,
			EmployeeID: strPtr(e.ID),
			Status:     core.AssignmentAssigned,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.CreateAssignment(ctx, a); err != nil {
			t.Fatalf("CreateAssignment failed: %v", err)
		}
		out = append(out, a)
	}
	return out
}

func TestUpdateTaskStatus_LatestAssignmentIsCredited(t *testing.T) {
	store, ctx := setupMemory(t)
	e1 := addEmployee(t, ctx, store, "E1", "10000")
	e2 := addEmployee(t, ctx, store, "E2", "10000")
	e3 := addEmployee(t, ctx, store, "E3", "10000")
	svc := core.NewTaskService(store, nil, testClock(), nil)
	b := createBooking(t, ctx, svc, "2500")
	as := seedLegacyAssignments(t, ctx, store, b.ID, e1, e2, e3)

	board, err := svc.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(board.Assigned) != 1 || board.Assigned[0].Assignment.EmployeeName != "E3" {
		t.Fatalf("expected E3 displayed as assignee, got %+v", board.Assigned)
	}

	_, err = svc.UpdateTaskStatus(ctx, as[0].ID, core.AssignmentCompleted)
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected superseded assignment to be rejected, got %v", err)
	}

	res, err := svc.UpdateTaskStatus(ctx, as[2].ID, core.AssignmentCompleted)
	if err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if res.ManagerRevenue == nil || res.ManagerRevenue.ManagerID != e3.ID {
		t.Fatalf("expected E3 credited, got %+v", res.ManagerRevenue)
	}
	for _, e := range []*core.Employee{e1, e2} {
		if _, err := store.GetManagerRevenue(ctx, e.ID, "2026-03-10"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("%s should not be credited: %v", e.Name, err)
		}
	}
}

func TestUpdateTaskStatus_CreditsOncePerBooking(t *testing.T) {
	store, ctx := setupMemory(t)
	mgr := addEmployee(t, ctx, store, "Meena", "30000")
	svc := core.NewTaskService(store, nil, testClock(), nil)
	b := createBooking(t, ctx, svc, "2500")

	a, err := svc.AssignEmployee(ctx, b.ID, mgr.ID, "priority")
	if err != nil {
		t.Fatalf("AssignEmployee failed: %v", err)
	}
	if _, err := svc.UpdateTaskStatus(ctx, a.ID, core.AssignmentInProgress); err != nil {
		t.Fatalf("UpdateTaskStatus(in progress) failed: %v", err)
	}
	first, err := svc.UpdateTaskStatus(ctx, a.ID, core.AssignmentCompleted)
	if err != nil {
		t.Fatalf("UpdateTaskStatus(completed) failed: %v", err)
	}
	if first.ManagerRevenue == nil {
		t.Fatal("expected a manager credit on first completion")
	}
	second, err := svc.UpdateTaskStatus(ctx, a.ID, core.AssignmentCompleted)
	if err != nil {
		t.Fatalf("second completion failed: %v", err)
	}
	if second.ManagerRevenue != nil {
		t.Error("expected no credit on repeated completion")
	}

	rev, err := store.GetManagerRevenue(ctx, mgr.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetManagerRevenue failed: %v", err)
	}
	if !rev.RevenueGenerated.Equal(dec("2500")) || rev.TasksReceived != 1 {
		t.Errorf("got %s / %d, want 2500 / 1", rev.RevenueGenerated, rev.TasksReceived)
	}
	got, err := store.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.Status != core.BookingCompleted || !got.RevenueProcessed {
		t.Errorf("booking = %s processed=%v", got.Status, got.RevenueProcessed)
	}
}

func TestUpdateTaskStatus_ZeroAmountSkipsCredit(t *testing.T) {
	store, ctx := setupMemory(t)
	mgr := addEmployee(t, ctx, store, "Meena", "30000")
	svc := core.NewTaskService(store, nil, testClock(), nil)
	b := createBooking(t, ctx, svc, "0")

	a, err := svc.AssignEmployee(ctx, b.ID, mgr.ID, "")
	if err != nil {
		t.Fatalf("AssignEmployee failed: %v", err)
	}
	res, err := svc.UpdateTaskStatus(ctx, a.ID, core.AssignmentCompleted)
	if err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	if res.ManagerRevenue != nil || res.Booking.Status != core.BookingCompleted {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestUpdateTaskStatus_CreditFailureRollsBack(t *testing.T) {
	store, ctx := setupMemory(t)
	mgr := addEmployee(t, ctx, store, "Meena", "30000")
	svc := core.NewTaskService(store, nil, testClock(), nil)
	b := createBooking(t, ctx, svc, "1200")
	a, err := svc.AssignEmployee(ctx, b.ID, mgr.ID, "")
	if err != nil {
		t.Fatalf("AssignEmployee failed: %v", err)
	}

	store.InjectFault("MarkRevenueProcessed", errors.New("timeout"))
	if _, err := svc.UpdateTaskStatus(ctx, a.ID, core.AssignmentCompleted); err == nil {
		t.Fatal("expected failure")
	}

	got, err := store.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.Status == core.BookingCompleted || got.RevenueProcessed {
		t.Errorf("booking changed despite rollback: %+v", got)
	}
	if _, err := store.GetManagerRevenue(ctx, mgr.ID, "2026-03-10"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("manager credit survived rollback: %v", err)
	}
}

func TestAssignEmployee_Rules(t *testing.T) {
	store, ctx := setupMemory(t)
	active := addEmployee(t, ctx, store, "Ravi", "15000")
	svc := core.NewTaskService(store, nil, testClock(), nil)
	employees := core.NewEmployeeService(store, testClock())
	inactive, err := employees.CreateEmployee(ctx, core.Employee{Name: "Old", Status: core.EmployeeInactive})
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	b := createBooking(t, ctx, svc, "800")

	if _, err := svc.AssignEmployee(ctx, b.ID, inactive.ID, ""); err == nil {
		t.Error("expected inactive employee to be rejected")
	}
	if _, err := svc.AssignEmployee(ctx, "missing", active.ID, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing booking, got %v", err)
	}

	first, err := svc.AssignEmployee(ctx, b.ID, active.ID, "")
	if err != nil {
		t.Fatalf("AssignEmployee failed: %v", err)
	}
	second, err := svc.AssignEmployee(ctx, b.ID, active.ID, "reassigned")
	if err != nil {
		t.Fatalf("AssignEmployee failed: %v", err)
	}
	got, err := store.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.CurrentAssignmentID == nil || *got.CurrentAssignmentID != second.ID {
		t.Errorf("current assignment = %v, want %s (not %s)", got.CurrentAssignmentID, second.ID, first.ID)
	}
}

func TestUpdateBookingPayment(t *testing.T) {
	store, ctx := setupMemory(t)
	svc := core.NewTaskService(store, nil, testClock(), nil)
	b := createBooking(t, ctx, svc, "800")

	got, err := svc.UpdateBookingPayment(ctx, b.ID, core.PaymentPartial, decPtr("300"))
	if err != nil {
		t.Fatalf("UpdateBookingPayment failed: %v", err)
	}
	if got.PaymentStatus != core.PaymentPartial || !got.AmountPaid.Equal(dec("300")) {
		t.Errorf("got %s / %s", got.PaymentStatus, got.AmountPaid)
	}
	if _, err := svc.UpdateBookingPayment(ctx, b.ID, "Owed", nil); err == nil {
		t.Error("expected unknown status to be rejected")
	}
}

func TestListTasks_UnassignedBookings(t *testing.T) {
	store, ctx := setupMemory(t)
	svc := core.NewTaskService(store, nil, testClock(), nil)
	createBooking(t, ctx, svc, "100")

	board, err := svc.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(board.Unassigned) != 1 || len(board.Assigned) != 0 {
		t.Errorf("board = %d assigned / %d unassigned", len(board.Assigned), len(board.Unassigned))
	}
}
