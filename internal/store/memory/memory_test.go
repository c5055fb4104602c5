package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/internal/core"
	"fieldops/internal/store/memory"

	"github.com/shopspring/decimal"
)

func employee(name string) *core.Employee {
	return &core.Employee{
		Name:      name,
		Salary:    decimal.NewFromInt(15000),
		Status:    core.EmployeeActive,
		CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func countEmployees(t *testing.T, store *memory.Store) int {
	t.Helper()
	emps, err := store.ListEmployees(context.Background(), false)
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	return len(emps)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	ravi := employee("Ravi")
	if err := store.CreateEmployee(ctx, ravi); err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx core.Store) error {
		if err := tx.CreateEmployee(ctx, employee("Kiran")); err != nil {
			return err
		}
		if _, err := tx.AddDailySalary(ctx, ravi.ID, "2026-03-10", decimal.NewFromInt(300), "credit"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if n := countEmployees(t, store); n != 1 {
		t.Errorf("expected 1 employee after rollback, got %d", n)
	}
	if _, err := store.GetDailySalary(ctx, ravi.ID, "2026-03-10"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected salary write rolled back, got %v", err)
	}
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.InTx(ctx, func(tx core.Store) error {
		return tx.CreateEmployee(ctx, employee("Ravi"))
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if n := countEmployees(t, store); n != 1 {
		t.Errorf("expected 1 employee after commit, got %d", n)
	}
}

func TestInTx_NestedReusesOuterTx(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.InTx(ctx, func(outer core.Store) error {
		if err := outer.InTx(ctx, func(inner core.Store) error {
			return inner.CreateEmployee(ctx, employee("Ravi"))
		}); err != nil {
			return err
		}
		emps, err := outer.ListEmployees(ctx, false)
		if err != nil {
			return err
		}
		if len(emps) != 1 {
			t.Errorf("inner write not visible to outer tx: %d employees", len(emps))
		}
		return outer.CreateEmployee(ctx, employee("Kiran"))
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if n := countEmployees(t, store); n != 2 {
		t.Errorf("expected 2 employees after commit, got %d", n)
	}
}

func TestInTx_NestedErrorRollsBackOuter(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(outer core.Store) error {
		if err := outer.CreateEmployee(ctx, employee("Ravi")); err != nil {
			return err
		}
		return outer.InTx(ctx, func(inner core.Store) error {
			if err := inner.CreateEmployee(ctx, employee("Kiran")); err != nil {
				return err
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := countEmployees(t, store); n != 0 {
		t.Errorf("expected no employees after rollback, got %d", n)
	}
}

func TestInTx_CancelledContext(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.InTx(ctx, func(tx core.Store) error {
		called = true
		return nil
	})
	var se *core.StoreError
	if !errors.As(err, &se) || se.Code != core.CodeUnavailable {
		t.Fatalf("expected unavailable StoreError, got %v", err)
	}
	if called {
		t.Error("fn ran despite cancelled context")
	}
}

func TestInjectFault_FiresOnce(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.InjectFault("CreateEmployee", errors.New("connection reset"))

	err := store.CreateEmployee(ctx, employee("Ravi"))
	var se *core.StoreError
	if !errors.As(err, &se) || se.Code != core.CodeUnavailable {
		t.Fatalf("expected unavailable StoreError, got %v", err)
	}
	if n := countEmployees(t, store); n != 0 {
		t.Errorf("failed call wrote a row: %d employees", n)
	}

	if err := store.CreateEmployee(ctx, employee("Ravi")); err != nil {
		t.Fatalf("second CreateEmployee: %v", err)
	}
	if n := countEmployees(t, store); n != 1 {
		t.Errorf("expected 1 employee, got %d", n)
	}
}

func TestInjectFault_InsideTxRollsBack(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	ravi := employee("Ravi")
	if err := store.CreateEmployee(ctx, ravi); err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	store.InjectFault("AddDailySalary", errors.New("connection reset"))

	err := store.InTx(ctx, func(tx core.Store) error {
		if err := tx.CreateEmployee(ctx, employee("Kiran")); err != nil {
			return err
		}
		_, err := tx.AddDailySalary(ctx, ravi.ID, "2026-03-10", decimal.NewFromInt(300), "credit")
		return err
	})
	if err == nil {
		t.Fatal("expected injected fault")
	}
	if n := countEmployees(t, store); n != 1 {
		t.Errorf("expected Kiran rolled back, got %d employees", n)
	}
}
