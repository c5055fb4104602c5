package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/internal/core"
	"fieldops/internal/store/memory"
	"fieldops/internal/timeutil"

	"github.com/shopspring/decimal"
)

// testNow is 2026-03-10 16:30 IST.
var testNow = time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

func testClock() timeutil.FixedClock {
	loc, _ := timeutil.LoadLocation(timeutil.DefaultZone)
	return timeutil.FixedClock{T: testNow.In(loc)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func setupMemory(t *testing.T) (*memory.Store, context.Context) {
	t.Helper()
	return memory.New(), context.Background()
}

func addEmployee(t *testing.T, ctx context.Context, store core.Store, name, salary string) *core.Employee {
	t.Helper()
	svc := core.NewEmployeeService(store, testClock())
	e, err := svc.CreateEmployee(ctx, core.Employee{Name: name, Salary: dec(salary)})
	if err != nil {
		t.Fatalf("CreateEmployee(%s) failed: %v", name, err)
	}
	return e
}

func asValidation(err error, target **core.ValidationError) bool {
	return errors.As(err, target)
}
