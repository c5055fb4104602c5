package core_test

import (
	"errors"
	"testing"

	"fieldops/internal/core"
)

func TestEmployeeService_CreateAndList(t *testing.T) {
	store, ctx := setupMemory(t)
	svc := core.NewEmployeeService(store, testClock())

	if _, err := svc.CreateEmployee(ctx, core.Employee{Name: " Ravi ", Salary: dec("15000")}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if _, err := svc.CreateEmployee(ctx, core.Employee{Name: "Old", Status: core.EmployeeInactive}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	active, err := svc.ListEmployees(ctx, true)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Ravi" || active[0].Status != core.EmployeeActive {
		t.Errorf("active = %+v", active)
	}
	all, err := svc.ListEmployees(ctx, false)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 employees, got %d", len(all))
	}
}

func TestEmployeeService_RejectsDuplicateActiveName(t *testing.T) {
	store, ctx := setupMemory(t)
	svc := core.NewEmployeeService(store, testClock())

	if _, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ravi"}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ravi"})
	var ve *core.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
	if _, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ravi", Status: core.EmployeeInactive}); err != nil {
		t.Errorf("inactive duplicate should be allowed: %v", err)
	}
}

func TestEmployeeService_Validation(t *testing.T) {
	store, ctx := setupMemory(t)
	svc := core.NewEmployeeService(store, testClock())

	for _, e := range []core.Employee{
		{Name: ""},
		{Name: "X", Salary: dec("-1")},
		{Name: "Y", Status: "Retired"},
	} {
		if _, err := svc.CreateEmployee(ctx, e); err == nil {
			t.Errorf("expected validation error for %+v", e)
		}
	}
}
