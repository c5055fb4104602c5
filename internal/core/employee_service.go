package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldops/internal/timeutil"
)

// EmployeeService manages the staff list the engine resolves names against.
type EmployeeService interface {
	// CreateEmployee stores a new employee. Active names must be unique
	// because task assignees are recorded by name.
	CreateEmployee(ctx context.Context, e Employee) (*Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
}

type employeeService struct {
	store Store
	clock timeutil.Clock
}

// NewEmployeeService constructs an EmployeeService backed by store.
func NewEmployeeService(store Store, clock timeutil.Clock) EmployeeService {
	return &employeeService{store: store, clock: clock}
}

func (s *employeeService) CreateEmployee(ctx context.Context, e Employee) (*Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, newValidationError("name", "is required")
	}
	if e.Salary.IsNegative() {
		return nil, newValidationError("salary", "must not be negative")
	}
	switch e.Status {
	case "":
		e.Status = EmployeeActive
	case EmployeeActive, EmployeeInactive:
	default:
		return nil, newValidationError("status", "unknown status %q", e.Status)
	}
	e.ID = newID()
	e.CreatedAt = s.clock.Now()

	err := s.store.InTx(ctx, func(tx Store) error {
		if e.Status == EmployeeActive {
			_, err := tx.FindActiveEmployeeByName(ctx, e.Name)
			if err == nil {
				return newValidationError("name", "an active employee named %q already exists", e.Name)
			}
			if !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		return tx.CreateEmployee(ctx, &e)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return &e, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	emps, err := s.store.ListEmployees(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return emps, nil
}
