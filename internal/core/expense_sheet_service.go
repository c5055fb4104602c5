package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fieldops/internal/timeutil"

	"github.com/shopspring/decimal"
)

// DefaultDirectExpenses are the rows a month starts with before anything is
// saved.
var DefaultDirectExpenses = []string{"Mobile Bill", "EB Bill", "Petrol"}

// LoadedSheet is an expense sheet plus whether it came from storage.
type LoadedSheet struct {
	Sheet     *ExpenseSheet `json:"sheet"`
	Persisted bool          `json:"persisted"`
}

// ExpenseSheetService loads and saves the monthly expense document.
type ExpenseSheetService interface {
	// Load returns the saved sheet for month, or an unsaved default with the
	// standard direct expense rows at zero.
	Load(ctx context.Context, month Month) (*LoadedSheet, error)

	// Save validates sheet and replaces whatever is stored for its month.
	// Salary lines naming an active employee with a zero amount take that
	// employee's salary.
	Save(ctx context.Context, sheet ExpenseSheet) (*ExpenseSheet, error)
}

type expenseSheetService struct {
	store Store
	clock timeutil.Clock
}

// NewExpenseSheetService constructs an ExpenseSheetService backed by store.
func NewExpenseSheetService(store Store, clock timeutil.Clock) ExpenseSheetService {
	return &expenseSheetService{store: store, clock: clock}
}

// DefaultExpenseSheet is the sheet shown for a month with nothing saved.
func DefaultExpenseSheet(month Month) *ExpenseSheet {
	direct := make([]ExpenseItem, 0, len(DefaultDirectExpenses))
	for _, t := range DefaultDirectExpenses {
		direct = append(direct, ExpenseItem{Type: t, Amount: decimal.Zero})
	}
	return &ExpenseSheet{
		Month:             month,
		DirectExpenses:    direct,
		SalaryExpenses:    []ExpenseItem{},
		RepairMaintenance: []RepairItem{},
		Deposits:          decimal.Zero,
	}
}

func (s *expenseSheetService) Load(ctx context.Context, month Month) (*LoadedSheet, error) {
	if _, err := ParseMonth(string(month)); err != nil {
		return nil, err
	}
	sheet, err := s.store.GetExpenseSheet(ctx, month)
	if errors.Is(err, ErrNotFound) {
		return &LoadedSheet{Sheet: DefaultExpenseSheet(month)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load expense sheet: %w", err)
	}
	return &LoadedSheet{Sheet: sheet, Persisted: true}, nil
}

func (s *expenseSheetService) Save(ctx context.Context, sheet ExpenseSheet) (*ExpenseSheet, error) {
	month, err := ParseMonth(string(sheet.Month))
	if err != nil {
		return nil, err
	}
	sheet.Month = month

	if sheet.DirectExpenses == nil {
		sheet.DirectExpenses = []ExpenseItem{}
	}
	sheet.SalaryExpenses = append([]ExpenseItem{}, sheet.SalaryExpenses...)
	if sheet.RepairMaintenance == nil {
		sheet.RepairMaintenance = []RepairItem{}
	}
	for i, it := range sheet.DirectExpenses {
		if it.Amount.IsNegative() {
			return nil, newValidationError(fmt.Sprintf("direct_expenses[%d].amount", i), "must not be negative")
		}
	}
	for i, it := range sheet.SalaryExpenses {
		if it.Amount.IsNegative() {
			return nil, newValidationError(fmt.Sprintf("salary_expenses[%d].amount", i), "must not be negative")
		}
	}
	for i, it := range sheet.RepairMaintenance {
		if it.Amount.IsNegative() {
			return nil, newValidationError(fmt.Sprintf("repair_maintenance[%d].amount", i), "must not be negative")
		}
	}
	if sheet.Deposits.IsNegative() {
		return nil, newValidationError("deposits", "must not be negative")
	}

	if err := s.fillSalaries(ctx, sheet.SalaryExpenses); err != nil {
		return nil, err
	}

	sheet.UpdatedAt = s.clock.Now()
	if err := s.store.UpsertExpenseSheet(ctx, &sheet); err != nil {
		return nil, fmt.Errorf("failed to save expense sheet: %w", err)
	}
	return &sheet, nil
}

// fillSalaries sets the amount of zero-valued salary lines whose type is the
// name of an active employee.
func (s *expenseSheetService) fillSalaries(ctx context.Context, lines []ExpenseItem) error {
	need := false
	for _, l := range lines {
		if l.Amount.IsZero() && strings.TrimSpace(l.Type) != "" {
			need = true
			break
		}
	}
	if !need {
		return nil
	}
	emps, err := s.store.ListEmployees(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	salary := make(map[string]decimal.Decimal, len(emps))
	for _, e := range emps {
		salary[e.Name] = e.Salary
	}
	for i := range lines {
		if !lines[i].Amount.IsZero() {
			continue
		}
		if v, ok := salary[strings.TrimSpace(lines[i].Type)]; ok {
			lines[i].Amount = v
		}
	}
	return nil
}

// DecodeLineItems decodes a stored line-item list. It accepts a JSON array
// or a JSON string holding an array; anything else yields an empty list.
func DecodeLineItems[T any](raw []byte) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err == nil {
		if out == nil {
			return []T{}
		}
		return out
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return []T{}
	}
	out = []T{}
	if err := json.Unmarshal([]byte(inner), &out); err != nil || out == nil {
		return []T{}
	}
	return out
}
