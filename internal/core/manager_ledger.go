package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ManagerLedger maintains the per-day revenue rows of managers.
type ManagerLedger interface {
	// Credit adds amount to the manager's revenue for date, counts one more
	// task and recomputes profit. The row is created when absent.
	Credit(ctx context.Context, employeeID string, amount decimal.Decimal, date string) (*ManagerRevenueRecord, error)

	// RecordExpense adds amount to the manager's expenses for date and
	// recomputes profit.
	RecordExpense(ctx context.Context, employeeID string, amount decimal.Decimal, date string) (*ManagerRevenueRecord, error)
}

type managerLedger struct {
	store Store
}

// NewManagerLedger constructs a ManagerLedger backed by store.
func NewManagerLedger(store Store) ManagerLedger {
	return &managerLedger{store: store}
}

func (l *managerLedger) Credit(ctx context.Context, employeeID string, amount decimal.Decimal, date string) (*ManagerRevenueRecord, error) {
	if !amount.IsPositive() {
		return nil, newValidationError("amount", "must be positive")
	}
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	var rec *ManagerRevenueRecord
	err = l.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetEmployee(ctx, employeeID); err != nil {
			return err
		}
		rec, err = creditManager(ctx, tx, employeeID, amount, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (l *managerLedger) RecordExpense(ctx context.Context, employeeID string, amount decimal.Decimal, date string) (*ManagerRevenueRecord, error) {
	if !amount.IsPositive() {
		return nil, newValidationError("amount", "must be positive")
	}
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	var rec *ManagerRevenueRecord
	err = l.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetEmployee(ctx, employeeID); err != nil {
			return err
		}
		rec, err = loadManagerDay(ctx, tx, employeeID, date)
		if err != nil {
			return err
		}
		rec.Expenses = rec.Expenses.Add(amount)
		rec.Profit = rec.RevenueGenerated.Sub(rec.Expenses)
		if err := tx.SaveManagerRevenue(ctx, rec); err != nil {
			return fmt.Errorf("failed to save manager expenses: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// creditManager applies one task credit to the (managerID, date) row inside
// tx. Callers own the transaction.
func creditManager(ctx context.Context, tx Store, managerID string, amount decimal.Decimal, date string) (*ManagerRevenueRecord, error) {
	rec, err := loadManagerDay(ctx, tx, managerID, date)
	if err != nil {
		return nil, err
	}
	rec.RevenueGenerated = rec.RevenueGenerated.Add(amount)
	rec.TaskAmounts = rec.TaskAmounts.Add(amount)
	rec.TasksReceived++
	rec.Profit = rec.RevenueGenerated.Sub(rec.Expenses)
	if err := tx.SaveManagerRevenue(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save manager revenue: %w", err)
	}
	return rec, nil
}

// loadManagerDay returns the existing row or a zeroed, unsaved one.
func loadManagerDay(ctx context.Context, tx Store, managerID, date string) (*ManagerRevenueRecord, error) {
	rec, err := tx.GetManagerRevenue(ctx, managerID, date)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load manager revenue: %w", err)
	}
	return &ManagerRevenueRecord{ManagerID: managerID, Date: date}, nil
}
