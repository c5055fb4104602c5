package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldops/internal/timeutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ── Types ─────────────────────────────────────────────────────────────────────

// SalaryCredit is one share of a completed task posted to an employee.
type SalaryCredit struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Amount       decimal.Decimal `json:"amount"`
	DayTotal     decimal.Decimal `json:"day_total"` // daily salary total after the credit
}

// TaskCompletion is the outcome of CompleteTask.
type TaskCompletion struct {
	CustomerRecordID  string          `json:"customer_record_id"`
	EmployeeCount     int             `json:"employee_count"`
	PerEmployeeAmount decimal.Decimal `json:"per_employee_amount"`
	Date              string          `json:"date"`
	Credits           []SalaryCredit  `json:"credits"`
	Unresolved        []string        `json:"unresolved,omitempty"`
	// AlreadyCompleted is set when the record was completed earlier; nothing
	// was written by this call.
	AlreadyCompleted bool `json:"already_completed"`
}

// SplitTaskAmount divides amount evenly across the non-blank names in
// doneBy. Names are trimmed; the division is exact decimal division with no
// rounding.
func SplitTaskAmount(amount decimal.Decimal, doneBy []string) (decimal.Decimal, []string, error) {
	names := make([]string, 0, len(doneBy))
	for _, n := range doneBy {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return decimal.Zero, nil, newValidationError("task_done_by", "no employees assigned")
	}
	return amount.Div(decimal.NewFromInt(int64(len(names)))), names, nil
}

// ── Interface ─────────────────────────────────────────────────────────────────

// CustomerRecordService manages manually entered customer jobs and posts
// their revenue to payroll when the work is done.
type CustomerRecordService interface {
	// CreateCustomerRecord validates and stores a new record.
	CreateCustomerRecord(ctx context.Context, rec CustomerRecord) (*CustomerRecord, error)

	// ListCustomerRecords returns records whose booking date falls in r.
	ListCustomerRecords(ctx context.Context, r DateRange) ([]CustomerRecord, error)

	// CompleteTask splits the record's amount evenly across task_done_by and
	// adds each share to that employee's daily salary for today, then marks
	// the record completed. Names with no active employee are skipped and
	// reported in Unresolved. All writes commit together or not at all, and
	// completing an already completed record writes nothing.
	CompleteTask(ctx context.Context, customerRecordID string) (*TaskCompletion, error)

	// UpdatePaymentStatus sets the payment status. amountPaid is recorded only
	// with PaymentPaidInCash; other statuses leave amount_paid as it was.
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus, amountPaid *decimal.Decimal) (*CustomerRecord, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type customerRecordService struct {
	store  Store
	locker Locker
	clock  timeutil.Clock
	logger *zap.Logger
}

// NewCustomerRecordService constructs a CustomerRecordService. A nil locker
// is replaced by NoopLocker.
func NewCustomerRecordService(store Store, locker Locker, clock timeutil.Clock, logger *zap.Logger) CustomerRecordService {
	if locker == nil {
		locker = NoopLocker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &customerRecordService{store: store, locker: locker, clock: clock, logger: logger}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ── CreateCustomerRecord ──────────────────────────────────────────────────────

func (s *customerRecordService) CreateCustomerRecord(ctx context.Context, rec CustomerRecord) (*CustomerRecord, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Phone = strings.TrimSpace(rec.Phone)
	rec.Address = strings.TrimSpace(rec.Address)
	switch {
	case rec.Name == "":
		return nil, newValidationError("name", "is required")
	case rec.Phone == "":
		return nil, newValidationError("phone", "is required")
	case rec.Address == "":
		return nil, newValidationError("address", "is required")
	}
	date, err := ParseDate("booking_date", rec.BookingDate)
	if err != nil {
		return nil, err
	}
	rec.BookingDate = date
	if rec.Amount.IsNegative() {
		return nil, newValidationError("amount", "must not be negative")
	}
	if rec.AmountPaid.IsNegative() {
		return nil, newValidationError("amount_paid", "must not be negative")
	}
	if rec.DiscountPoints < 0 {
		return nil, newValidationError("discount_points", "must not be negative")
	}
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = PaymentUnpaid
	} else if !validPaymentStatus(rec.PaymentStatus) {
		return nil, newValidationError("payment_status", "unknown status %q", rec.PaymentStatus)
	}
	if rec.CustomerRating == "" {
		rec.CustomerRating = "Normal"
	}
	if rec.TaskDoneBy == nil {
		rec.TaskDoneBy = []string{}
	}
	rec.ID = newID()
	rec.TaskCompleted = false
	now := s.clock.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now

	if err := s.store.CreateCustomerRecord(ctx, &rec); err != nil {
		return nil, fmt.Errorf("failed to create customer record: %w", err)
	}
	return &rec, nil
}

func (s *customerRecordService) ListCustomerRecords(ctx context.Context, r DateRange) ([]CustomerRecord, error) {
	recs, err := s.store.ListCustomerRecords(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer records: %w", err)
	}
	return recs, nil
}

// ── CompleteTask ──────────────────────────────────────────────────────────────

func (s *customerRecordService) CompleteTask(ctx context.Context, customerRecordID string) (*TaskCompletion, error) {
	unlock, err := s.locker.Lock(ctx, "customer-record:"+customerRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock customer record %s: %w", customerRecordID, err)
	}
	defer unlock()

	today := timeutil.Today(s.clock)
	var result *TaskCompletion

	err = s.store.InTx(ctx, func(tx Store) error {
		rec, err := tx.GetCustomerRecord(ctx, customerRecordID)
		if err != nil {
			return err
		}

		per, names, err := SplitTaskAmount(rec.Amount, rec.TaskDoneBy)
		if err != nil {
			return err
		}
		result = &TaskCompletion{
			CustomerRecordID:  rec.ID,
			EmployeeCount:     len(names),
			PerEmployeeAmount: per,
			Date:              today,
		}
		if rec.TaskCompleted {
			result.AlreadyCompleted = true
			return nil
		}

		notes := "Task completion revenue for customer: " + rec.Name
		for _, name := range names {
			emp, err := tx.FindActiveEmployeeByName(ctx, name)
			if errors.Is(err, ErrNotFound) {
				s.logger.Warn("no active employee for task assignee",
					zap.String("customer_record_id", rec.ID),
					zap.String("name", name))
				result.Unresolved = append(result.Unresolved, name)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to resolve employee %q: %w", name, err)
			}

			row, err := tx.AddDailySalary(ctx, emp.ID, today, per, notes)
			if err != nil {
				return fmt.Errorf("failed to credit daily salary for %s: %w", emp.Name, err)
			}
			result.Credits = append(result.Credits, SalaryCredit{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Amount:       per,
				DayTotal:     row.TotalAmount,
			})
		}

		if err := tx.MarkTaskCompleted(ctx, rec.ID); err != nil {
			return fmt.Errorf("failed to mark task completed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCompleted {
		s.logger.Info("task completed",
			zap.String("customer_record_id", result.CustomerRecordID),
			zap.Int("employees", result.EmployeeCount),
			zap.String("per_employee", result.PerEmployeeAmount.String()),
			zap.Int("unresolved", len(result.Unresolved)))
	}
	return result, nil
}

// ── UpdatePaymentStatus ───────────────────────────────────────────────────────

func (s *customerRecordService) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus, amountPaid *decimal.Decimal) (*CustomerRecord, error) {
	if !validPaymentStatus(status) {
		return nil, newValidationError("payment_status", "unknown status %q", status)
	}
	if amountPaid != nil && amountPaid.IsNegative() {
		return nil, newValidationError("amount_paid", "must not be negative")
	}
	if status != PaymentPaidInCash {
		amountPaid = nil
	}

	var rec *CustomerRecord
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.SetPaymentStatus(ctx, id, status, amountPaid); err != nil {
			return err
		}
		var err error
		rec, err = tx.GetCustomerRecord(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	return rec, nil
}

func validPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaidInCash:
		return true
	}
	return false
}
