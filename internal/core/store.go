package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the typed record store behind every service. Implementations
// return *StoreError for every failure; lookups of a missing row return a
// StoreError with CodeNotFound (errors.Is(err, ErrNotFound) holds).
//
// InTx runs fn against a transactional view of the store. Every write fn
// makes is committed together when fn returns nil and discarded otherwise.
// Calling InTx on a transactional view runs fn in the same transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	// ── Bookings ──────────────────────────────────────────────────────────────

	CreateBooking(ctx context.Context, b *Booking) error
	// GetBooking locks the row for update when called inside InTx.
	GetBooking(ctx context.Context, id string) (*Booking, error)
	ListBookings(ctx context.Context, r DateRange) ([]Booking, error)
	SetBookingStatus(ctx context.Context, id string, status BookingStatus) error
	MarkRevenueProcessed(ctx context.Context, id string) error
	SetCurrentAssignment(ctx context.Context, bookingID, assignmentID string) error
	// SetBookingPayment leaves amount_paid unchanged when amountPaid is nil.
	SetBookingPayment(ctx context.Context, id string, status PaymentStatus, amountPaid *decimal.Decimal) error

	// ── Task assignments ──────────────────────────────────────────────────────

	CreateAssignment(ctx context.Context, a *TaskAssignment) error
	GetAssignment(ctx context.Context, id string) (*TaskAssignment, error)
	// ListAssignments returns assignments for bookingID, or all when empty.
	ListAssignments(ctx context.Context, bookingID string) ([]TaskAssignment, error)
	SetAssignmentStatus(ctx context.Context, id string, status AssignmentStatus) error

	// ── Customer records ──────────────────────────────────────────────────────

	CreateCustomerRecord(ctx context.Context, c *CustomerRecord) error
	// GetCustomerRecord locks the row for update when called inside InTx.
	GetCustomerRecord(ctx context.Context, id string) (*CustomerRecord, error)
	ListCustomerRecords(ctx context.Context, r DateRange) ([]CustomerRecord, error)
	MarkTaskCompleted(ctx context.Context, id string) error
	// SetPaymentStatus leaves amount_paid unchanged when amountPaid is nil.
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus, amountPaid *decimal.Decimal) error

	// ── Employees ─────────────────────────────────────────────────────────────

	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	// FindActiveEmployeeByName matches the trimmed name exactly.
	FindActiveEmployeeByName(ctx context.Context, name string) (*Employee, error)

	// ── Daily salary ──────────────────────────────────────────────────────────

	// AddDailySalary adds amount to the (employeeID, date) row, creating it
	// with notes when absent. It returns the row after the write.
	AddDailySalary(ctx context.Context, employeeID, date string, amount decimal.Decimal, notes string) (*DailySalaryRecord, error)
	GetDailySalary(ctx context.Context, employeeID, date string) (*DailySalaryRecord, error)
	ListDailySalaries(ctx context.Context, r DateRange) ([]DailySalaryRecord, error)

	// ── Manager revenue ───────────────────────────────────────────────────────

	// GetManagerRevenue locks the row for update when called inside InTx.
	GetManagerRevenue(ctx context.Context, managerID, date string) (*ManagerRevenueRecord, error)
	// SaveManagerRevenue updates rec by ID. When rec.ID is empty it inserts
	// rec and sets rec.ID; if a row for (ManagerID, Date) appeared meanwhile,
	// rec's amounts are added to it instead. rec is refreshed from the
	// stored row.
	SaveManagerRevenue(ctx context.Context, rec *ManagerRevenueRecord) error
	ListManagerRevenue(ctx context.Context, r DateRange) ([]ManagerRevenueRecord, error)

	// ── Monthly expense sheets ────────────────────────────────────────────────

	GetExpenseSheet(ctx context.Context, month Month) (*ExpenseSheet, error)
	// UpsertExpenseSheet replaces the whole document stored for sheet.Month.
	UpsertExpenseSheet(ctx context.Context, sheet *ExpenseSheet) error

	// ── Attendance ────────────────────────────────────────────────────────────

	GetAttendance(ctx context.Context, employeeID, date string) (*AttendanceRecord, error)
	// UpsertAttendance writes rec keyed by (EmployeeID, Date).
	UpsertAttendance(ctx context.Context, rec *AttendanceRecord) error
	ListAttendance(ctx context.Context, date string) ([]AttendanceRecord, error)
}

// Locker serialises work on a single key across processes.
type Locker interface {
	// Lock blocks until the key is held or ctx ends. The returned func
	// releases it.
	Lock(ctx context.Context, key string) (func(), error)
}

// NoopLocker never blocks. It is used when no lock backend is configured;
// the store transaction still protects row updates.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
