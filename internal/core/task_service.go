package core

import (
	"context"
	"fmt"
	"strings"

	"fieldops/internal/timeutil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ── Types ─────────────────────────────────────────────────────────────────────

// BookingTask is a booking together with the assignment that owns it.
type BookingTask struct {
	Booking    Booking         `json:"booking"`
	Assignment *TaskAssignment `json:"assignment,omitempty"`
}

// TaskBoard splits bookings by whether an employee owns them.
type TaskBoard struct {
	Assigned   []BookingTask `json:"assigned"`
	Unassigned []BookingTask `json:"unassigned"`
}

// TaskStatusResult is the outcome of UpdateTaskStatus.
type TaskStatusResult struct {
	Assignment *TaskAssignment `json:"assignment"`
	Booking    *Booking        `json:"booking"`
	// ManagerRevenue is the manager's day row after the credit; nil when no
	// credit was made.
	ManagerRevenue *ManagerRevenueRecord `json:"manager_revenue,omitempty"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// TaskService runs the booking → assignment → completion workflow.
type TaskService interface {
	// CreateBooking validates and stores a new Pending booking.
	CreateBooking(ctx context.Context, b Booking) (*Booking, error)

	// AssignEmployee adds an assignment for the booking and makes it the
	// booking's current assignment in the same transaction.
	AssignEmployee(ctx context.Context, bookingID, employeeID, notes string) (*TaskAssignment, error)

	// UpdateTaskStatus moves an assignment to status. Completing the current
	// assignment also completes the booking and, once per booking, credits
	// the assigned manager with the booking amount for today.
	UpdateTaskStatus(ctx context.Context, assignmentID string, status AssignmentStatus) (*TaskStatusResult, error)

	// UpdateBookingPayment records what the customer paid for a booking.
	UpdateBookingPayment(ctx context.Context, bookingID string, status PaymentStatus, amountPaid *decimal.Decimal) (*Booking, error)

	// ListTasks returns every booking with its current assignment.
	ListTasks(ctx context.Context) (*TaskBoard, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type taskService struct {
	store  Store
	locker Locker
	clock  timeutil.Clock
	logger *zap.Logger
}

// NewTaskService constructs a TaskService. A nil locker is replaced by
// NoopLocker.
func NewTaskService(store Store, locker Locker, clock timeutil.Clock, logger *zap.Logger) TaskService {
	if locker == nil {
		locker = NoopLocker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskService{store: store, locker: locker, clock: clock, logger: logger}
}

// ── CreateBooking ─────────────────────────────────────────────────────────────

func (s *taskService) CreateBooking(ctx context.Context, b Booking) (*Booking, error) {
	b.CustomerName = strings.TrimSpace(b.CustomerName)
	b.ServiceName = strings.TrimSpace(b.ServiceName)
	if b.CustomerName == "" {
		return nil, newValidationError("customer_name", "is required")
	}
	if b.ServiceName == "" {
		return nil, newValidationError("service_name", "is required")
	}
	date, err := ParseDate("booking_date", b.BookingDate)
	if err != nil {
		return nil, err
	}
	b.BookingDate = date
	if b.TotalAmount.IsNegative() {
		return nil, newValidationError("total_amount", "must not be negative")
	}

	b.ID = newID()
	b.Status = BookingPending
	b.PaymentStatus = PaymentUnpaid
	b.AmountPaid = decimal.Zero
	b.RevenueProcessed = false
	b.CurrentAssignmentID = nil
	b.CreatedAt = s.clock.Now()

	if err := s.store.CreateBooking(ctx, &b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &b, nil
}

// ── AssignEmployee ────────────────────────────────────────────────────────────

func (s *taskService) AssignEmployee(ctx context.Context, bookingID, employeeID, notes string) (*TaskAssignment, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, newValidationError("employee_id", "is required")
	}

	unlock, err := s.locker.Lock(ctx, "booking:"+bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking %s: %w", bookingID, err)
	}
	defer unlock()

	a := &TaskAssignment{
		ID:         newID(),
		BookingID:  bookingID,
		EmployeeID: &employeeID,
		Status:     AssignmentAssigned,
		Notes:      notes,
		CreatedAt:  s.clock.Now(),
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == BookingCompleted {
			return newValidationError("booking_id", "booking %s is already completed", bookingID)
		}
		emp, err := tx.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		if emp.Status != EmployeeActive {
			return newValidationError("employee_id", "employee %s is not active", emp.Name)
		}
		a.EmployeeName = emp.Name

		if err := tx.CreateAssignment(ctx, a); err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		if err := tx.SetCurrentAssignment(ctx, bookingID, a.ID); err != nil {
			return fmt.Errorf("failed to set current assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ── UpdateTaskStatus ──────────────────────────────────────────────────────────

func (s *taskService) UpdateTaskStatus(ctx context.Context, assignmentID string, status AssignmentStatus) (*TaskStatusResult, error) {
	switch status {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted:
	default:
		return nil, newValidationError("status", "unknown status %q", status)
	}

	// Resolve the booking first so the lock covers every assignment of it.
	target, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	unlock, err := s.locker.Lock(ctx, "booking:"+target.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking %s: %w", target.BookingID, err)
	}
	defer unlock()

	today := timeutil.Today(s.clock)
	result := &TaskStatusResult{}

	err = s.store.InTx(ctx, func(tx Store) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		b, err := tx.GetBooking(ctx, a.BookingID)
		if err != nil {
			return err
		}

		if status == AssignmentCompleted {
			siblings, err := tx.ListAssignments(ctx, b.ID)
			if err != nil {
				return fmt.Errorf("failed to list assignments: %w", err)
			}
			if cur := CurrentAssignment(b, siblings); cur != nil && cur.ID != a.ID {
				return newValidationError("assignment_id",
					"assignment %s was superseded by %s", a.ID, cur.ID)
			}
		}

		if err := tx.SetAssignmentStatus(ctx, a.ID, status); err != nil {
			return fmt.Errorf("failed to update assignment status: %w", err)
		}
		a.Status = status
		result.Assignment = a
		result.Booking = b

		if status != AssignmentCompleted {
			return nil
		}

		if err := tx.SetBookingStatus(ctx, b.ID, BookingCompleted); err != nil {
			return fmt.Errorf("failed to complete booking: %w", err)
		}
		b.Status = BookingCompleted

		if b.RevenueProcessed || !b.TotalAmount.IsPositive() || a.EmployeeID == nil {
			return nil
		}
		rec, err := creditManager(ctx, tx, *a.EmployeeID, b.TotalAmount, today)
		if err != nil {
			return err
		}
		if err := tx.MarkRevenueProcessed(ctx, b.ID); err != nil {
			return fmt.Errorf("failed to mark revenue processed: %w", err)
		}
		b.RevenueProcessed = true
		result.ManagerRevenue = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.ManagerRevenue != nil {
		s.logger.Info("manager revenue credited",
			zap.String("booking_id", result.Booking.ID),
			zap.String("manager_id", result.ManagerRevenue.ManagerID),
			zap.String("amount", result.Booking.TotalAmount.String()))
	}
	return result, nil
}

// ── UpdateBookingPayment ──────────────────────────────────────────────────────

func (s *taskService) UpdateBookingPayment(ctx context.Context, bookingID string, status PaymentStatus, amountPaid *decimal.Decimal) (*Booking, error) {
	if !validPaymentStatus(status) {
		return nil, newValidationError("payment_status", "unknown status %q", status)
	}
	if amountPaid != nil && amountPaid.IsNegative() {
		return nil, newValidationError("amount_paid", "must not be negative")
	}

	var b *Booking
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.SetBookingPayment(ctx, bookingID, status, amountPaid); err != nil {
			return err
		}
		var err error
		b, err = tx.GetBooking(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update booking payment: %w", err)
	}
	return b, nil
}

// ── ListTasks ─────────────────────────────────────────────────────────────────

func (s *taskService) ListTasks(ctx context.Context) (*TaskBoard, error) {
	bookings, err := s.store.ListBookings(ctx, DateRange{})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	assignments, err := s.store.ListAssignments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	employees, err := s.store.ListEmployees(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	byBooking := make(map[string][]TaskAssignment)
	for _, a := range assignments {
		byBooking[a.BookingID] = append(byBooking[a.BookingID], a)
	}

	board := &TaskBoard{Assigned: []BookingTask{}, Unassigned: []BookingTask{}}
	for i := range bookings {
		b := bookings[i]
		cur := CurrentAssignment(&b, byBooking[b.ID])
		if cur == nil || cur.EmployeeID == nil {
			board.Unassigned = append(board.Unassigned, BookingTask{Booking: b})
			continue
		}
		a := *cur
		if a.EmployeeName == "" {
			a.EmployeeName = names[*a.EmployeeID]
		}
		board.Assigned = append(board.Assigned, BookingTask{Booking: b, Assignment: &a})
	}
	return board, nil
}
