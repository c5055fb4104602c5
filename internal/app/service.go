package app

import (
	"context"

	"fieldops/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// CurrentMonth returns the month containing today in the business timezone.
	CurrentMonth() core.Month

	// Today returns today's date (YYYY-MM-DD) in the business timezone.
	Today() string

	// GetAccountsSummary computes the monthly accounts summary. An empty
	// month means the current one.
	GetAccountsSummary(ctx context.Context, month string) (*SummaryResult, error)

	// GetExpenseSheet loads the month's expense sheet or its unsaved default.
	GetExpenseSheet(ctx context.Context, month string) (*ExpenseSheetResult, error)

	// SaveExpenseSheet replaces the month's expense sheet.
	SaveExpenseSheet(ctx context.Context, req SaveExpenseSheetRequest) (*ExpenseSheetResult, error)

	// ListEmployees returns employees, optionally only active ones.
	ListEmployees(ctx context.Context, activeOnly bool) (*EmployeeListResult, error)

	// CreateEmployee adds an employee. Active names must be unique.
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*core.Employee, error)

	// CreateBooking stores a new Pending booking.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*core.Booking, error)

	// ListTasks returns every booking split by whether it has an assignee.
	ListTasks(ctx context.Context) (*core.TaskBoard, error)

	// AssignEmployee makes the employee the booking's current assignee.
	AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (*core.TaskAssignment, error)

	// UpdateTaskStatus moves an assignment through Assigned → In Progress →
	// Completed. Completion credits the manager once per booking.
	UpdateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest) (*core.TaskStatusResult, error)

	// UpdateBookingPayment records the payment status of a booking.
	UpdateBookingPayment(ctx context.Context, req UpdatePaymentRequest) (*core.Booking, error)

	// CreateCustomerRecord stores a manually entered customer job.
	CreateCustomerRecord(ctx context.Context, req CreateCustomerRecordRequest) (*core.CustomerRecord, error)

	// ListCustomerRecords returns the month's customer records; an empty
	// month returns all of them.
	ListCustomerRecords(ctx context.Context, month string) (*CustomerRecordListResult, error)

	// CompleteTask distributes a customer record's amount to the daily salary
	// of each named employee.
	CompleteTask(ctx context.Context, customerRecordID string) (*core.TaskCompletion, error)

	// CompleteTasks completes several records, each in its own transaction.
	// When one fails after others succeeded the error is a
	// *core.PartialEffectError listing the completed ids.
	CompleteTasks(ctx context.Context, customerRecordIDs []string) (*BatchCompletionResult, error)

	// UpdatePaymentStatus records the payment status of a customer record.
	UpdatePaymentStatus(ctx context.Context, req UpdatePaymentRequest) (*core.CustomerRecord, error)

	// RecordManagerExpense adds an expense to a manager's day.
	RecordManagerExpense(ctx context.Context, req ManagerExpenseRequest) (*core.ManagerRevenueRecord, error)

	// GetAttendance returns one day's attendance. An empty date means today.
	GetAttendance(ctx context.Context, date string) (*core.AttendanceDay, error)

	// MarkAttendance sets Present/Absent for an employee on a date.
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*core.AttendanceRecord, error)

	// RecordAttendanceTimes stores check-in/check-out and recomputes hours.
	RecordAttendanceTimes(ctx context.Context, req AttendanceTimesRequest) (*core.TimesResult, error)
}
