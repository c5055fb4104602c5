package app

import (
	"github.com/shopspring/decimal"

	"fieldops/internal/core"
)

// SaveExpenseSheetRequest is the full replacement document for one month.
type SaveExpenseSheetRequest struct {
	Month             string             `json:"month" validate:"required,datetime=2006-01"`
	DirectExpenses    []core.ExpenseItem `json:"direct_expenses"`
	SalaryExpenses    []core.ExpenseItem `json:"salary_expenses"`
	RepairMaintenance []core.RepairItem  `json:"repair_maintenance"`
	Deposits          decimal.Decimal    `json:"deposits"`
}

// CreateEmployeeRequest is the input for adding an employee.
type CreateEmployeeRequest struct {
	Name       string          `json:"name" validate:"required,max=120"`
	Position   string          `json:"position" validate:"max=120"`
	Department string          `json:"department" validate:"max=120"`
	Salary     decimal.Decimal `json:"salary"`
	Status     string          `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// CreateBookingRequest is the input for a new service booking.
type CreateBookingRequest struct {
	CustomerName  string          `json:"customer_name" validate:"required"`
	CustomerEmail string          `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string          `json:"customer_phone"`
	ServiceName   string          `json:"service_name" validate:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	BookingDate   string          `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime   string          `json:"booking_time"`
	Address       string          `json:"address"`
	Notes         string          `json:"notes"`
}

// AssignEmployeeRequest assigns a booking to an employee.
type AssignEmployeeRequest struct {
	BookingID  string `json:"booking_id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	Notes      string `json:"notes"`
}

// UpdateTaskStatusRequest moves an assignment to a new status.
type UpdateTaskStatusRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=Assigned 'In Progress' Completed"`
}

// UpdatePaymentRequest sets the payment status of a booking or customer
// record. AmountPaid is left unchanged when nil. Customer records take it
// only with Paid in Cash.
type UpdatePaymentRequest struct {
	ID            string           `json:"id" validate:"required"`
	PaymentStatus string           `json:"payment_status" validate:"required,oneof=Unpaid Partial 'Paid in Cash'"`
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
}

// CreateCustomerRecordRequest is the input for a manually entered job.
type CreateCustomerRecordRequest struct {
	Name           string          `json:"name" validate:"required"`
	Phone          string          `json:"phone" validate:"required"`
	Address        string          `json:"address" validate:"required"`
	Email          string          `json:"email" validate:"omitempty,email"`
	BookingDate    string          `json:"booking_date" validate:"required,datetime=2006-01-02"`
	TaskType       string          `json:"task_type"`
	Amount         decimal.Decimal `json:"amount"`
	DiscountPoints int             `json:"discount_points" validate:"gte=0"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentStatus  string          `json:"payment_status" validate:"omitempty,oneof=Unpaid Partial 'Paid in Cash'"`
	Source         string          `json:"source"`
	TaskDoneBy     []string        `json:"task_done_by"`
	CustomerNotes  string          `json:"customer_notes"`
	CustomerRating string          `json:"customer_rating" validate:"omitempty,oneof=Good Normal Bad Poor"`
}

// ManagerExpenseRequest adds an expense to a manager's day. An empty date
// means today.
type ManagerExpenseRequest struct {
	EmployeeID string          `json:"employee_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// MarkAttendanceRequest sets an employee's status for a day.
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=Present Absent"`
}

// AttendanceTimesRequest records check-in/check-out for a day.
type AttendanceTimesRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
}
