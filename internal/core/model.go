package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
)

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "Assigned"
	AssignmentInProgress AssignmentStatus = "In Progress"
	AssignmentCompleted  AssignmentStatus = "Completed"
)

type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "Unpaid"
	PaymentPartial    PaymentStatus = "Partial"
	PaymentPaidInCash PaymentStatus = "Paid in Cash"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// Booking is a service booking placed by a customer.
// CurrentAssignmentID points at the assignment that owns the booking; it is
// maintained in the same transaction that inserts a new assignment.
type Booking struct {
	ID                  string          `json:"id"`
	CustomerName        string          `json:"customer_name"`
	CustomerEmail       string          `json:"customer_email"`
	CustomerPhone       string          `json:"customer_phone"`
	ServiceName         string          `json:"service_name"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	BookingDate         string          `json:"booking_date"` // YYYY-MM-DD
	BookingTime         string          `json:"booking_time"`
	Address             string          `json:"address"`
	Status              BookingStatus   `json:"status"`
	PaymentStatus       PaymentStatus   `json:"payment_status"`
	AmountPaid          decimal.Decimal `json:"amount_paid"`
	RevenueProcessed    bool            `json:"revenue_processed"`
	CurrentAssignmentID *string         `json:"current_assignment_id,omitempty"`
	Notes               string          `json:"notes"`
	CreatedAt           time.Time       `json:"created_at"`
}

// TaskAssignment links a booking to the employee responsible for it.
type TaskAssignment struct {
	ID           string           `json:"id"`
	BookingID    string           `json:"booking_id"`
	EmployeeID   *string          `json:"employee_id,omitempty"`
	EmployeeName string           `json:"employee_name,omitempty"` // joined from employees
	Status       AssignmentStatus `json:"status"`
	Notes        string           `json:"notes"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CustomerRecord is a manually entered job/customer row. TaskDoneBy holds
// employee names, not ids.
type CustomerRecord struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Email          string          `json:"email"`
	BookingDate    string          `json:"booking_date"` // YYYY-MM-DD
	TaskType       string          `json:"task_type"`
	Amount         decimal.Decimal `json:"amount"`
	DiscountPoints int             `json:"discount_points"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	Source         string          `json:"source"`
	TaskDoneBy     []string        `json:"task_done_by"`
	CustomerNotes  string          `json:"customer_notes"`
	CustomerRating string          `json:"customer_rating"`
	TaskCompleted  bool            `json:"task_completed"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Employee struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	Salary     decimal.Decimal `json:"salary"`
	Status     EmployeeStatus  `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DailySalaryRecord accumulates what an employee earned on one day.
// At most one row exists per (EmployeeID, Date).
type DailySalaryRecord struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ManagerRevenueRecord is the per-day revenue ledger of one manager.
// Profit is always RevenueGenerated - Expenses.
type ManagerRevenueRecord struct {
	ID               string          `json:"id"`
	ManagerID        string          `json:"manager_id"`
	Date             string          `json:"date"` // YYYY-MM-DD
	RevenueGenerated decimal.Decimal `json:"revenue_generated"`
	TaskAmounts      decimal.Decimal `json:"task_amounts"`
	TasksReceived    int             `json:"tasks_received"`
	Expenses         decimal.Decimal `json:"expenses"`
	Profit           decimal.Decimal `json:"profit"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ExpenseItem is one line of a direct or salary expense list.
type ExpenseItem struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// RepairItem is one repair & maintenance line.
type RepairItem struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ExpenseSheet is the monthly expense document, one per month.
type ExpenseSheet struct {
	Month             Month           `json:"month"`
	DirectExpenses    []ExpenseItem   `json:"direct_expenses"`
	SalaryExpenses    []ExpenseItem   `json:"salary_expenses"`
	RepairMaintenance []RepairItem    `json:"repair_maintenance"`
	Deposits          decimal.Decimal `json:"deposits"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type AttendanceRecord struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"` // joined from employees
	Date         string           `json:"date"`                    // YYYY-MM-DD
	Status       AttendanceStatus `json:"status"`
	CheckInTime  string           `json:"check_in_time,omitempty"` // HH:MM[:SS]
	CheckOutTime string           `json:"check_out_time,omitempty"`
	TotalHours   float64          `json:"total_hours"`
	CreatedAt    time.Time        `json:"created_at"`
}
