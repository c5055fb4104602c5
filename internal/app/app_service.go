package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fieldops/internal/core"
	"fieldops/internal/metrics"
	"fieldops/internal/timeutil"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type appService struct {
	accounts   core.AccountsService
	sheets     core.ExpenseSheetService
	employees  core.EmployeeService
	tasks      core.TaskService
	records    core.CustomerRecordService
	managers   core.ManagerLedger
	attendance core.AttendanceService
	clock      timeutil.Clock
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewAppService wires the domain services over store and returns the
// ApplicationService used by every adapter. A nil locker disables
// cross-process locking.
func NewAppService(store core.Store, locker core.Locker, clock timeutil.Clock, logger *zap.Logger) ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appService{
		accounts:   core.NewAccountsService(store),
		sheets:     core.NewExpenseSheetService(store, clock),
		employees:  core.NewEmployeeService(store, clock),
		tasks:      core.NewTaskService(store, locker, clock, logger),
		records:    core.NewCustomerRecordService(store, locker, clock, logger),
		managers:   core.NewManagerLedger(store),
		attendance: core.NewAttendanceService(store),
		clock:      clock,
		validate:   newValidator(),
		logger:     logger,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs struct validation and reports the first failing field as a
// *core.ValidationError.
func (s *appService) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}
	fe := verrs[0]
	return &core.ValidationError{Field: fe.Field(), Message: describeTag(fe)}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func (s *appService) CurrentMonth() core.Month {
	return core.MonthOf(s.clock.Now())
}

func (s *appService) Today() string {
	return timeutil.Today(s.clock)
}

func (s *appService) monthOrCurrent(month string) (core.Month, error) {
	if strings.TrimSpace(month) == "" {
		return s.CurrentMonth(), nil
	}
	return core.ParseMonth(month)
}

// ── Accounts ──────────────────────────────────────────────────────────────────

func (s *appService) GetAccountsSummary(ctx context.Context, month string) (*SummaryResult, error) {
	m, err := s.monthOrCurrent(month)
	if err != nil {
		return nil, err
	}
	summary, err := s.accounts.ComputeSummary(ctx, m)
	if err != nil {
		return nil, err
	}
	metrics.SummariesComputed.Inc()
	return &SummaryResult{Summary: summary}, nil
}

func (s *appService) GetExpenseSheet(ctx context.Context, month string) (*ExpenseSheetResult, error) {
	m, err := s.monthOrCurrent(month)
	if err != nil {
		return nil, err
	}
	loaded, err := s.sheets.Load(ctx, m)
	if err != nil {
		return nil, err
	}
	return &ExpenseSheetResult{Sheet: loaded.Sheet, Persisted: loaded.Persisted}, nil
}

func (s *appService) SaveExpenseSheet(ctx context.Context, req SaveExpenseSheetRequest) (*ExpenseSheetResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	sheet, err := s.sheets.Save(ctx, core.ExpenseSheet{
		Month:             core.Month(req.Month),
		DirectExpenses:    req.DirectExpenses,
		SalaryExpenses:    req.SalaryExpenses,
		RepairMaintenance: req.RepairMaintenance,
		Deposits:          req.Deposits,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("expense sheet saved", zap.String("month", string(sheet.Month)))
	return &ExpenseSheetResult{Sheet: sheet, Persisted: true}, nil
}

// ── Employees ─────────────────────────────────────────────────────────────────

func (s *appService) ListEmployees(ctx context.Context, activeOnly bool) (*EmployeeListResult, error) {
	emps, err := s.employees.ListEmployees(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return &EmployeeListResult{Employees: emps}, nil
}

func (s *appService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*core.Employee, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.employees.CreateEmployee(ctx, core.Employee{
		Name:       req.Name,
		Position:   req.Position,
		Department: req.Department,
		Salary:     req.Salary,
		Status:     core.EmployeeStatus(req.Status),
	})
}

// ── Bookings & tasks ──────────────────────────────────────────────────────────

func (s *appService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*core.Booking, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.tasks.CreateBooking(ctx, core.Booking{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceName:   req.ServiceName,
		TotalAmount:   req.TotalAmount,
		BookingDate:   req.BookingDate,
		BookingTime:   req.BookingTime,
		Address:       req.Address,
		Notes:         req.Notes,
	})
}

func (s *appService) ListTasks(ctx context.Context) (*core.TaskBoard, error) {
	return s.tasks.ListTasks(ctx)
}

func (s *appService) AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (*core.TaskAssignment, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.tasks.AssignEmployee(ctx, req.BookingID, req.EmployeeID, req.Notes)
}

func (s *appService) UpdateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest) (*core.TaskStatusResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	res, err := s.tasks.UpdateTaskStatus(ctx, req.AssignmentID, core.AssignmentStatus(req.Status))
	if err != nil {
		return nil, err
	}
	if res.ManagerRevenue != nil {
		metrics.ManagerCredits.Inc()
	}
	return res, nil
}

func (s *appService) UpdateBookingPayment(ctx context.Context, req UpdatePaymentRequest) (*core.Booking, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.tasks.UpdateBookingPayment(ctx, req.ID, core.PaymentStatus(req.PaymentStatus), req.AmountPaid)
}

// ── Customer records ──────────────────────────────────────────────────────────

func (s *appService) CreateCustomerRecord(ctx context.Context, req CreateCustomerRecordRequest) (*core.CustomerRecord, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.records.CreateCustomerRecord(ctx, core.CustomerRecord{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		Email:          req.Email,
		BookingDate:    req.BookingDate,
		TaskType:       req.TaskType,
		Amount:         req.Amount,
		DiscountPoints: req.DiscountPoints,
		AmountPaid:     req.AmountPaid,
		PaymentStatus:  core.PaymentStatus(req.PaymentStatus),
		Source:         req.Source,
		TaskDoneBy:     req.TaskDoneBy,
		CustomerNotes:  req.CustomerNotes,
		CustomerRating: req.CustomerRating,
	})
}

func (s *appService) ListCustomerRecords(ctx context.Context, month string) (*CustomerRecordListResult, error) {
	var (
		m core.Month
		r core.DateRange
	)
	if strings.TrimSpace(month) != "" {
		var err error
		if m, err = core.ParseMonth(month); err != nil {
			return nil, err
		}
		r = m.Range()
	}
	recs, err := s.records.ListCustomerRecords(ctx, r)
	if err != nil {
		return nil, err
	}
	return &CustomerRecordListResult{Month: m, Records: recs}, nil
}

func (s *appService) CompleteTask(ctx context.Context, customerRecordID string) (*core.TaskCompletion, error) {
	if strings.TrimSpace(customerRecordID) == "" {
		return nil, &core.ValidationError{Field: "customer_record_id", Message: "is required"}
	}
	res, err := s.records.CompleteTask(ctx, customerRecordID)
	if err != nil {
		return nil, err
	}
	if !res.AlreadyCompleted {
		metrics.TasksCompleted.Inc()
		metrics.SalaryCredits.WithLabelValues("posted").Add(float64(len(res.Credits)))
		metrics.SalaryCredits.WithLabelValues("unresolved").Add(float64(len(res.Unresolved)))
	}
	return res, nil
}

func (s *appService) CompleteTasks(ctx context.Context, customerRecordIDs []string) (*BatchCompletionResult, error) {
	if len(customerRecordIDs) == 0 {
		return nil, &core.ValidationError{Field: "ids", Message: "at least one customer record id is required"}
	}
	out := &BatchCompletionResult{Completions: make([]*core.TaskCompletion, 0, len(customerRecordIDs))}
	applied := make([]string, 0, len(customerRecordIDs))
	for _, id := range customerRecordIDs {
		res, err := s.CompleteTask(ctx, id)
		if err != nil {
			if len(applied) == 0 {
				return nil, err
			}
			s.logger.Error("batch task completion stopped",
				zap.String("failed_id", id),
				zap.Strings("applied", applied),
				zap.Error(err))
			return out, &core.PartialEffectError{Op: "complete tasks", Applied: applied, Err: err}
		}
		out.Completions = append(out.Completions, res)
		if !res.AlreadyCompleted {
			applied = append(applied, id)
		}
	}
	return out, nil
}

func (s *appService) UpdatePaymentStatus(ctx context.Context, req UpdatePaymentRequest) (*core.CustomerRecord, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.records.UpdatePaymentStatus(ctx, req.ID, core.PaymentStatus(req.PaymentStatus), req.AmountPaid)
}

// ── Managers ──────────────────────────────────────────────────────────────────

func (s *appService) RecordManagerExpense(ctx context.Context, req ManagerExpenseRequest) (*core.ManagerRevenueRecord, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	date := req.Date
	if date == "" {
		date = s.Today()
	}
	return s.managers.RecordExpense(ctx, req.EmployeeID, req.Amount, date)
}

// ── Attendance ────────────────────────────────────────────────────────────────

func (s *appService) GetAttendance(ctx context.Context, date string) (*core.AttendanceDay, error) {
	if strings.TrimSpace(date) == "" {
		date = s.Today()
	}
	return s.attendance.Day(ctx, date)
}

func (s *appService) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*core.AttendanceRecord, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.attendance.Mark(ctx, req.EmployeeID, req.Date, core.AttendanceStatus(req.Status))
}

func (s *appService) RecordAttendanceTimes(ctx context.Context, req AttendanceTimesRequest) (*core.TimesResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	res, err := s.attendance.RecordTimes(ctx, req.EmployeeID, req.Date, req.CheckInTime, req.CheckOutTime)
	if err != nil {
		return nil, err
	}
	if res.NeedsReview {
		s.logger.Warn("attendance check-out precedes check-in",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
			zap.Float64("hours", res.Record.TotalHours))
	}
	return res, nil
}
