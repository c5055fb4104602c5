package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ── Summary types ─────────────────────────────────────────────────────────────

// SalarySource records where TotalSalaryExpenses came from.
type SalarySource string

const (
	// SalaryFromDailyRecords means task-based payroll rows existed for the month.
	SalaryFromDailyRecords SalarySource = "daily_salary_records"
	// SalaryFromExpenseSheet means no payroll rows existed and the manually
	// entered salary lines of the expense sheet were used instead.
	SalaryFromExpenseSheet SalarySource = "expense_sheet"
)

// AccountsSummary is the derived financial picture of one month.
type AccountsSummary struct {
	Month Month `json:"month"`

	TotalBookings          int             `json:"total_bookings"`
	CompletedBookings      int             `json:"completed_bookings"`
	BookingRevenue         decimal.Decimal `json:"booking_revenue"`
	CustomerRecords        int             `json:"customer_records"`
	CustomerRecordsRevenue decimal.Decimal `json:"customer_records_revenue"`
	CustomerRecordsPaid    decimal.Decimal `json:"customer_records_paid"`
	TotalRevenue           decimal.Decimal `json:"total_revenue"`

	TotalDirectExpenses    decimal.Decimal `json:"total_direct_expenses"`
	TotalSalaryExpenses    decimal.Decimal `json:"total_salary_expenses"`
	SalarySource           SalarySource    `json:"salary_source"`
	TotalRepairMaintenance decimal.Decimal `json:"total_repair_maintenance"`
	TotalExpenses          decimal.Decimal `json:"total_expenses"`

	Deposits   decimal.Decimal `json:"deposits"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	Overdue    decimal.Decimal `json:"overdue"`
	NetBalance decimal.Decimal `json:"net_balance"`

	TotalManagerRevenue  decimal.Decimal `json:"total_manager_revenue"`
	TotalManagerExpenses decimal.Decimal `json:"total_manager_expenses"`
	ManagerProfit        decimal.Decimal `json:"manager_profit"`

	// Percentages of TotalRevenue (ManagerProfitMargin is of manager revenue).
	DirectExpenseShare  decimal.Decimal `json:"direct_expense_share"`
	SalaryExpenseShare  decimal.Decimal `json:"salary_expense_share"`
	RepairShare         decimal.Decimal `json:"repair_share"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"`
	ManagerProfitMargin decimal.Decimal `json:"manager_profit_margin"`

	ExpenseSheetSaved bool `json:"expense_sheet_saved"`
}

// SummaryInputs is everything Summarize reads. Rows outside Month are ignored.
type SummaryInputs struct {
	Month           Month
	Bookings        []Booking
	CustomerRecords []CustomerRecord
	DailySalaries   []DailySalaryRecord
	ManagerRevenue  []ManagerRevenueRecord
	Employees       []Employee
	Sheet           *ExpenseSheet // nil when nothing is saved for the month
}

// ── Aggregation ───────────────────────────────────────────────────────────────

// Summarize reduces the month's rows to an AccountsSummary. It has no side
// effects and returns identical output for identical input.
func Summarize(in SummaryInputs) *AccountsSummary {
	r := in.Month.Range()
	s := &AccountsSummary{Month: in.Month}

	// Bookings: revenue counts only completed work.
	for _, b := range in.Bookings {
		if !r.Contains(b.BookingDate) {
			continue
		}
		s.TotalBookings++
		if b.Status != BookingCompleted {
			continue
		}
		s.CompletedBookings++
		s.BookingRevenue = s.BookingRevenue.Add(b.TotalAmount)
		if isOverdue(b.PaymentStatus) {
			s.Overdue = s.Overdue.Add(outstanding(b.TotalAmount, b.AmountPaid))
		}
	}

	// Customer records are summed regardless of completion.
	for _, c := range in.CustomerRecords {
		if !r.Contains(c.BookingDate) {
			continue
		}
		s.CustomerRecords++
		s.CustomerRecordsRevenue = s.CustomerRecordsRevenue.Add(c.Amount)
		s.CustomerRecordsPaid = s.CustomerRecordsPaid.Add(c.AmountPaid)
		if isOverdue(c.PaymentStatus) {
			s.Overdue = s.Overdue.Add(outstanding(c.Amount, c.AmountPaid))
		}
	}
	s.TotalRevenue = s.BookingRevenue.Add(s.CustomerRecordsRevenue)

	var sheetSalaries decimal.Decimal
	if in.Sheet != nil {
		s.ExpenseSheetSaved = true
		s.TotalDirectExpenses = sumExpenseItems(in.Sheet.DirectExpenses)
		s.TotalRepairMaintenance = sumRepairItems(in.Sheet.RepairMaintenance)
		sheetSalaries = sumExpenseItems(in.Sheet.SalaryExpenses)
		s.Deposits = in.Sheet.Deposits
	}

	var payroll decimal.Decimal
	var payrollRows int
	for _, d := range in.DailySalaries {
		if !r.Contains(d.Date) {
			continue
		}
		payrollRows++
		payroll = payroll.Add(d.TotalAmount)
	}
	if payrollRows > 0 {
		s.TotalSalaryExpenses = payroll
		s.SalarySource = SalaryFromDailyRecords
	} else {
		s.TotalSalaryExpenses = sheetSalaries
		s.SalarySource = SalaryFromExpenseSheet
	}

	s.TotalExpenses = s.TotalDirectExpenses.Add(s.TotalSalaryExpenses).Add(s.TotalRepairMaintenance)
	s.NetProfit = s.TotalRevenue.Sub(s.TotalExpenses)
	s.NetBalance = s.NetProfit.Add(s.Deposits).Sub(s.Overdue)

	known := make(map[string]bool, len(in.Employees))
	for _, e := range in.Employees {
		known[e.ID] = true
	}
	for _, m := range in.ManagerRevenue {
		if !r.Contains(m.Date) || !known[m.ManagerID] {
			continue
		}
		s.TotalManagerRevenue = s.TotalManagerRevenue.Add(m.RevenueGenerated)
		s.TotalManagerExpenses = s.TotalManagerExpenses.Add(m.Expenses)
	}
	s.ManagerProfit = s.TotalManagerRevenue.Sub(s.TotalManagerExpenses)

	s.DirectExpenseShare = Percentage(s.TotalDirectExpenses, s.TotalRevenue)
	s.SalaryExpenseShare = Percentage(s.TotalSalaryExpenses, s.TotalRevenue)
	s.RepairShare = Percentage(s.TotalRepairMaintenance, s.TotalRevenue)
	s.ProfitMargin = Percentage(s.NetProfit, s.TotalRevenue)
	s.ManagerProfitMargin = Percentage(s.ManagerProfit, s.TotalManagerRevenue)
	return s
}

// ── Interface ─────────────────────────────────────────────────────────────────

// AccountsService computes month-level financial summaries.
type AccountsService interface {
	// ComputeSummary reads the month's rows and reduces them with Summarize.
	// It never writes.
	ComputeSummary(ctx context.Context, month Month) (*AccountsSummary, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type accountsService struct {
	store Store
}

// NewAccountsService constructs an AccountsService backed by store.
func NewAccountsService(store Store) AccountsService {
	return &accountsService{store: store}
}

func (s *accountsService) ComputeSummary(ctx context.Context, month Month) (*AccountsSummary, error) {
	if _, err := ParseMonth(string(month)); err != nil {
		return nil, err
	}
	r := month.Range()
	in := SummaryInputs{Month: month}

	var err error
	if in.Bookings, err = s.store.ListBookings(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if in.CustomerRecords, err = s.store.ListCustomerRecords(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to load customer records: %w", err)
	}
	if in.DailySalaries, err = s.store.ListDailySalaries(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to load daily salaries: %w", err)
	}
	if in.ManagerRevenue, err = s.store.ListManagerRevenue(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to load manager revenue: %w", err)
	}
	if in.Employees, err = s.store.ListEmployees(ctx, false); err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	sheet, err := s.store.GetExpenseSheet(ctx, month)
	switch {
	case err == nil:
		in.Sheet = sheet
	case errors.Is(err, ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to load expense sheet: %w", err)
	}

	return Summarize(in), nil
}
