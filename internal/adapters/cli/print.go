package cli

import (
	"fmt"
	"io"
	"strings"

	"fieldops/internal/app"
	"fieldops/internal/core"

	"github.com/shopspring/decimal"
)

const rule = 62

func header(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintf(w, "  %-58s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

func line(w io.Writer, label string, v decimal.Decimal) {
	fmt.Fprintf(w, "  %-40s %19s\n", label, v.StringFixed(2))
}

func pct(w io.Writer, label string, v decimal.Decimal) {
	fmt.Fprintf(w, "  %-40s %18s%%\n", label, v.StringFixed(1))
}

func printSummary(w io.Writer, s *core.AccountsSummary) {
	header(w, "ACCOUNTS SUMMARY  "+string(s.Month))

	fmt.Fprintf(w, "  %-40s %19s\n", "Bookings completed / total", fmt.Sprintf("%d / %d", s.CompletedBookings, s.TotalBookings))
	line(w, "Booking revenue", s.BookingRevenue)
	fmt.Fprintf(w, "  %-40s %19d\n", "Customer records", s.CustomerRecords)
	line(w, "Customer records revenue", s.CustomerRecordsRevenue)
	line(w, "Customer records paid", s.CustomerRecordsPaid)
	line(w, "TOTAL REVENUE", s.TotalRevenue)
	fmt.Fprintln(w, strings.Repeat("-", rule))

	line(w, "Direct expenses", s.TotalDirectExpenses)
	line(w, fmt.Sprintf("Salary expenses (%s)", s.SalarySource), s.TotalSalaryExpenses)
	line(w, "Repair & maintenance", s.TotalRepairMaintenance)
	line(w, "TOTAL EXPENSES", s.TotalExpenses)
	fmt.Fprintln(w, strings.Repeat("-", rule))

	line(w, "Net profit", s.NetProfit)
	line(w, "Deposits", s.Deposits)
	line(w, "Overdue", s.Overdue)
	line(w, "NET BALANCE", s.NetBalance)
	fmt.Fprintln(w, strings.Repeat("-", rule))

	line(w, "Manager revenue", s.TotalManagerRevenue)
	line(w, "Manager expenses", s.TotalManagerExpenses)
	line(w, "Manager profit", s.ManagerProfit)
	fmt.Fprintln(w, strings.Repeat("-", rule))

	pct(w, "Direct expense share", s.DirectExpenseShare)
	pct(w, "Salary expense share", s.SalaryExpenseShare)
	pct(w, "Repair share", s.RepairShare)
	pct(w, "Profit margin", s.ProfitMargin)
	pct(w, "Manager profit margin", s.ManagerProfitMargin)
	fmt.Fprintln(w, strings.Repeat("=", rule))
	if !s.ExpenseSheetSaved {
		fmt.Fprintln(w, "  No expense sheet saved for this month.")
	}
}

func printExpenseSheet(w io.Writer, res *app.ExpenseSheetResult) {
	s := res.Sheet
	title := "EXPENSE SHEET  " + string(s.Month)
	if !res.Persisted {
		title += "  (not saved)"
	}
	header(w, title)
	fmt.Fprintln(w, "  Direct expenses")
	for _, it := range s.DirectExpenses {
		line(w, "    "+it.Type, it.Amount)
	}
	fmt.Fprintln(w, "  Salary expenses")
	for _, it := range s.SalaryExpenses {
		line(w, "    "+it.Type, it.Amount)
	}
	fmt.Fprintln(w, "  Repair & maintenance")
	for _, it := range s.RepairMaintenance {
		label := it.Type
		if it.Description != "" {
			label += " - " + it.Description
		}
		line(w, "    "+label, it.Amount)
	}
	fmt.Fprintln(w, strings.Repeat("-", rule))
	line(w, "Deposits", s.Deposits)
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

func printEmployees(w io.Writer, emps []core.Employee) {
	header(w, "EMPLOYEES")
	fmt.Fprintf(w, "  %-36s %-20s %-8s\n", "ID", "NAME", "STATUS")
	fmt.Fprintln(w, strings.Repeat("-", rule))
	for _, e := range emps {
		fmt.Fprintf(w, "  %-36s %-20s %-8s\n", e.ID, e.Name, e.Status)
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

func printTaskBoard(w io.Writer, board *core.TaskBoard) {
	header(w, "TASKS")
	fmt.Fprintf(w, "  Unassigned (%d)\n", len(board.Unassigned))
	for _, t := range board.Unassigned {
		fmt.Fprintf(w, "    %s  %s  %s  %s\n", t.Booking.ID, t.Booking.BookingDate, t.Booking.CustomerName, t.Booking.ServiceName)
	}
	fmt.Fprintf(w, "  Assigned (%d)\n", len(board.Assigned))
	for _, t := range board.Assigned {
		who, status := "", ""
		if t.Assignment != nil {
			who, status = t.Assignment.EmployeeName, string(t.Assignment.Status)
		}
		fmt.Fprintf(w, "    %s  %s  %s  %s  [%s]\n", t.Booking.ID, t.Booking.BookingDate, t.Booking.CustomerName, who, status)
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

func printCustomerRecords(w io.Writer, res *app.CustomerRecordListResult) {
	title := "CUSTOMER RECORDS"
	if res.Month != "" {
		title += "  " + string(res.Month)
	}
	header(w, title)
	for _, r := range res.Records {
		done := " "
		if r.TaskCompleted {
			done = "x"
		}
		fmt.Fprintf(w, "  [%s] %s  %-16s %12s  %s\n", done, r.BookingDate, r.Name, r.Amount.StringFixed(2), r.PaymentStatus)
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

func printCompletion(w io.Writer, c *core.TaskCompletion) {
	if c.AlreadyCompleted {
		fmt.Fprintf(w, "%s: already completed\n", c.CustomerRecordID)
		return
	}
	fmt.Fprintf(w, "%s: %s each to %d employee(s) on %s\n",
		c.CustomerRecordID, c.PerEmployeeAmount.StringFixed(2), c.EmployeeCount, c.Date)
	for _, cr := range c.Credits {
		fmt.Fprintf(w, "  %-20s +%s (day total %s)\n", cr.EmployeeName, cr.Amount.StringFixed(2), cr.DayTotal.StringFixed(2))
	}
	if len(c.Unresolved) > 0 {
		fmt.Fprintf(w, "  not found: %s\n", strings.Join(c.Unresolved, ", "))
	}
}

func printAttendance(w io.Writer, day *core.AttendanceDay) {
	header(w, "ATTENDANCE  "+day.Date)
	for _, r := range day.Records {
		name := r.EmployeeName
		if name == "" {
			name = r.EmployeeID
		}
		fmt.Fprintf(w, "  %-24s %-8s %-6s %-6s %6.2f\n", name, r.Status, r.CheckInTime, r.CheckOutTime, r.TotalHours)
	}
	fmt.Fprintln(w, strings.Repeat("-", rule))
	fmt.Fprintf(w, "  Present %d   Absent %d   Active employees %d\n", day.Present, day.Absent, day.ActiveEmployees)
	fmt.Fprintln(w, strings.Repeat("=", rule))
}
