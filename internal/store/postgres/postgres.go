// Package postgres implements core.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fieldops/internal/core"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a core.Store backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	q    querier
	tx   pgx.Tx
}

// New constructs a Store on pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

var _ core.Store = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(tx core.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, q: tx, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

// forUpdate locks selected rows when running inside a transaction.
func (s *Store) forUpdate() string {
	if s.tx != nil {
		return " FOR UPDATE"
	}
	return ""
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// storeErr maps a pgx error onto a *core.StoreError.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *core.StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.NotFound(op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &core.StoreError{Op: op, Code: core.CodeUniqueViolation, Err: err}
		case "23514", "23503", "22P02", "22007", "22008":
			return &core.StoreError{Op: op, Code: core.CodeCheckViolation, Err: err}
		case "23502":
			return &core.StoreError{Op: op, Code: core.CodeNotNullViolation, Err: err}
		}
		return &core.StoreError{Op: op, Code: core.CodeUnknown, Err: err}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &core.StoreError{Op: op, Code: core.CodeUnavailable, Err: err}
	}
	return &core.StoreError{Op: op, Code: core.CodeUnknown, Err: err}
}

// expectRow turns an UPDATE that matched nothing into a not-found error.
func expectRow(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return storeErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return core.NotFound(op)
	}
	return nil
}

// rangeClause appends date bounds on col to q.
func rangeClause(q, col string, r core.DateRange, args []any) (string, []any) {
	if r.From != "" {
		args = append(args, r.From)
		q += fmt.Sprintf(" AND %s >= $%d::date", col, len(args))
	}
	if r.To != "" {
		args = append(args, r.To)
		q += fmt.Sprintf(" AND %s <= $%d::date", col, len(args))
	}
	return q, args
}

// ── Bookings ──────────────────────────────────────────────────────────────────

const bookingCols = `
	id::text, customer_name, customer_email, customer_phone, service_name,
	total_amount, booking_date::text, booking_time, address, status,
	payment_status, amount_paid, revenue_processed, current_assignment_id::text,
	notes, created_at`

func scanBooking(row pgx.Row) (*core.Booking, error) {
	var b core.Booking
	err := row.Scan(
		&b.ID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.ServiceName,
		&b.TotalAmount, &b.BookingDate, &b.BookingTime, &b.Address, &b.Status,
		&b.PaymentStatus, &b.AmountPaid, &b.RevenueProcessed, &b.CurrentAssignmentID,
		&b.Notes, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateBooking(ctx context.Context, b *core.Booking) error {
	if b.ID == "" {
		b.ID = newID()
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO bookings (id, customer_name, customer_email, customer_phone, service_name,
		                      total_amount, booking_date, booking_time, address, status,
		                      payment_status, amount_paid, revenue_processed, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10, $11, $12, $13, $14, $15)`,
		b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.ServiceName,
		b.TotalAmount, b.BookingDate, b.BookingTime, b.Address, string(b.Status),
		string(b.PaymentStatus), b.AmountPaid, b.RevenueProcessed, b.Notes, b.CreatedAt,
	)
	return storeErr("insert bookings", err)
}

func (s *Store) GetBooking(ctx context.Context, id string) (*core.Booking, error) {
	b, err := scanBooking(s.q.QueryRow(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id = $1"+s.forUpdate(), id))
	if err != nil {
		return nil, storeErr("get booking "+id, err)
	}
	return b, nil
}

func (s *Store) ListBookings(ctx context.Context, r core.DateRange) ([]core.Booking, error) {
	q, args := rangeClause("SELECT "+bookingCols+" FROM bookings WHERE true", "booking_date", r, nil)
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	defer rows.Close()

	out := []core.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, storeErr("scan booking", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

func (s *Store) SetBookingStatus(ctx context.Context, id string, status core.BookingStatus) error {
	tag, err := s.q.Exec(ctx, "UPDATE bookings SET status = $2 WHERE id = $1", id, string(status))
	return expectRow("update booking status "+id, tag, err)
}

func (s *Store) MarkRevenueProcessed(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, "UPDATE bookings SET revenue_processed = true WHERE id = $1", id)
	return expectRow("mark revenue processed "+id, tag, err)
}

func (s *Store) SetCurrentAssignment(ctx context.Context, bookingID, assignmentID string) error {
	tag, err := s.q.Exec(ctx,
		"UPDATE bookings SET current_assignment_id = $2 WHERE id = $1", bookingID, assignmentID)
	return expectRow("set current assignment "+bookingID, tag, err)
}

func (s *Store) SetBookingPayment(ctx context.Context, id string, status core.PaymentStatus, amountPaid *decimal.Decimal) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE bookings
		SET payment_status = $2,
		    amount_paid = COALESCE($3, amount_paid)
		WHERE id = $1`, id, string(status), amountPaid)
	return expectRow("update booking payment "+id, tag, err)
}

// ── Task assignments ──────────────────────────────────────────────────────────

const assignmentCols = `
	ta.id::text, ta.booking_id::text, ta.employee_id::text, COALESCE(e.name, ''),
	ta.status, ta.notes, ta.created_at`

func scanAssignment(row pgx.Row) (*core.TaskAssignment, error) {
	var a core.TaskAssignment
	if err := row.Scan(&a.ID, &a.BookingID, &a.EmployeeID, &a.EmployeeName,
		&a.Status, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a *core.TaskAssignment) error {
	if a.ID == "" {
		a.ID = newID()
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO task_assignments (id, booking_id, employee_id, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.BookingID, a.EmployeeID, string(a.Status), a.Notes, a.CreatedAt,
	)
	return storeErr("insert task_assignments", err)
}

func (s *Store) GetAssignment(ctx context.Context, id string) (*core.TaskAssignment, error) {
	a, err := scanAssignment(s.q.QueryRow(ctx, `
		SELECT `+assignmentCols+`
		FROM task_assignments ta
		LEFT JOIN employees e ON e.id = ta.employee_id
		WHERE ta.id = $1`, id))
	if err != nil {
		return nil, storeErr("get task assignment "+id, err)
	}
	return a, nil
}

func (s *Store) ListAssignments(ctx context.Context, bookingID string) ([]core.TaskAssignment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+assignmentCols+`
		FROM task_assignments ta
		LEFT JOIN employees e ON e.id = ta.employee_id
		WHERE ($1 = '' OR ta.booking_id::text = $1)
		ORDER BY ta.created_at ASC, ta.id ASC`, bookingID)
	if err != nil {
		return nil, storeErr("list task assignments", err)
	}
	defer rows.Close()

	out := []core.TaskAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, storeErr("scan task assignment", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list task assignments", err)
	}
	return out, nil
}

func (s *Store) SetAssignmentStatus(ctx context.Context, id string, status core.AssignmentStatus) error {
	tag, err := s.q.Exec(ctx, "UPDATE task_assignments SET status = $2 WHERE id = $1", id, string(status))
	return expectRow("update task assignment "+id, tag, err)
}

// ── Customer records ──────────────────────────────────────────────────────────

const customerCols = `
	id::text, name, phone, address, email, booking_date::text, task_type,
	amount, discount_points, amount_paid, payment_status, source,
	coalesce(array_remove(task_done_by, NULL), '{}'),
	customer_notes, customer_rating, task_completed, created_at, updated_at`

func scanCustomer(row pgx.Row) (*core.CustomerRecord, error) {
	var c core.CustomerRecord
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email, &c.BookingDate, &c.TaskType,
		&c.Amount, &c.DiscountPoints, &c.AmountPaid, &c.PaymentStatus, &c.Source, &c.TaskDoneBy,
		&c.CustomerNotes, &c.CustomerRating, &c.TaskCompleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.TaskDoneBy == nil {
		c.TaskDoneBy = []string{}
	}
	return &c, nil
}

func (s *Store) CreateCustomerRecord(ctx context.Context, c *core.CustomerRecord) error {
	if c.ID == "" {
		c.ID = newID()
	}
	doneBy := c.TaskDoneBy
	if doneBy == nil {
		doneBy = []string{}
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO customer_records (id, name, phone, address, email, booking_date, task_type,
		                              amount, discount_points, amount_paid, payment_status, source,
		                              task_done_by, customer_notes, customer_rating, task_completed,
		                              created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID, c.Name, c.Phone, c.Address, c.Email, c.BookingDate, c.TaskType,
		c.Amount, c.DiscountPoints, c.AmountPaid, string(c.PaymentStatus), c.Source,
		doneBy, c.CustomerNotes, c.CustomerRating, c.TaskCompleted,
		c.CreatedAt, c.UpdatedAt,
	)
	return storeErr("insert customer_records", err)
}

func (s *Store) GetCustomerRecord(ctx context.Context, id string) (*core.CustomerRecord, error) {
	c, err := scanCustomer(s.q.QueryRow(ctx,
		"SELECT "+customerCols+" FROM customer_records WHERE id = $1"+s.forUpdate(), id))
	if err != nil {
		return nil, storeErr("get customer record "+id, err)
	}
	return c, nil
}

func (s *Store) ListCustomerRecords(ctx context.Context, r core.DateRange) ([]core.CustomerRecord, error) {
	q, args := rangeClause("SELECT "+customerCols+" FROM customer_records WHERE true", "booking_date", r, nil)
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list customer records", err)
	}
	defer rows.Close()

	out := []core.CustomerRecord{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, storeErr("scan customer record", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list customer records", err)
	}
	return out, nil
}

func (s *Store) MarkTaskCompleted(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx,
		"UPDATE customer_records SET task_completed = true, updated_at = now() WHERE id = $1", id)
	return expectRow("mark task completed "+id, tag, err)
}

func (s *Store) SetPaymentStatus(ctx context.Context, id string, status core.PaymentStatus, amountPaid *decimal.Decimal) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE customer_records
		SET payment_status = $2,
		    amount_paid = COALESCE($3, amount_paid),
		    updated_at = now()
		WHERE id = $1`, id, string(status), amountPaid)
	return expectRow("update payment status "+id, tag, err)
}

// ── Employees ─────────────────────────────────────────────────────────────────

const employeeCols = `id::text, name, position, department, salary, status, created_at`

func scanEmployee(row pgx.Row) (*core.Employee, error) {
	var e core.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Department, &e.Salary, &e.Status, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e *core.Employee) error {
	if e.ID == "" {
		e.ID = newID()
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO employees (id, name, position, department, salary, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Name, e.Position, e.Department, e.Salary, string(e.Status), e.CreatedAt,
	)
	return storeErr("insert employees", err)
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*core.Employee, error) {
	e, err := scanEmployee(s.q.QueryRow(ctx, "SELECT "+employeeCols+" FROM employees WHERE id = $1", id))
	if err != nil {
		return nil, storeErr("get employee "+id, err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]core.Employee, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+employeeCols+`
		FROM employees
		WHERE (NOT $1 OR status = 'Active')
		ORDER BY name, id`, activeOnly)
	if err != nil {
		return nil, storeErr("list employees", err)
	}
	defer rows.Close()

	out := []core.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, storeErr("scan employee", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list employees", err)
	}
	return out, nil
}

func (s *Store) FindActiveEmployeeByName(ctx context.Context, name string) (*core.Employee, error) {
	e, err := scanEmployee(s.q.QueryRow(ctx, `
		SELECT `+employeeCols+`
		FROM employees
		WHERE status = 'Active' AND name = btrim($1)
		ORDER BY created_at, id
		LIMIT 1`, name))
	if err != nil {
		return nil, storeErr("find employee "+name, err)
	}
	return e, nil
}

// ── Daily salary ──────────────────────────────────────────────────────────────

const salaryCols = `id::text, employee_id::text, date::text, total_amount, notes, updated_at`

func scanSalary(row pgx.Row) (*core.DailySalaryRecord, error) {
	var d core.DailySalaryRecord
	if err := row.Scan(&d.ID, &d.EmployeeID, &d.Date, &d.TotalAmount, &d.Notes, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// AddDailySalary relies on the (employee_id, date) unique key: concurrent
// credits for the same day add up instead of racing on insert.
func (s *Store) AddDailySalary(ctx context.Context, employeeID, date string, amount decimal.Decimal, notes string) (*core.DailySalaryRecord, error) {
	d, err := scanSalary(s.q.QueryRow(ctx, `
		INSERT INTO daily_salary_records (id, employee_id, date, total_amount, notes, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, now())
		ON CONFLICT (employee_id, date) DO UPDATE
		  SET total_amount = daily_salary_records.total_amount + EXCLUDED.total_amount,
		      updated_at   = now()
		RETURNING `+salaryCols,
		newID(), employeeID, date, amount, notes))
	if err != nil {
		return nil, storeErr("upsert daily_salary_records", err)
	}
	return d, nil
}

func (s *Store) GetDailySalary(ctx context.Context, employeeID, date string) (*core.DailySalaryRecord, error) {
	d, err := scanSalary(s.q.QueryRow(ctx,
		"SELECT "+salaryCols+" FROM daily_salary_records WHERE employee_id = $1 AND date = $2::date",
		employeeID, date))
	if err != nil {
		return nil, storeErr("get daily salary "+employeeID+" "+date, err)
	}
	return d, nil
}

func (s *Store) ListDailySalaries(ctx context.Context, r core.DateRange) ([]core.DailySalaryRecord, error) {
	q, args := rangeClause("SELECT "+salaryCols+" FROM daily_salary_records WHERE true", "date", r, nil)
	q += " ORDER BY date, employee_id"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list daily salaries", err)
	}
	defer rows.Close()

	out := []core.DailySalaryRecord{}
	for rows.Next() {
		d, err := scanSalary(rows)
		if err != nil {
			return nil, storeErr("scan daily salary", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list daily salaries", err)
	}
	return out, nil
}

// ── Manager revenue ───────────────────────────────────────────────────────────

const managerCols = `
	id::text, manager_id::text, date::text, revenue_generated, task_amounts,
	tasks_received, expenses, profit, updated_at`

func scanManager(row pgx.Row) (*core.ManagerRevenueRecord, error) {
	var m core.ManagerRevenueRecord
	if err := row.Scan(&m.ID, &m.ManagerID, &m.Date, &m.RevenueGenerated, &m.TaskAmounts,
		&m.TasksReceived, &m.Expenses, &m.Profit, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetManagerRevenue(ctx context.Context, managerID, date string) (*core.ManagerRevenueRecord, error) {
	m, err := scanManager(s.q.QueryRow(ctx,
		"SELECT "+managerCols+" FROM manager_revenue WHERE manager_id = $1 AND date = $2::date"+s.forUpdate(),
		managerID, date))
	if err != nil {
		return nil, storeErr("get manager revenue "+managerID+" "+date, err)
	}
	return m, nil
}

func (s *Store) SaveManagerRevenue(ctx context.Context, rec *core.ManagerRevenueRecord) error {
	var row pgx.Row
	if rec.ID == "" {
		row = s.q.QueryRow(ctx, `
			INSERT INTO manager_revenue (id, manager_id, date, revenue_generated, task_amounts,
			                             tasks_received, expenses, profit, updated_at)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, now())
			ON CONFLICT (manager_id, date) DO UPDATE
			  SET revenue_generated = manager_revenue.revenue_generated + EXCLUDED.revenue_generated,
			      task_amounts      = manager_revenue.task_amounts + EXCLUDED.task_amounts,
			      tasks_received    = manager_revenue.tasks_received + EXCLUDED.tasks_received,
			      expenses          = manager_revenue.expenses + EXCLUDED.expenses,
			      profit            = (manager_revenue.revenue_generated + EXCLUDED.revenue_generated)
			                        - (manager_revenue.expenses + EXCLUDED.expenses),
			      updated_at        = now()
			RETURNING `+managerCols,
			newID(), rec.ManagerID, rec.Date, rec.RevenueGenerated, rec.TaskAmounts,
			rec.TasksReceived, rec.Expenses, rec.Profit)
	} else {
		row = s.q.QueryRow(ctx, `
			UPDATE manager_revenue
			SET revenue_generated = $2, task_amounts = $3, tasks_received = $4,
			    expenses = $5, profit = $6, updated_at = now()
			WHERE id = $1
			RETURNING `+managerCols,
			rec.ID, rec.RevenueGenerated, rec.TaskAmounts, rec.TasksReceived, rec.Expenses, rec.Profit)
	}
	m, err := scanManager(row)
	if err != nil {
		return storeErr("save manager revenue", err)
	}
	*rec = *m
	return nil
}

func (s *Store) ListManagerRevenue(ctx context.Context, r core.DateRange) ([]core.ManagerRevenueRecord, error) {
	q, args := rangeClause("SELECT "+managerCols+" FROM manager_revenue WHERE true", "date", r, nil)
	q += " ORDER BY date, manager_id"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list manager revenue", err)
	}
	defer rows.Close()

	out := []core.ManagerRevenueRecord{}
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, storeErr("scan manager revenue", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list manager revenue", err)
	}
	return out, nil
}

// ── Monthly expense sheets ────────────────────────────────────────────────────

func (s *Store) GetExpenseSheet(ctx context.Context, month core.Month) (*core.ExpenseSheet, error) {
	var direct, salary, repair []byte
	sheet := core.ExpenseSheet{Month: month}
	err := s.q.QueryRow(ctx, `
		SELECT direct_expenses::text, salary_expenses::text, repair_maintenance::text,
		       deposits, updated_at
		FROM monthly_expenses
		WHERE month = $1`, string(month),
	).Scan(&direct, &salary, &repair, &sheet.Deposits, &sheet.UpdatedAt)
	if err != nil {
		return nil, storeErr("get expense sheet "+string(month), err)
	}
	sheet.DirectExpenses = core.DecodeLineItems[core.ExpenseItem](direct)
	sheet.SalaryExpenses = core.DecodeLineItems[core.ExpenseItem](salary)
	sheet.RepairMaintenance = core.DecodeLineItems[core.RepairItem](repair)
	return &sheet, nil
}

func (s *Store) UpsertExpenseSheet(ctx context.Context, sheet *core.ExpenseSheet) error {
	direct, err := json.Marshal(sheet.DirectExpenses)
	if err != nil {
		return fmt.Errorf("failed to encode direct expenses: %w", err)
	}
	salary, err := json.Marshal(sheet.SalaryExpenses)
	if err != nil {
		return fmt.Errorf("failed to encode salary expenses: %w", err)
	}
	repair, err := json.Marshal(sheet.RepairMaintenance)
	if err != nil {
		return fmt.Errorf("failed to encode repair items: %w", err)
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO monthly_expenses (month, direct_expenses, salary_expenses, repair_maintenance, deposits, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5, $6)
		ON CONFLICT (month) DO UPDATE
		  SET direct_expenses    = EXCLUDED.direct_expenses,
		      salary_expenses    = EXCLUDED.salary_expenses,
		      repair_maintenance = EXCLUDED.repair_maintenance,
		      deposits           = EXCLUDED.deposits,
		      updated_at         = EXCLUDED.updated_at`,
		string(sheet.Month), string(direct), string(salary), string(repair), sheet.Deposits, sheet.UpdatedAt,
	)
	return storeErr("upsert monthly_expenses", err)
}

// ── Attendance ────────────────────────────────────────────────────────────────

const attendanceCols = `
	a.id::text, a.employee_id::text, COALESCE(e.name, ''), a.date::text, a.status,
	COALESCE(to_char(a.check_in_time, 'HH24:MI'), ''),
	COALESCE(to_char(a.check_out_time, 'HH24:MI'), ''),
	a.total_hours, a.created_at`

func scanAttendance(row pgx.Row) (*core.AttendanceRecord, error) {
	var r core.AttendanceRecord
	if err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Date, &r.Status,
		&r.CheckInTime, &r.CheckOutTime, &r.TotalHours, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetAttendance(ctx context.Context, employeeID, date string) (*core.AttendanceRecord, error) {
	r, err := scanAttendance(s.q.QueryRow(ctx, `
		SELECT `+attendanceCols+`
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2::date`, employeeID, date))
	if err != nil {
		return nil, storeErr("get attendance "+employeeID+" "+date, err)
	}
	return r, nil
}

func (s *Store) UpsertAttendance(ctx context.Context, rec *core.AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	err := s.q.QueryRow(ctx, `
		INSERT INTO attendance (id, employee_id, date, status, check_in_time, check_out_time, total_hours)
		VALUES ($1, $2, $3::date, $4, NULLIF($5, '')::time, NULLIF($6, '')::time, $7)
		ON CONFLICT (employee_id, date) DO UPDATE
		  SET status         = EXCLUDED.status,
		      check_in_time  = EXCLUDED.check_in_time,
		      check_out_time = EXCLUDED.check_out_time,
		      total_hours    = EXCLUDED.total_hours
		RETURNING id::text, created_at`,
		rec.ID, rec.EmployeeID, rec.Date, string(rec.Status), rec.CheckInTime, rec.CheckOutTime, rec.TotalHours,
	).Scan(&rec.ID, &rec.CreatedAt)
	return storeErr("upsert attendance", err)
}

func (s *Store) ListAttendance(ctx context.Context, date string) ([]core.AttendanceRecord, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+attendanceCols+`
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1::date
		ORDER BY e.name, a.employee_id`, date)
	if err != nil {
		return nil, storeErr("list attendance", err)
	}
	defer rows.Close()

	out := []core.AttendanceRecord{}
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, storeErr("scan attendance", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list attendance", err)
	}
	return out, nil
}
