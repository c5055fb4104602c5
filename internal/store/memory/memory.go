// Package memory is an in-process core.Store. Transactions work on a copy of
// the dataset that replaces the live one on commit, so a failed InTx leaves
// no trace. It backs the "memory" database driver and the unit tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fieldops/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type dayKey struct {
	id   string
	date string
}

type dataset struct {
	bookings    map[string]core.Booking
	assignments map[string]core.TaskAssignment
	customers   map[string]core.CustomerRecord
	employees   map[string]core.Employee
	salaries    map[dayKey]core.DailySalaryRecord
	managers    map[dayKey]core.ManagerRevenueRecord
	sheets      map[core.Month]core.ExpenseSheet
	attendance  map[dayKey]core.AttendanceRecord
}

func newDataset() *dataset {
	return &dataset{
		bookings:    map[string]core.Booking{},
		assignments: map[string]core.TaskAssignment{},
		customers:   map[string]core.CustomerRecord{},
		employees:   map[string]core.Employee{},
		salaries:    map[dayKey]core.DailySalaryRecord{},
		managers:    map[dayKey]core.ManagerRevenueRecord{},
		sheets:      map[core.Month]core.ExpenseSheet{},
		attendance:  map[dayKey]core.AttendanceRecord{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.bookings {
		c.bookings[k] = cloneBooking(v)
	}
	for k, v := range d.assignments {
		c.assignments[k] = cloneAssignment(v)
	}
	for k, v := range d.customers {
		c.customers[k] = cloneCustomer(v)
	}
	for k, v := range d.employees {
		c.employees[k] = v
	}
	for k, v := range d.salaries {
		c.salaries[k] = v
	}
	for k, v := range d.managers {
		c.managers[k] = v
	}
	for k, v := range d.sheets {
		c.sheets[k] = cloneSheet(v)
	}
	for k, v := range d.attendance {
		c.attendance[k] = v
	}
	return c
}

// faultSet holds one-shot errors injected per operation name.
type faultSet struct {
	mu     sync.Mutex
	faults map[string]error
}

// Store is a core.Store held in memory.
type Store struct {
	mu     *sync.Mutex
	data   *dataset
	inTx   bool
	faults *faultSet
	now    func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		mu:     &sync.Mutex{},
		data:   newDataset(),
		faults: &faultSet{faults: map[string]error{}},
		now:    time.Now,
	}
}

var _ core.Store = (*Store)(nil)

// InjectFault makes the next call of the named method (e.g. "AddDailySalary")
// fail with a CodeUnavailable StoreError wrapping err.
func (s *Store) InjectFault(op string, err error) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	s.faults.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	err, ok := s.faults.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults.faults, op)
	return &core.StoreError{Op: op, Code: core.CodeUnavailable, Err: err}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) InTx(ctx context.Context, fn func(tx core.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return &core.StoreError{Op: "begin", Code: core.CodeUnavailable, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true, faults: s.faults, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ── Bookings ──────────────────────────────────────────────────────────────────

func (s *Store) CreateBooking(ctx context.Context, b *core.Booking) error {
	if err := s.fault("CreateBooking"); err != nil {
		return err
	}
	defer s.lock()()
	if b.ID == "" {
		b.ID = newID()
	}
	if _, ok := s.data.bookings[b.ID]; ok {
		return &core.StoreError{Op: "insert bookings", Code: core.CodeUniqueViolation}
	}
	s.data.bookings[b.ID] = cloneBooking(*b)
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*core.Booking, error) {
	defer s.lock()()
	b, ok := s.data.bookings[id]
	if !ok {
		return nil, core.NotFound("get booking " + id)
	}
	b = cloneBooking(b)
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, r core.DateRange) ([]core.Booking, error) {
	defer s.lock()()
	out := []core.Booking{}
	for _, b := range s.data.bookings {
		if inRange(r, b.BookingDate) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) updateBooking(op, id string, fn func(b *core.Booking)) error {
	if err := s.fault(op); err != nil {
		return err
	}
	defer s.lock()()
	b, ok := s.data.bookings[id]
	if !ok {
		return core.NotFound("update booking " + id)
	}
	fn(&b)
	s.data.bookings[id] = b
	return nil
}

func (s *Store) SetBookingStatus(ctx context.Context, id string, status core.BookingStatus) error {
	return s.updateBooking("SetBookingStatus", id, func(b *core.Booking) { b.Status = status })
}

func (s *Store) MarkRevenueProcessed(ctx context.Context, id string) error {
	return s.updateBooking("MarkRevenueProcessed", id, func(b *core.Booking) { b.RevenueProcessed = true })
}

func (s *Store) SetCurrentAssignment(ctx context.Context, bookingID, assignmentID string) error {
	return s.updateBooking("SetCurrentAssignment", bookingID, func(b *core.Booking) {
		id := assignmentID
		b.CurrentAssignmentID = &id
	})
}

func (s *Store) SetBookingPayment(ctx context.Context, id string, status core.PaymentStatus, amountPaid *decimal.Decimal) error {
	return s.updateBooking("SetBookingPayment", id, func(b *core.Booking) {
		b.PaymentStatus = status
		if amountPaid != nil {
			b.AmountPaid = *amountPaid
		}
	})
}

// ── Task assignments ──────────────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *core.TaskAssignment) error {
	if err := s.fault("CreateAssignment"); err != nil {
		return err
	}
	defer s.lock()()
	if a.ID == "" {
		a.ID = newID()
	}
	if _, ok := s.data.bookings[a.BookingID]; !ok {
		return &core.StoreError{Op: "insert task_assignments", Code: core.CodeCheckViolation,
			Err: fmt.Errorf("booking %s does not exist", a.BookingID)}
	}
	if _, ok := s.data.assignments[a.ID]; ok {
		return &core.StoreError{Op: "insert task_assignments", Code: core.CodeUniqueViolation}
	}
	s.data.assignments[a.ID] = cloneAssignment(*a)
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, id string) (*core.TaskAssignment, error) {
	defer s.lock()()
	a, ok := s.data.assignments[id]
	if !ok {
		return nil, core.NotFound("get task assignment " + id)
	}
	a = s.joinAssignment(a)
	return &a, nil
}

func (s *Store) ListAssignments(ctx context.Context, bookingID string) ([]core.TaskAssignment, error) {
	defer s.lock()()
	out := []core.TaskAssignment{}
	for _, a := range s.data.assignments {
		if bookingID == "" || a.BookingID == bookingID {
			out = append(out, s.joinAssignment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SetAssignmentStatus(ctx context.Context, id string, status core.AssignmentStatus) error {
	if err := s.fault("SetAssignmentStatus"); err != nil {
		return err
	}
	defer s.lock()()
	a, ok := s.data.assignments[id]
	if !ok {
		return core.NotFound("update task assignment " + id)
	}
	a.Status = status
	s.data.assignments[id] = a
	return nil
}

func (s *Store) joinAssignment(a core.TaskAssignment) core.TaskAssignment {
	a = cloneAssignment(a)
	if a.EmployeeID != nil {
		if e, ok := s.data.employees[*a.EmployeeID]; ok {
			a.EmployeeName = e.Name
		}
	}
	return a
}

// ── Customer records ──────────────────────────────────────────────────────────

func (s *Store) CreateCustomerRecord(ctx context.Context, c *core.CustomerRecord) error {
	if err := s.fault("CreateCustomerRecord"); err != nil {
		return err
	}
	defer s.lock()()
	if c.ID == "" {
		c.ID = newID()
	}
	if _, ok := s.data.customers[c.ID]; ok {
		return &core.StoreError{Op: "insert customer_records", Code: core.CodeUniqueViolation}
	}
	s.data.customers[c.ID] = cloneCustomer(*c)
	return nil
}

func (s *Store) GetCustomerRecord(ctx context.Context, id string) (*core.CustomerRecord, error) {
	defer s.lock()()
	c, ok := s.data.customers[id]
	if !ok {
		return nil, core.NotFound("get customer record " + id)
	}
	c = cloneCustomer(c)
	return &c, nil
}

func (s *Store) ListCustomerRecords(ctx context.Context, r core.DateRange) ([]core.CustomerRecord, error) {
	defer s.lock()()
	out := []core.CustomerRecord{}
	for _, c := range s.data.customers {
		if inRange(r, c.BookingDate) {
			out = append(out, cloneCustomer(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) updateCustomer(op, id string, fn func(c *core.CustomerRecord)) error {
	if err := s.fault(op); err != nil {
		return err
	}
	defer s.lock()()
	c, ok := s.data.customers[id]
	if !ok {
		return core.NotFound("update customer record " + id)
	}
	fn(&c)
	c.UpdatedAt = s.now()
	s.data.customers[id] = c
	return nil
}

func (s *Store) MarkTaskCompleted(ctx context.Context, id string) error {
	return s.updateCustomer("MarkTaskCompleted", id, func(c *core.CustomerRecord) { c.TaskCompleted = true })
}

func (s *Store) SetPaymentStatus(ctx context.Context, id string, status core.PaymentStatus, amountPaid *decimal.Decimal) error {
	return s.updateCustomer("SetPaymentStatus", id, func(c *core.CustomerRecord) {
		c.PaymentStatus = status
		if amountPaid != nil {
			c.AmountPaid = *amountPaid
		}
	})
}

// ── Employees ─────────────────────────────────────────────────────────────────

func (s *Store) CreateEmployee(ctx context.Context, e *core.Employee) error {
	if err := s.fault("CreateEmployee"); err != nil {
		return err
	}
	defer s.lock()()
	if e.ID == "" {
		e.ID = newID()
	}
	if _, ok := s.data.employees[e.ID]; ok {
		return &core.StoreError{Op: "insert employees", Code: core.CodeUniqueViolation}
	}
	s.data.employees[e.ID] = *e
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*core.Employee, error) {
	defer s.lock()()
	e, ok := s.data.employees[id]
	if !ok {
		return nil, core.NotFound("get employee " + id)
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]core.Employee, error) {
	defer s.lock()()
	out := []core.Employee{}
	for _, e := range s.data.employees {
		if activeOnly && e.Status != core.EmployeeActive {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) FindActiveEmployeeByName(ctx context.Context, name string) (*core.Employee, error) {
	if err := s.fault("FindActiveEmployeeByName"); err != nil {
		return nil, err
	}
	defer s.lock()()
	name = strings.TrimSpace(name)
	var found *core.Employee
	for _, e := range s.data.employees {
		if e.Status != core.EmployeeActive || e.Name != name {
			continue
		}
		if found == nil || e.CreatedAt.Before(found.CreatedAt) {
			e := e
			found = &e
		}
	}
	if found == nil {
		return nil, core.NotFound("find employee " + name)
	}
	return found, nil
}

// ── Daily salary ──────────────────────────────────────────────────────────────

func (s *Store) AddDailySalary(ctx context.Context, employeeID, date string, amount decimal.Decimal, notes string) (*core.DailySalaryRecord, error) {
	if err := s.fault("AddDailySalary"); err != nil {
		return nil, err
	}
	defer s.lock()()
	if _, ok := s.data.employees[employeeID]; !ok {
		return nil, &core.StoreError{Op: "upsert daily_salary_records", Code: core.CodeCheckViolation,
			Err: fmt.Errorf("employee %s does not exist", employeeID)}
	}
	k := dayKey{employeeID, date}
	rec, ok := s.data.salaries[k]
	if ok {
		rec.TotalAmount = rec.TotalAmount.Add(amount)
	} else {
		rec = core.DailySalaryRecord{
			ID:          newID(),
			EmployeeID:  employeeID,
			Date:        date,
			TotalAmount: amount,
			Notes:       notes,
		}
	}
	rec.UpdatedAt = s.now()
	s.data.salaries[k] = rec
	return &rec, nil
}

func (s *Store) GetDailySalary(ctx context.Context, employeeID, date string) (*core.DailySalaryRecord, error) {
	defer s.lock()()
	rec, ok := s.data.salaries[dayKey{employeeID, date}]
	if !ok {
		return nil, core.NotFound("get daily salary " + employeeID + " " + date)
	}
	return &rec, nil
}

func (s *Store) ListDailySalaries(ctx context.Context, r core.DateRange) ([]core.DailySalaryRecord, error) {
	defer s.lock()()
	out := []core.DailySalaryRecord{}
	for _, rec := range s.data.salaries {
		if inRange(r, rec.Date) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

// ── Manager revenue ───────────────────────────────────────────────────────────

func (s *Store) GetManagerRevenue(ctx context.Context, managerID, date string) (*core.ManagerRevenueRecord, error) {
	defer s.lock()()
	rec, ok := s.data.managers[dayKey{managerID, date}]
	if !ok {
		return nil, core.NotFound("get manager revenue " + managerID + " " + date)
	}
	return &rec, nil
}

func (s *Store) SaveManagerRevenue(ctx context.Context, rec *core.ManagerRevenueRecord) error {
	if err := s.fault("SaveManagerRevenue"); err != nil {
		return err
	}
	defer s.lock()()
	k := dayKey{rec.ManagerID, rec.Date}
	existing, ok := s.data.managers[k]
	switch {
	case rec.ID == "" && ok:
		existing.RevenueGenerated = existing.RevenueGenerated.Add(rec.RevenueGenerated)
		existing.TaskAmounts = existing.TaskAmounts.Add(rec.TaskAmounts)
		existing.TasksReceived += rec.TasksReceived
		existing.Expenses = existing.Expenses.Add(rec.Expenses)
		existing.Profit = existing.RevenueGenerated.Sub(existing.Expenses)
		*rec = existing
	case rec.ID == "":
		rec.ID = newID()
	case !ok || existing.ID != rec.ID:
		return core.NotFound("update manager revenue " + rec.ID)
	}
	rec.UpdatedAt = s.now()
	s.data.managers[k] = *rec
	return nil
}

func (s *Store) ListManagerRevenue(ctx context.Context, r core.DateRange) ([]core.ManagerRevenueRecord, error) {
	defer s.lock()()
	out := []core.ManagerRevenueRecord{}
	for _, rec := range s.data.managers {
		if inRange(r, rec.Date) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ManagerID < out[j].ManagerID
	})
	return out, nil
}

// ── Monthly expense sheets ────────────────────────────────────────────────────

func (s *Store) GetExpenseSheet(ctx context.Context, month core.Month) (*core.ExpenseSheet, error) {
	defer s.lock()()
	sheet, ok := s.data.sheets[month]
	if !ok {
		return nil, core.NotFound("get expense sheet " + string(month))
	}
	sheet = cloneSheet(sheet)
	return &sheet, nil
}

func (s *Store) UpsertExpenseSheet(ctx context.Context, sheet *core.ExpenseSheet) error {
	if err := s.fault("UpsertExpenseSheet"); err != nil {
		return err
	}
	defer s.lock()()
	s.data.sheets[sheet.Month] = cloneSheet(*sheet)
	return nil
}

// ── Attendance ────────────────────────────────────────────────────────────────

func (s *Store) GetAttendance(ctx context.Context, employeeID, date string) (*core.AttendanceRecord, error) {
	defer s.lock()()
	rec, ok := s.data.attendance[dayKey{employeeID, date}]
	if !ok {
		return nil, core.NotFound("get attendance " + employeeID + " " + date)
	}
	rec = s.joinAttendance(rec)
	return &rec, nil
}

func (s *Store) UpsertAttendance(ctx context.Context, rec *core.AttendanceRecord) error {
	if err := s.fault("UpsertAttendance"); err != nil {
		return err
	}
	defer s.lock()()
	if _, ok := s.data.employees[rec.EmployeeID]; !ok {
		return &core.StoreError{Op: "upsert attendance", Code: core.CodeCheckViolation,
			Err: fmt.Errorf("employee %s does not exist", rec.EmployeeID)}
	}
	k := dayKey{rec.EmployeeID, rec.Date}
	if existing, ok := s.data.attendance[k]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.ID == "" {
			rec.ID = newID()
		}
		rec.CreatedAt = s.now()
	}
	s.data.attendance[k] = *rec
	return nil
}

func (s *Store) ListAttendance(ctx context.Context, date string) ([]core.AttendanceRecord, error) {
	defer s.lock()()
	out := []core.AttendanceRecord{}
	for _, rec := range s.data.attendance {
		if rec.Date == date {
			out = append(out, s.joinAttendance(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (s *Store) joinAttendance(rec core.AttendanceRecord) core.AttendanceRecord {
	if e, ok := s.data.employees[rec.EmployeeID]; ok {
		rec.EmployeeName = e.Name
	}
	return rec
}

// ── helpers ───────────────────────────────────────────────────────────────────

func inRange(r core.DateRange, day string) bool {
	if r.From == "" && r.To == "" {
		return true
	}
	return r.Contains(day)
}

func cloneBooking(b core.Booking) core.Booking {
	if b.CurrentAssignmentID != nil {
		id := *b.CurrentAssignmentID
		b.CurrentAssignmentID = &id
	}
	return b
}

func cloneAssignment(a core.TaskAssignment) core.TaskAssignment {
	if a.EmployeeID != nil {
		id := *a.EmployeeID
		a.EmployeeID = &id
	}
	return a
}

func cloneCustomer(c core.CustomerRecord) core.CustomerRecord {
	c.TaskDoneBy = append([]string{}, c.TaskDoneBy...)
	return c
}

func cloneSheet(s core.ExpenseSheet) core.ExpenseSheet {
	s.DirectExpenses = append([]core.ExpenseItem{}, s.DirectExpenses...)
	s.SalaryExpenses = append([]core.ExpenseItem{}, s.SalaryExpenses...)
	s.RepairMaintenance = append([]core.RepairItem{}, s.RepairMaintenance...)
	return s
}
