// restore-seed loads a small demo data set: employees, one month of bookings
// with assignments, customer records and an expense sheet. Rows use fixed ids
// so running it twice leaves the same data.
//
// Usage: go run ./cmd/restore-seed [-month YYYY-MM]
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"fieldops/internal/config"
	"fieldops/internal/core"
	"fieldops/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	monthFlag := flag.String("month", "", "month to seed (YYYY-MM, defaults to the current month)")
	flag.Parse()

	month := core.MonthOf(time.Now().In(cfg.Location))
	if *monthFlag != "" {
		month, err = core.ParseMonth(*monthFlag)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}
	day := func(d string) string { return string(month) + "-" + d }

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Restoring employees...")
	_, err = tx.Exec(ctx, `
		INSERT INTO employees (id, name, position, department, salary, status)
		VALUES
		  ('0190a000-0000-7000-8000-000000000001', 'Meena',  'Manager',    'Operations', 35000, 'Active'),
		  ('0190a000-0000-7000-8000-000000000002', 'Ravi',   'Technician', 'Field',      18000, 'Active'),
		  ('0190a000-0000-7000-8000-000000000003', 'Kiran',  'Technician', 'Field',      18000, 'Active'),
		  ('0190a000-0000-7000-8000-000000000004', 'Suresh', 'Helper',     'Field',      12000, 'Inactive')
		ON CONFLICT (id) DO UPDATE
		  SET name = EXCLUDED.name,
		      position = EXCLUDED.position,
		      department = EXCLUDED.department,
		      salary = EXCLUDED.salary,
		      status = EXCLUDED.status;
	`)
	if err != nil {
		log.Fatalf("Failed to restore employees: %v", err)
	}

	log.Println("Restoring bookings...")
	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, customer_name, customer_phone, service_name, total_amount,
		                      booking_date, address, status, payment_status, amount_paid)
		VALUES
		  ('0190a000-0000-7000-8000-000000000101', 'Anita Rao',  '9000000001', 'Deep Cleaning', 2500, $1::date, '12 Lake Road', 'Confirmed', 'Unpaid',       0),
		  ('0190a000-0000-7000-8000-000000000102', 'Farhan Ali', '9000000002', 'AC Service',    1200, $2::date, '4 Hill Street', 'Pending',  'Partial',      500),
		  ('0190a000-0000-7000-8000-000000000103', 'Latha K',    '9000000003', 'Pest Control',  1800, $3::date, '7 Temple Lane', 'Pending',  'Paid in Cash', 1800)
		ON CONFLICT (id) DO NOTHING;
	`, day("03"), day("08"), day("15"))
	if err != nil {
		log.Fatalf("Failed to restore bookings: %v", err)
	}

	log.Println("Restoring assignments...")
	_, err = tx.Exec(ctx, `
		INSERT INTO task_assignments (id, booking_id, employee_id, status)
		VALUES
		  ('0190a000-0000-7000-8000-000000000201', '0190a000-0000-7000-8000-000000000101', '0190a000-0000-7000-8000-000000000001', 'In Progress')
		ON CONFLICT (id) DO NOTHING;
		UPDATE bookings SET current_assignment_id = '0190a000-0000-7000-8000-000000000201'
		WHERE id = '0190a000-0000-7000-8000-000000000101' AND current_assignment_id IS NULL;
	`)
	if err != nil {
		log.Fatalf("Failed to restore assignments: %v", err)
	}

	log.Println("Restoring customer records...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customer_records (id, name, phone, address, booking_date, task_type, amount,
		                              amount_paid, payment_status, source, task_done_by, customer_rating)
		VALUES
		  ('0190a000-0000-7000-8000-000000000301', 'Priya S',  '9000000011', '3 Market Road', $1::date, 'Sofa Cleaning', 1500, 1500, 'Paid in Cash', 'Walk-in',  ARRAY['Ravi','Kiran'], 'Good'),
		  ('0190a000-0000-7000-8000-000000000302', 'Joseph M', '9000000012', '9 Beach Road',  $2::date, 'Tank Cleaning', 900,  0,    'Unpaid',       'Referral', ARRAY['Ravi'],         'Normal')
		ON CONFLICT (id) DO NOTHING;
	`, day("05"), day("10"))
	if err != nil {
		log.Fatalf("Failed to restore customer records: %v", err)
	}

	log.Println("Restoring expense sheet...")
	_, err = tx.Exec(ctx, `
		INSERT INTO monthly_expenses (month, direct_expenses, salary_expenses, repair_maintenance, deposits)
		VALUES ($1,
		        '[{"type":"Mobile Bill","amount":"499"},{"type":"EB Bill","amount":"1200"},{"type":"Petrol","amount":"3000"}]',
		        '[{"type":"Meena","amount":"35000"}]',
		        '[{"type":"Vacuum","amount":"800","description":"motor rewind"}]',
		        5000)
		ON CONFLICT (month) DO NOTHING;
	`, string(month))
	if err != nil {
		log.Fatalf("Failed to restore expense sheet: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Printf("Seed data for %s restored successfully.", month)
}
