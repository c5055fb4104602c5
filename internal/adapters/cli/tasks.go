package cli

import (
	"errors"
	"fmt"

	"fieldops/internal/app"
	"fieldops/internal/core"

	"github.com/spf13/cobra"
)

func newBookingsCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Create bookings and record their payment",
	}

	cmd.AddCommand(newBookingsCreateCmd(svc))
	cmd.AddCommand(newBookingsPaymentCmd(svc))

	return cmd
}

func newBookingsCreateCmd(svc app.ApplicationService) *cobra.Command {
	var req app.CreateBookingRequest
	var amount string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Pending booking",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringVar(&req.CustomerName, "customer", "", "Customer name (required)")
	cmd.Flags().StringVar(&req.CustomerPhone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&req.CustomerEmail, "email", "", "Customer email")
	cmd.Flags().StringVar(&req.ServiceName, "service", "", "Service name (required)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Booking total")
	cmd.Flags().StringVarP(&req.BookingDate, "date", "d", "", "Booking date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&req.BookingTime, "time", "", "Booking time")
	cmd.Flags().StringVar(&req.Address, "address", "", "Service address")

	cmd.MarkFlagRequired("customer")
	cmd.MarkFlagRequired("service")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		total, err := parseAmount("amount", amount)
		if err != nil {
			return err
		}
		req.TotalAmount = total
		if req.BookingDate == "" {
			req.BookingDate = svc.Today()
		}
		b, err := svc.CreateBooking(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created booking %s for %s on %s\n", b.ID, b.CustomerName, b.BookingDate)
		return nil
	}

	return cmd
}

func newBookingsPaymentCmd(svc app.ApplicationService) *cobra.Command {
	var status, paid string

	cmd := &cobra.Command{
		Use:   "payment <booking-id>",
		Short: "Set a booking's payment status",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Unpaid, Partial or 'Paid in Cash' (required)")
	cmd.Flags().StringVarP(&paid, "paid", "p", "", "Amount paid so far")

	cmd.MarkFlagRequired("status")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req, err := paymentRequest(args[0], status, paid)
		if err != nil {
			return err
		}
		b, err := svc.UpdateBookingPayment(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Booking %s is %s\n", b.ID, b.PaymentStatus)
		return nil
	}

	return cmd
}

func paymentRequest(id, status, paid string) (app.UpdatePaymentRequest, error) {
	req := app.UpdatePaymentRequest{ID: id, PaymentStatus: status}
	if paid != "" {
		v, err := parseAmount("paid", paid)
		if err != nil {
			return req, err
		}
		req.AmountPaid = &v
	}
	return req, nil
}

func newTasksCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, assign and progress booking tasks",
	}

	cmd.AddCommand(newTasksListCmd(svc))
	cmd.AddCommand(newTasksAssignCmd(svc))
	cmd.AddCommand(newTasksStatusCmd(svc))

	return cmd
}

func newTasksListCmd(svc app.ApplicationService) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookings split into assigned and unassigned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := svc.ListTasks(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}
			printTaskBoard(cmd.OutOrStdout(), board)
			return nil
		},
	}
}

func newTasksAssignCmd(svc app.ApplicationService) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "assign <booking-id> <employee-id>",
		Short: "Assign a booking to an employee",
		Long:  "Create a new assignment and make it the booking's current one. Earlier assignments are superseded.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := svc.AssignEmployee(cmd.Context(), app.AssignEmployeeRequest{
				BookingID:  args[0],
				EmployeeID: args[1],
				Notes:      notes,
			})
			if err != nil {
				return fmt.Errorf("failed to assign employee: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created assignment %s (%s)\n", a.ID, a.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the assignee")

	return cmd
}

func newTasksStatusCmd(svc app.ApplicationService) *cobra.Command {
	return &cobra.Command{
		Use:   "status <assignment-id> <Assigned|In Progress|Completed>",
		Short: "Move an assignment to a new status",
		Long:  "Completing an assignment completes its booking and credits the assignee's manager revenue once.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := svc.UpdateTaskStatus(cmd.Context(), app.UpdateTaskStatusRequest{
				AssignmentID: args[0],
				Status:       args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to update task status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Assignment %s is %s\n", res.Assignment.ID, res.Assignment.Status)
			if res.ManagerRevenue != nil {
				fmt.Fprintf(out, "Manager revenue for %s: %s (%d tasks)\n",
					res.ManagerRevenue.Date, res.ManagerRevenue.RevenueGenerated.StringFixed(2), res.ManagerRevenue.TasksReceived)
			}
			return nil
		},
	}
}

func newRecordsCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Customer records: list, add, complete, record payment",
	}

	cmd.AddCommand(newRecordsListCmd(svc))
	cmd.AddCommand(newRecordsAddCmd(svc))
	cmd.AddCommand(newRecordsCompleteCmd(svc))
	cmd.AddCommand(newRecordsPaymentCmd(svc))

	return cmd
}

func newRecordsListCmd(svc app.ApplicationService) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customer records for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.ListCustomerRecords(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("failed to list customer records: %w", err)
			}
			printCustomerRecords(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM); empty lists every record")

	return cmd
}

func newRecordsAddCmd(svc app.ApplicationService) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer record from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req app.CreateCustomerRecordRequest
			if err := readJSONInput(cmd, file, &req); err != nil {
				return err
			}
			if req.BookingDate == "" {
				req.BookingDate = svc.Today()
			}
			rec, err := svc.CreateCustomerRecord(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to add customer record: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added customer record %s for %s\n", rec.ID, rec.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Path to the JSON document, or - for stdin")

	return cmd
}

func newRecordsCompleteCmd(svc app.ApplicationService) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <record-id>...",
		Short: "Complete customer records and credit daily salary",
		Long: `Split each record's amount evenly across its task_done_by employees and add
the share to their daily salary for today. Records already completed are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := svc.CompleteTasks(cmd.Context(), args)
			if result != nil {
				for _, c := range result.Completions {
					printCompletion(out, c)
				}
			}
			var partial *core.PartialEffectError
			if errors.As(err, &partial) {
				return fmt.Errorf("completed %d of %d records before failing: %w", len(partial.Applied), len(args), partial.Err)
			}
			if err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}
			return nil
		},
	}
}

func newRecordsPaymentCmd(svc app.ApplicationService) *cobra.Command {
	var status, paid string

	cmd := &cobra.Command{
		Use:   "payment <record-id>",
		Short: "Set a customer record's payment status",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Unpaid, Partial or 'Paid in Cash' (required)")
	cmd.Flags().StringVarP(&paid, "paid", "p", "", "Amount paid (recorded with 'Paid in Cash' only)")

	cmd.MarkFlagRequired("status")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req, err := paymentRequest(args[0], status, paid)
		if err != nil {
			return err
		}
		rec, err := svc.UpdatePaymentStatus(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Customer record %s is %s (paid %s)\n",
			rec.ID, rec.PaymentStatus, rec.AmountPaid.StringFixed(2))
		return nil
	}

	return cmd
}
