package cli

import (
	"fmt"

	"fieldops/internal/app"

	"github.com/spf13/cobra"
)

func newAttendanceCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Show and record daily attendance",
	}

	cmd.AddCommand(newAttendanceShowCmd(svc))
	cmd.AddCommand(newAttendanceMarkCmd(svc))
	cmd.AddCommand(newAttendanceTimesCmd(svc))

	return cmd
}

func newAttendanceShowCmd(svc app.ApplicationService) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one day's attendance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := svc.GetAttendance(cmd.Context(), date)
			if err != nil {
				return fmt.Errorf("failed to load attendance: %w", err)
			}
			printAttendance(cmd.OutOrStdout(), day)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func newAttendanceMarkCmd(svc app.ApplicationService) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "mark <employee-id> <Present|Absent>",
		Short: "Mark an employee present or absent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = svc.Today()
			}
			rec, err := svc.MarkAttendance(cmd.Context(), app.MarkAttendanceRequest{
				EmployeeID: args[0],
				Date:       date,
				Status:     args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to mark attendance: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s on %s\n", rec.EmployeeID, rec.Status, rec.Date)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func newAttendanceTimesCmd(svc app.ApplicationService) *cobra.Command {
	var date, checkIn, checkOut string

	cmd := &cobra.Command{
		Use:   "times <employee-id>",
		Short: "Record check-in and check-out times",
		Long:  "Store HH:MM check-in/check-out and recompute total hours. A check-out before check-in is stored and flagged for review.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = svc.Today()
			}
			res, err := svc.RecordAttendanceTimes(cmd.Context(), app.AttendanceTimesRequest{
				EmployeeID:   args[0],
				Date:         date,
				CheckInTime:  checkIn,
				CheckOutTime: checkOut,
			})
			if err != nil {
				return fmt.Errorf("failed to record times: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s: %.2f hours\n", res.Record.EmployeeID, res.Record.Date, res.Record.TotalHours)
			if res.NeedsReview {
				fmt.Fprintln(out, "Warning: check-out is before check-in; please review")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&checkIn, "in", "", "Check-in time (HH:MM)")
	cmd.Flags().StringVar(&checkOut, "out", "", "Check-out time (HH:MM)")

	return cmd
}
