package cli

import (
	"fmt"

	"fieldops/internal/app"

	"github.com/spf13/cobra"
)

func newSummaryCmd(svc app.ApplicationService) *cobra.Command {
	var month string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly accounts summary",
		Long:  "Aggregate revenue, expenses, overdue amounts and manager profit for one month.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.GetAccountsSummary(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result.Summary)
			}
			printSummary(cmd.OutOrStdout(), result.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM, defaults to the current month)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

func newExpensesCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Show and save the monthly expense sheet",
	}

	cmd.AddCommand(newExpensesShowCmd(svc))
	cmd.AddCommand(newExpensesSaveCmd(svc))

	return cmd
}

func newExpensesShowCmd(svc app.ApplicationService) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's expense sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = string(svc.CurrentMonth())
			}
			result, err := svc.GetExpenseSheet(cmd.Context(), month)
			if err != nil {
				return fmt.Errorf("failed to load expense sheet: %w", err)
			}
			printExpenseSheet(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM, defaults to the current month)")

	return cmd
}

func newExpensesSaveCmd(svc app.ApplicationService) *cobra.Command {
	var month, file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Replace a month's expense sheet from a JSON document",
		Long: `Read an expense sheet document ({direct_expenses, salary_expenses,
repair_maintenance, deposits}) from --file, or stdin with --file -, and replace
whatever is stored for the month.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req app.SaveExpenseSheetRequest
			if err := readJSONInput(cmd, file, &req); err != nil {
				return err
			}
			if month != "" {
				req.Month = month
			}
			if req.Month == "" {
				req.Month = string(svc.CurrentMonth())
			}
			result, err := svc.SaveExpenseSheet(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to save expense sheet: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved expense sheet for %s\n", result.Sheet.Month)
			printExpenseSheet(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM); overrides the month in the document")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Path to the JSON document, or - for stdin")

	return cmd
}
