// Package cli exposes the ApplicationService as cobra subcommands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fieldops/internal/app"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Every command writes to
// cmd.OutOrStdout so tests can capture output.
func NewRootCmd(svc app.ApplicationService) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fieldops",
		Short: "Accounts, payroll and task tracking for a field-service business",
		Long: `Compute monthly accounts summaries, complete customer jobs into daily salary,
run the booking → assignment → completion workflow and record attendance.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSummaryCmd(svc),
		newExpensesCmd(svc),
		newEmployeesCmd(svc),
		newBookingsCmd(svc),
		newTasksCmd(svc),
		newRecordsCmd(svc),
		newManagerCmd(svc),
		newAttendanceCmd(svc),
	)

	return rootCmd
}

// parseAmount parses a decimal flag value. Empty means zero.
func parseAmount(flag, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	return d, nil
}

// readJSONInput decodes a JSON document from path, or stdin when path is "-".
func readJSONInput(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
