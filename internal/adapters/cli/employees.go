package cli

import (
	"fmt"

	"fieldops/internal/app"

	"github.com/spf13/cobra"
)

func newEmployeesCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "List and add employees",
	}

	cmd.AddCommand(newEmployeesListCmd(svc))
	cmd.AddCommand(newEmployeesAddCmd(svc))

	return cmd
}

func newEmployeesListCmd(svc app.ApplicationService) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.ListEmployees(cmd.Context(), activeOnly)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}
			printEmployees(cmd.OutOrStdout(), result.Employees)
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only list active employees")

	return cmd
}

func newEmployeesAddCmd(svc app.ApplicationService) *cobra.Command {
	var name, position, department, salary string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Employee name (required)")
	cmd.Flags().StringVarP(&position, "position", "p", "", "Position, e.g. Manager")
	cmd.Flags().StringVarP(&department, "department", "d", "", "Department")
	cmd.Flags().StringVarP(&salary, "salary", "s", "", "Monthly salary")

	cmd.MarkFlagRequired("name")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount("salary", salary)
		if err != nil {
			return err
		}
		emp, err := svc.CreateEmployee(cmd.Context(), app.CreateEmployeeRequest{
			Name:       name,
			Position:   position,
			Department: department,
			Salary:     amount,
		})
		if err != nil {
			return fmt.Errorf("failed to add employee: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added employee %s (%s)\n", emp.Name, emp.ID)
		return nil
	}

	return cmd
}

func newManagerCmd(svc app.ApplicationService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manager",
		Short: "Manager revenue ledger",
	}

	cmd.AddCommand(newManagerExpenseCmd(svc))

	return cmd
}

func newManagerExpenseCmd(svc app.ApplicationService) *cobra.Command {
	var amount, date string

	cmd := &cobra.Command{
		Use:   "expense <employee-id>",
		Short: "Record an expense against a manager's day",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Expense amount (required)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date (YYYY-MM-DD, defaults to today)")

	cmd.MarkFlagRequired("amount")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		value, err := parseAmount("amount", amount)
		if err != nil {
			return err
		}
		rec, err := svc.RecordManagerExpense(cmd.Context(), app.ManagerExpenseRequest{
			EmployeeID: args[0],
			Amount:     value,
			Date:       date,
		})
		if err != nil {
			return fmt.Errorf("failed to record manager expense: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  revenue %s  expenses %s  profit %s\n",
			rec.Date, rec.RevenueGenerated.StringFixed(2), rec.Expenses.StringFixed(2), rec.Profit.StringFixed(2))
		return nil
	}

	return cmd
}
