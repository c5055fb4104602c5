package app

import "fieldops/internal/core"

// SummaryResult is returned by GetAccountsSummary.
type SummaryResult struct {
	Summary *core.AccountsSummary `json:"summary"`
}

// ExpenseSheetResult is returned by the expense sheet operations.
type ExpenseSheetResult struct {
	Sheet     *core.ExpenseSheet `json:"sheet"`
	Persisted bool               `json:"persisted"`
}

// EmployeeListResult is returned by ListEmployees.
type EmployeeListResult struct {
	Employees []core.Employee `json:"employees"`
}

// CustomerRecordListResult is returned by ListCustomerRecords.
type CustomerRecordListResult struct {
	Month   core.Month            `json:"month,omitempty"`
	Records []core.CustomerRecord `json:"records"`
}

// BatchCompletionResult is returned by CompleteTasks.
type BatchCompletionResult struct {
	Completions []*core.TaskCompletion `json:"completions"`
}
