package web

import (
	"net/http"
	"strconv"

	"fieldops/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiAccountsSummary handles GET /api/accounts/summary?month=YYYY-MM.
func (h *Handler) apiAccountsSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetAccountsSummary(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetExpenseSheet handles GET /api/expense-sheets/{month}.
func (h *Handler) apiGetExpenseSheet(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetExpenseSheet(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSaveExpenseSheet handles PUT /api/expense-sheets/{month}. The path month
// wins over any month in the body.
func (h *Handler) apiSaveExpenseSheet(w http.ResponseWriter, r *http.Request) {
	var req app.SaveExpenseSheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Month = chi.URLParam(r, "month")

	result, err := h.svc.SaveExpenseSheet(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListEmployees handles GET /api/employees?active=true.
func (h *Handler) apiListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, "active must be true or false", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		activeOnly = parsed
	}

	result, err := h.svc.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateEmployee handles POST /api/employees.
func (h *Handler) apiCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req app.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, err := h.svc.CreateEmployee(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, emp)
}

// apiRecordManagerExpense handles POST /api/managers/{id}/expenses.
func (h *Handler) apiRecordManagerExpense(w http.ResponseWriter, r *http.Request) {
	var req app.ManagerExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	rec, err := h.svc.RecordManagerExpense(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, rec)
}
