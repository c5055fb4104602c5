package web

import (
	"net/http"

	"fieldops/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiListCustomerRecords handles GET /api/customer-records?month=YYYY-MM.
func (h *Handler) apiListCustomerRecords(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomerRecords(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateCustomerRecord handles POST /api/customer-records.
func (h *Handler) apiCreateCustomerRecord(w http.ResponseWriter, r *http.Request) {
	var req app.CreateCustomerRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.svc.CreateCustomerRecord(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, rec)
}

// apiCompleteTask handles POST /api/customer-records/{id}/complete.
func (h *Handler) apiCompleteTask(w http.ResponseWriter, r *http.Request) {
	completion, err := h.svc.CompleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, completion)
}

// apiCompleteTasks handles POST /api/customer-records/complete.
func (h *Handler) apiCompleteTasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, r, "ids: at least one customer record id is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CompleteTasks(r.Context(), req.IDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiUpdatePaymentStatus handles PATCH /api/customer-records/{id}/payment.
func (h *Handler) apiUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req app.UpdatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	rec, err := h.svc.UpdatePaymentStatus(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, rec)
}
