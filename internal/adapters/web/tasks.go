package web

import (
	"net/http"

	"fieldops/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiCreateBooking handles POST /api/bookings.
func (h *Handler) apiCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, booking)
}

// apiUpdateBookingPayment handles PATCH /api/bookings/{id}/payment.
func (h *Handler) apiUpdateBookingPayment(w http.ResponseWriter, r *http.Request) {
	var req app.UpdatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	booking, err := h.svc.UpdateBookingPayment(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, booking)
}

// apiAssignEmployee handles POST /api/bookings/{id}/assignments.
func (h *Handler) apiAssignEmployee(w http.ResponseWriter, r *http.Request) {
	var req app.AssignEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BookingID = chi.URLParam(r, "id")

	assignment, err := h.svc.AssignEmployee(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, assignment)
}

// apiListTasks handles GET /api/tasks.
func (h *Handler) apiListTasks(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.ListTasks(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, board)
}

// apiUpdateTaskStatus handles PATCH /api/assignments/{id}/status.
func (h *Handler) apiUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req app.UpdateTaskStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.AssignmentID = chi.URLParam(r, "id")

	result, err := h.svc.UpdateTaskStatus(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
