package web

import (
	"net/http"

	"fieldops/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiGetAttendance handles GET /api/attendance?date=YYYY-MM-DD.
func (h *Handler) apiGetAttendance(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.GetAttendance(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, day)
}

// apiMarkAttendance handles PUT /api/attendance/{employeeID}/{date}.
func (h *Handler) apiMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req app.MarkAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.Date = chi.URLParam(r, "date")

	rec, err := h.svc.MarkAttendance(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, rec)
}

// apiRecordAttendanceTimes handles PUT /api/attendance/{employeeID}/{date}/times.
func (h *Handler) apiRecordAttendanceTimes(w http.ResponseWriter, r *http.Request) {
	var req app.AttendanceTimesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.Date = chi.URLParam(r, "date")

	result, err := h.svc.RecordAttendanceTimes(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
