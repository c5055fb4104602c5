package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"fieldops/internal/app"
	"fieldops/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	logger *zap.Logger
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(metrics.Middleware)
	r.Use(CORS(allowedOrigins))

	// ── Health and metrics (public) ──────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Accounts ─────────────────────────────────────────────────────────
		r.Get("/api/accounts/summary", h.apiAccountsSummary)
		r.Get("/api/expense-sheets/{month}", h.apiGetExpenseSheet)
		r.Put("/api/expense-sheets/{month}", h.apiSaveExpenseSheet)

		// ── Employees ────────────────────────────────────────────────────────
		r.Get("/api/employees", h.apiListEmployees)
		r.Post("/api/employees", h.apiCreateEmployee)
		r.Post("/api/managers/{id}/expenses", h.apiRecordManagerExpense)

		// ── Bookings and tasks ───────────────────────────────────────────────
		r.Post("/api/bookings", h.apiCreateBooking)
		r.Patch("/api/bookings/{id}/payment", h.apiUpdateBookingPayment)
		r.Post("/api/bookings/{id}/assignments", h.apiAssignEmployee)
		r.Get("/api/tasks", h.apiListTasks)
		r.Patch("/api/assignments/{id}/status", h.apiUpdateTaskStatus)

		// ── Customer records ─────────────────────────────────────────────────
		r.Get("/api/customer-records", h.apiListCustomerRecords)
		r.Post("/api/customer-records", h.apiCreateCustomerRecord)
		r.Post("/api/customer-records/complete", h.apiCompleteTasks)
		r.Post("/api/customer-records/{id}/complete", h.apiCompleteTask)
		r.Patch("/api/customer-records/{id}/payment", h.apiUpdatePaymentStatus)

		// ── Attendance ───────────────────────────────────────────────────────
		r.Get("/api/attendance", h.apiGetAttendance)
		r.Put("/api/attendance/{employeeID}/{date}", h.apiMarkAttendance)
		r.Put("/api/attendance/{employeeID}/{date}/times", h.apiRecordAttendanceTimes)
	})

	h.router = r
	return r
}

// health returns service status and the business-zone date.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Today  string `json:"today"`
	}
	writeJSON(w, response{Status: "ok", Today: h.svc.Today()})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
