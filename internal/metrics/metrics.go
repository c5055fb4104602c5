// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fieldops",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "customer_tasks_completed_total",
		Help:      "Customer records completed with salary distribution.",
	})

	SalaryCredits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "salary_credits_total",
		Help:      "Task shares posted to daily salary rows, by outcome.",
	}, []string{"outcome"})

	ManagerCredits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "manager_revenue_credits_total",
		Help:      "Bookings credited to a manager's revenue ledger.",
	})

	SummariesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldops",
		Name:      "accounts_summaries_total",
		Help:      "Monthly accounts summaries computed.",
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
