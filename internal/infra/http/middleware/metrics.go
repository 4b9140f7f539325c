package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_submitted_total",
			Help: "Total number of leads submitted",
		},
	)

	assignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_assignments_total",
			Help: "Total number of lead assignments by reason",
		},
		[]string{"reason"},
	)

	reassignmentsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_reassignments_skipped_total",
			Help: "Overdue leads skipped in a run (empty pool, conflicts, errors)",
		},
	)

	reassignmentRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reassignment_run_duration_seconds",
			Help:    "Duration of a full overdue-reassignment run",
			Buckets: prometheus.DefBuckets,
		},
	)

	notificationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_errors_total",
			Help: "Total number of notification delivery errors",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadSubmitted() {
	leadsSubmitted.Inc()
}

func RecordAssignment(reason string) {
	assignmentsTotal.WithLabelValues(reason).Inc()
}

func RecordReassignments(reassigned, skipped int) {
	assignmentsTotal.WithLabelValues("timeout-reassignment").Add(float64(reassigned))
	reassignmentsSkipped.Add(float64(skipped))
}

func ObserveReassignmentRun(seconds float64) {
	reassignmentRunDuration.Observe(seconds)
}

func RecordNotificationError() {
	notificationErrors.Inc()
}
