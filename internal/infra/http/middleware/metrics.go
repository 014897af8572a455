package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
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

	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_conversions_total",
			Help: "Lead to client conversions by result",
		},
		[]string{"result"},
	)

	templatesAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_templates_applied_total",
			Help: "Onboarding template applications by result",
		},
		[]string{"result"},
	)

	tasksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_tasks_created_total",
			Help: "Onboarding tasks created from templates",
		},
	)

	followUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_followups_total",
			Help: "Follow-up messages processed by the worker",
		},
		[]string{"kind", "result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := wrap(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps label cardinality bounded: /api/leads/{id}, not the raw id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordConversion(result string) {
	conversionsTotal.WithLabelValues(result).Inc()
}

func RecordTemplateApplied(result string, tasks int) {
	templatesAppliedTotal.WithLabelValues(result).Inc()
	if tasks > 0 {
		tasksCreatedTotal.Add(float64(tasks))
	}
}

func RecordFollowUp(kind, result string) {
	followUpsTotal.WithLabelValues(kind, result).Inc()
}
