package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kondate/mealplanner/internal/domain/ai"
	"github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/outbound"
)

const namespace = "kondate"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Generation metrics
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	fallbacksTotal     *prometheus.CounterVec
	completionFailures *prometheus.CounterVec
	plansStoredTotal   prometheus.Counter
}

var _ outbound.MetricsRecorder = (*MetricsCollector)(nil)

// NewMetricsCollector creates a collector backed by its own registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Meal plan and dish generations by operation and source",
			},
			[]string{"operation", "source"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Generation duration in seconds",
				Buckets:   []float64{0.01, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"operation", "source"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Generations served by a local fallback, by reason",
			},
			[]string{"operation", "reason"},
		),
		completionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_failures_total",
				Help:      "Completion service failures by kind",
			},
			[]string{"kind"},
		),
		plansStoredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meal_plans_stored_total",
				Help:      "Generated meal plans written to history",
			},
		),
	}
}

// HTTPMiddleware records request count, latency and response size per route pattern
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		statusCode := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, path, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, statusCode).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(ww.BytesWritten()))
	})
}

// routePattern keeps label cardinality bounded by using the matched chi pattern
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func (m *MetricsCollector) RecordGeneration(operation string, source mealplan.Source, duration time.Duration) {
	m.generationsTotal.WithLabelValues(operation, string(source)).Inc()
	m.generationDuration.WithLabelValues(operation, string(source)).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordFallback(operation, reason string) {
	m.fallbacksTotal.WithLabelValues(operation, reason).Inc()
}

func (m *MetricsCollector) RecordCompletionFailure(kind ai.FailureKind) {
	m.completionFailures.WithLabelValues(string(kind)).Inc()
}

func (m *MetricsCollector) RecordPlanStored() {
	m.plansStoredTotal.Inc()
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}
