package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Sensor operation metrics
	sensorOperationsTotal   *prometheus.CounterVec
	sensorOperationDuration *prometheus.HistogramVec
	sensorElementsUnique    *prometheus.GaugeVec
	sensorElementsAgg       *prometheus.GaugeVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asagraph_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "asagraph_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "asagraph_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method"},
		),

		sensorOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asagraph_sensor_operations_total",
				Help: "Total number of sensor operations",
			},
			[]string{"operation", "sensor", "status"},
		),

		sensorOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "asagraph_sensor_operation_duration_seconds",
				Help:    "Sensor operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		sensorElementsUnique: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "asagraph_sensor_elements_unique",
				Help: "Number of unique elements per sensor",
			},
			[]string{"sensor"},
		),

		sensorElementsAgg: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "asagraph_sensor_elements_aggregated",
				Help: "Aggregated element counters per sensor",
			},
			[]string{"sensor"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asagraph_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// Middleware observes every routed request: counter and duration labeled
// by the chi route pattern, plus an in-flight gauge per method.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inFlight := m.httpRequestsInFlight.WithLabelValues(r.Method)
		inFlight.Inc()
		defer inFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The route pattern is only known after routing has happened.
		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// RecordSensorOperation records a sensor operation
func (m *Metrics) RecordSensorOperation(operation, sensor string, success bool, duration time.Duration) {
	m.sensorOperationsTotal.WithLabelValues(operation, sensor, statusLabel(success)).Inc()
	m.sensorOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateSensorStats updates per-sensor element gauges
func (m *Metrics) UpdateSensorStats(sensor string, unique, aggregated int) {
	m.sensorElementsUnique.WithLabelValues(sensor).Set(float64(unique))
	m.sensorElementsAgg.WithLabelValues(sensor).Set(float64(aggregated))
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	m.healthChecksTotal.WithLabelValues(statusLabel(success)).Inc()
}
