package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	monitoringRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitoring_runs_total",
			Help: "Total number of monitoring runs by kind and result.",
		},
		[]string{"kind", "result"},
	)
	detectedChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitoring_detected_changes_total",
			Help: "Total number of history entries produced by monitoring runs.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(monitoringRunsTotal)
	prometheus.MustRegister(detectedChangesTotal)
}

// RecordRequest записывает метрики для HTTP-запроса.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordMonitoringRun записывает результат одного прогона мониторинга.
func RecordMonitoringRun(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	monitoringRunsTotal.WithLabelValues(kind, result).Inc()
}

func RecordDetectedChanges(kind string, count int) {
	if count <= 0 {
		return
	}
	detectedChangesTotal.WithLabelValues(kind).Add(float64(count))
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
