package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	resolveDuration prometheus.Observer
	syncAttempts    prometheus.Counter
	syncFailures    prometheus.Counter
	syncSuperseded  prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	resolveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "candidate_resolve_duration_seconds",
		Help:    "Duration of substitute candidate resolution",
		Buckets: prometheus.DefBuckets,
	})

	syncAttempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "remote_sync_attempts_total",
		Help: "Total remote snapshot write attempts",
	})

	syncFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "remote_sync_failures_total",
		Help: "Total failed remote snapshot writes",
	})

	syncSuperseded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "remote_sync_superseded_total",
		Help: "Total pending remote writes superseded by a newer edit",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, resolveDuration, syncAttempts, syncFailures, syncSuperseded, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		resolveDuration: resolveDuration,
		syncAttempts:    syncAttempts,
		syncFailures:    syncFailures,
		syncSuperseded:  syncSuperseded,
	}
}

// Handler exposes the /metrics endpoint handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveResolve records one candidate resolution.
func (s *MetricsService) ObserveResolve(duration time.Duration) {
	s.resolveDuration.Observe(duration.Seconds())
}

// RecordSyncAttempt counts a remote write attempt and its outcome.
func (s *MetricsService) RecordSyncAttempt(failed bool) {
	s.syncAttempts.Inc()
	if failed {
		s.syncFailures.Inc()
	}
}

// RecordSyncSuperseded counts a pending write replaced by a newer one.
func (s *MetricsService) RecordSyncSuperseded() {
	s.syncSuperseded.Inc()
}
