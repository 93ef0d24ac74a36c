package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the editor.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	editsTotal      *prometheus.CounterVec
	historyMoves    *prometheus.CounterVec
	generations     *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	persistFailures prometheus.Counter
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

	editsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_edits_total",
		Help: "Manual edit attempts by kind and outcome",
	}, []string{"kind", "outcome"})

	historyMoves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_history_moves_total",
		Help: "Undo/redo invocations by direction and whether the cursor moved",
	}, []string{"direction", "moved"})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_generations_total",
		Help: "Schedule generation calls by outcome",
	}, []string{"outcome"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "editor_cache_hits_total",
		Help: "Stats/advice cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "editor_cache_misses_total",
		Help: "Stats/advice cache misses",
	})

	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "editor_persist_failures_total",
		Help: "Variant list writes that failed and were only logged",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, editsTotal, historyMoves, generations, cacheHits, cacheMisses, persistFailures, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		editsTotal:      editsTotal,
		historyMoves:    historyMoves,
		generations:     generations,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		persistFailures: persistFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordEdit counts a manual edit attempt.
func (m *MetricsService) RecordEdit(kind string, accepted bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.editsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordHistoryMove counts an undo or redo invocation.
func (m *MetricsService) RecordHistoryMove(direction string, moved bool) {
	if m == nil {
		return
	}
	m.historyMoves.WithLabelValues(direction, fmt.Sprintf("%t", moved)).Inc()
}

// RecordGeneration counts a generation call outcome.
func (m *MetricsService) RecordGeneration(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.generations.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts a stats/advice cache lookup.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordPersistFailure counts a failed fire-and-forget variant write.
func (m *MetricsService) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}
