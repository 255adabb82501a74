package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	selfmetrics "github.com/agbru/hostmon/internal/metrics"
)

// Prometheus collectors are process-wide singletons on the default registry;
// they are registered once regardless of how many Metrics values exist.
var (
	registerOnce sync.Once

	requestsTotal   *prometheus.CounterVec
	activeRequests  prometheus.Gauge
	requestDuration prometheus.Histogram
	collectionsTotal *prometheus.CounterVec
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
)

func registerCollectors() {
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostmon_requests_total",
		Help: "HTTP requests served, by path and status code.",
	}, []string{"path", "status"})

	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hostmon_active_requests",
		Help: "HTTP requests currently in flight.",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hostmon_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	})

	collectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostmon_collections_total",
		Help: "Statistics collection cycles, by outcome.",
	}, []string{"outcome"})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostmon_cache_hits_total",
		Help: "Dashboard requests answered from the snapshot cache.",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostmon_cache_misses_total",
		Help: "Dashboard requests that triggered a recollection.",
	})

	self := selfmetrics.NewSelfCollector()
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hostmon_self_heap_bytes",
		Help: "Heap bytes in use by the hostmon process itself.",
	}, func() float64 { return float64(self.Snapshot().HeapAlloc) })
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hostmon_self_sys_bytes",
		Help: "Total bytes the hostmon process obtained from the OS.",
	}, func() float64 { return float64(self.Snapshot().Sys) })
}

// Metrics bundles the daemon's Prometheus instrumentation and the exposition
// handler.
type Metrics struct {
	handler http.Handler
}

// NewMetrics returns the daemon metrics, registering the collectors on the
// default registry on first use.
func NewMetrics() *Metrics {
	registerOnce.Do(registerCollectors)
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests marks one more request in flight.
func (m *Metrics) IncrementActiveRequests() { activeRequests.Inc() }

// DecrementActiveRequests marks one request finished.
func (m *Metrics) DecrementActiveRequests() { activeRequests.Dec() }

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(path string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	requestDuration.Observe(elapsed.Seconds())
}

// RecordCollection records one collection cycle outcome ("success" or "error").
func (m *Metrics) RecordCollection(outcome string) {
	collectionsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit records a dashboard request answered without recollection.
func (m *Metrics) RecordCacheHit() { cacheHitsTotal.Inc() }

// RecordCacheMiss records a dashboard request that triggered recollection.
func (m *Metrics) RecordCacheMiss() { cacheMissesTotal.Inc() }

// WritePrometheus serves the exposition format for the default registry.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
