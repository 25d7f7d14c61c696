package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Plugin instance metrics
	InstancesActive prometheus.Gauge
	InstancesTotal  prometheus.Counter

	// Bridge metrics
	WrappersCreated   prometheus.Counter
	WrappersLive      prometheus.Gauge
	Exceptions        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Script metrics
	ScriptRuns     *prometheus.CounterVec
	ScriptDuration *prometheus.HistogramVec
	PoolInUse      prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	ActiveInstances int64   `json:"active_instances"`
	LiveWrappers    int64   `json:"live_wrappers"`
	Exceptions      int64   `json:"exceptions"`
	ScriptRuns      int64   `json:"script_runs"`
	TotalDuration   float64 `json:"total_duration_seconds"` // sum of all request durations
	RequestCount    int64   `json:"request_count"`          // count for averaging
}

// NewMetrics creates a metrics collector registered with reg. A nil reg
// uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{startTime: time.Now()}

	// HTTP metrics
	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scriptbridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scriptbridge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	m.RequestSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scriptbridge_http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)
	m.ResponseSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scriptbridge_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	// Plugin instance metrics
	m.InstancesActive = factory.NewGauge(prometheus.GaugeOpts{
		Name: "scriptbridge_instances_active",
		Help: "Number of live plugin instances",
	})
	m.InstancesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "scriptbridge_instances_total",
		Help: "Total number of plugin instances created",
	})

	// Bridge metrics
	m.WrappersCreated = factory.NewCounter(prometheus.CounterOpts{
		Name: "scriptbridge_wrappers_created_total",
		Help: "Total number of host proxies created",
	})
	m.WrappersLive = factory.NewGauge(prometheus.GaugeOpts{
		Name: "scriptbridge_wrappers_live",
		Help: "Number of host proxies still referenced",
	})
	m.Exceptions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scriptbridge_exceptions_total",
			Help: "Exceptions reported to the scripting host",
		},
		[]string{"message"},
	)
	m.OperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scriptbridge_operation_duration_seconds",
			Help:    "Duration of profiled glue operations and host calls",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"key"},
	)

	// Script metrics
	m.ScriptRuns = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scriptbridge_script_runs_total",
			Help: "Total number of script evaluations",
		},
		[]string{"source", "status"},
	)
	m.ScriptDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scriptbridge_script_duration_seconds",
			Help:    "Script evaluation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"source"},
	)
	m.PoolInUse = factory.NewGauge(prometheus.GaugeOpts{
		Name: "scriptbridge_pool_in_use",
		Help: "Number of pooled instances checked out",
	})

	// WebSocket metrics
	m.WSConnections = factory.NewGauge(prometheus.GaugeOpts{
		Name: "scriptbridge_ws_connections",
		Help: "Number of active console connections",
	})
	m.WSMessages = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scriptbridge_ws_messages_total",
			Help: "Total number of console messages",
		},
		[]string{"direction", "type"},
	)

	// System metrics
	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "scriptbridge_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// InstanceCreated records a new plugin instance
func (m *Metrics) InstanceCreated() {
	m.InstancesActive.Inc()
	m.InstancesTotal.Inc()
	m.mu.Lock()
	m.snapshot.ActiveInstances++
	m.mu.Unlock()
}

// InstanceDestroyed records a destroyed plugin instance
func (m *Metrics) InstanceDestroyed() {
	m.InstancesActive.Dec()
	m.mu.Lock()
	m.snapshot.ActiveInstances--
	m.mu.Unlock()
}

// WrapperCreated records a new host proxy
func (m *Metrics) WrapperCreated() {
	m.WrappersCreated.Inc()
	m.WrappersLive.Inc()
	m.mu.Lock()
	m.snapshot.LiveWrappers++
	m.mu.Unlock()
}

// WrapperReleased records a proxy whose last reference went away
func (m *Metrics) WrapperReleased() {
	m.WrappersLive.Dec()
	m.mu.Lock()
	m.snapshot.LiveWrappers--
	m.mu.Unlock()
}

// RecordException records an exception raised to the host
func (m *Metrics) RecordException(message string) {
	m.Exceptions.WithLabelValues(message).Inc()
	m.mu.Lock()
	m.snapshot.Exceptions++
	m.mu.Unlock()
}

// RecordScript records a script evaluation
func (m *Metrics) RecordScript(source, status string, duration time.Duration) {
	m.ScriptRuns.WithLabelValues(source, status).Inc()
	m.ScriptDuration.WithLabelValues(source).Observe(duration.Seconds())
	m.mu.Lock()
	m.snapshot.ScriptRuns++
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
