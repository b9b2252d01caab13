// Package telemetry exposes Prometheus metrics and OpenTelemetry traces
// for the Kalx render loop. The runtime records through a package-level
// Metrics instance by default; embedders that need their own registry
// install one with SetDefault.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures metric registration.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "kalx").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration seconds.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures metric registration.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "kalx",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for the render loop.
type Metrics struct {
	rendersTotal   prometheus.Counter
	renderDuration prometheus.Histogram
	patchesTotal   *prometheus.CounterVec
	effectRuns     prometheus.Counter
	activeSessions prometheus.Gauge
	patchErrors    prometheus.Counter
}

// NewMetrics registers the Kalx metrics and returns the recorder.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render passes.",
			ConstLabels: config.ConstLabels,
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Time spent per render pass, diff and patch included.",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total patch operations applied, by operation.",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total effect executions.",
			ConstLabels: config.ConstLabels,
		}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Currently connected live sessions.",
			ConstLabels: config.ConstLabels,
		}),
		patchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_errors_total",
			Help:        "Patch applications that degraded or failed.",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveRender records one render pass and its duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.Inc()
	m.renderDuration.Observe(d.Seconds())
}

// CountPatch records one applied patch operation.
func (m *Metrics) CountPatch(op string) {
	if m == nil {
		return
	}
	m.patchesTotal.WithLabelValues(op).Inc()
}

// CountEffectRuns records n effect executions. The render loop reports
// its own pass plus however many deferred effects the pass drained.
func (m *Metrics) CountEffectRuns(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.effectRuns.Add(float64(n))
}

// CountPatchError records a degraded or failed patch application.
func (m *Metrics) CountPatchError() {
	if m == nil {
		return
	}
	m.patchErrors.Inc()
}

// SessionStarted increments the active session gauge.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

var defaultMetrics *Metrics

// Default returns the process-wide metrics recorder, or nil when none is
// installed. All recorder methods are nil-safe, so callers record through
// Default() unconditionally.
func Default() *Metrics {
	return defaultMetrics
}

// SetDefault installs the process-wide metrics recorder. Call once at
// startup, before mounting instances.
func SetDefault(m *Metrics) {
	defaultMetrics = m
}
