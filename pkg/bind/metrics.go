package bind

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors for mount points.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bindkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "bind").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for snapshot apply duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
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

// WithBuckets sets the apply-duration histogram buckets.
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

// Metrics holds the Prometheus collectors shared by mount points.
// Create one Metrics value per process and pass it to Bind via
// WithMetrics; collectors are registered once at construction.
type Metrics struct {
	snapshots  prometheus.Counter
	patches    *prometheus.CounterVec
	errors     prometheus.Counter
	fragments  prometheus.Gauge
	applyTimer prometheus.Histogram
}

// NewMetrics creates and registers the mount point collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "bindkit",
		Subsystem: "bind",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		snapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "snapshots_total",
			Help:        "Sequence snapshots processed by mount points.",
			ConstLabels: cfg.ConstLabels,
		}),
		patches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "patches_total",
			Help:        "Structural patches applied to live regions.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op"}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "errors_total",
			Help:        "Snapshots that failed to apply.",
			ConstLabels: cfg.ConstLabels,
		}),
		fragments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "live_fragments",
			Help:        "Currently mounted fragments across mount points.",
			ConstLabels: cfg.ConstLabels,
		}),
		applyTimer: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "apply_duration_seconds",
			Help:        "Time spent diffing and applying one snapshot.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
	}
}
