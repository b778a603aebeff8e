package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
)

// MetricsConfig configures the Prometheus hooks.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hydra").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for mount, hydrate and flush
	// durations. Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus hooks.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "hydra",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records engine activity as Prometheus metrics.
//
// Metrics collected:
//   - hydra_mounts_total: Counter of mounts by status
//   - hydra_hydrations_total: Counter of hydrations by status
//   - hydra_render_duration_seconds: Histogram by phase (mount, hydrate, flush)
//   - hydra_flushes_total: Counter of flushes by status
//   - hydra_rerenders_total: Counter of owner re-renders
//   - hydra_dom_mutations_total: Counter of DOM mutations by kind
//   - hydra_hydration_mismatches_total: Counter of mismatches by kind
//   - hydra_stale_updates_total: Counter of discarded updates
//   - hydra_controllers_bound_total: Counter of bound controllers by type
type Metrics struct {
	mounts      *prometheus.CounterVec
	hydrations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	flushes     *prometheus.CounterVec
	rerenders   prometheus.Counter
	mutations   *prometheus.CounterVec
	mismatches  *prometheus.CounterVec
	stale       prometheus.Counter
	controllers *prometheus.CounterVec
}

// Prometheus creates hooks that register their collectors on the
// configured registry.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Metrics{
		mounts:     counter("mounts_total", "Total number of mounts", "status"),
		hydrations: counter("hydrations_total", "Total number of hydrations", "status"),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Mount, hydrate and flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"phase"}),
		flushes: counter("flushes_total", "Total number of scheduler flushes", "status"),
		rerenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rerenders_total",
			Help:        "Total number of subtree re-renders",
			ConstLabels: config.ConstLabels,
		}),
		mutations:  counter("dom_mutations_total", "Total number of DOM mutations", "kind"),
		mismatches: counter("hydration_mismatches_total", "Total number of hydration mismatches", "kind"),
		stale: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stale_updates_total",
			Help:        "Total number of updates discarded on unmounted components",
			ConstLabels: config.ConstLabels,
		}),
		controllers: counter("controllers_bound_total", "Total number of bound controllers", "type"),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// MountDone implements Hooks.
func (m *Metrics) MountDone(d time.Duration, err error) {
	m.mounts.WithLabelValues(status(err)).Inc()
	m.duration.WithLabelValues("mount").Observe(d.Seconds())
}

// HydrateDone implements Hooks.
func (m *Metrics) HydrateDone(d time.Duration, _ int, err error) {
	m.hydrations.WithLabelValues(status(err)).Inc()
	m.duration.WithLabelValues("hydrate").Observe(d.Seconds())
}

// FlushDone implements Hooks.
func (m *Metrics) FlushDone(info state.FlushInfo) {
	m.flushes.WithLabelValues(status(info.Err)).Inc()
	m.rerenders.Add(float64(info.Rerendered))
	m.duration.WithLabelValues("flush").Observe(info.Duration.Seconds())
}

// Mutation implements Hooks.
func (m *Metrics) Mutation(kind dom.MutationKind) {
	m.mutations.WithLabelValues(kind.String()).Inc()
}

// HydrationMismatch implements Hooks.
func (m *Metrics) HydrationMismatch(kind string) {
	m.mismatches.WithLabelValues(kind).Inc()
}

// StaleUpdate implements Hooks.
func (m *Metrics) StaleUpdate() {
	m.stale.Inc()
}

// ControllerBound implements Hooks.
func (m *Metrics) ControllerBound(typ string) {
	m.controllers.WithLabelValues(typ).Inc()
}
