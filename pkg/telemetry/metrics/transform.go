package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics namespace.
type Config struct {
	// Namespace is the Prometheus metric namespace. Default: "ras".
	Namespace string

	// Subsystem is the Prometheus metric subsystem. Default: "engine".
	Subsystem string
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{Namespace: "ras", Subsystem: "engine"}
}

// TransformMetrics tracks RAS rule loading and application.
//
// Metrics:
//   - ras_engine_applications_total: transform applications by entity kind and outcome
//   - ras_engine_origin_mismatches_total: origin mismatches by failure policy
//   - ras_engine_namespace_loads_total: namespace loads
//   - ras_engine_load_duration_seconds: registry build duration
//   - ras_engine_target_classes: classes with at least one registered rule
type TransformMetrics struct {
	registry *prometheus.Registry

	applicationsTotal *prometheus.CounterVec
	mismatchesTotal   *prometheus.CounterVec
	namespaceLoads    *prometheus.CounterVec
	loadDuration      prometheus.Histogram
	targetClasses     prometheus.Gauge
}

// New creates and registers transform metrics. A nil registry creates a
// private one.
func New(cfg *Config, registry *prometheus.Registry) *TransformMetrics {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	tm := &TransformMetrics{
		registry: registry,

		applicationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "applications_total",
				Help:      "Total number of transform applications",
			},
			[]string{"kind", "outcome"},
		),

		mismatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "origin_mismatches_total",
				Help:      "Total number of origin mismatches by failure policy",
			},
			[]string{"policy"},
		),

		namespaceLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "namespace_loads_total",
				Help:      "Total number of RAS namespace loads",
			},
			[]string{"namespace"},
		),

		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Duration of registry builds in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),

		targetClasses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "target_classes",
				Help:      "Number of classes with at least one registered rule",
			},
		),
	}

	registry.MustRegister(
		tm.applicationsTotal,
		tm.mismatchesTotal,
		tm.namespaceLoads,
		tm.loadDuration,
		tm.targetClasses,
	)

	return tm
}

// RecordApplication records one transform application attempt.
// Outcome is "applied", "skipped", or "failed".
func (tm *TransformMetrics) RecordApplication(kind, outcome string) {
	tm.applicationsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordMismatch records an origin mismatch and the policy that
// governed it.
func (tm *TransformMetrics) RecordMismatch(policy string) {
	tm.mismatchesTotal.WithLabelValues(policy).Inc()
}

// RecordNamespaceLoad records one namespace load.
func (tm *TransformMetrics) RecordNamespaceLoad(namespace string) {
	tm.namespaceLoads.WithLabelValues(namespace).Inc()
}

// ObserveLoad records the duration of a registry build.
func (tm *TransformMetrics) ObserveLoad(d time.Duration) {
	tm.loadDuration.Observe(d.Seconds())
}

// SetTargetClasses records the current number of target classes.
func (tm *TransformMetrics) SetTargetClasses(n int) {
	tm.targetClasses.Set(float64(n))
}
