package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "faves"

// Metrics holds every collector the classification service exposes. All
// collectors register against a private registry so tests can build
// independent instances without global-state collisions.
type Metrics struct {
	registry *prometheus.Registry

	ClassificationsTotal *prometheus.CounterVec
	ClassifyDuration     prometheus.Histogram
	ParseFailuresTotal   *prometheus.CounterVec
	DegradedScansTotal   prometheus.Counter
	ScaffoldHitsTotal    *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	SnapshotReloadsTotal prometheus.Counter
	WhitelistSize        prometheus.Gauge
	ControlledSize       prometheus.Gauge
	PatternCount         prometheus.Gauge

	AuditPublishFailuresTotal prometheus.Counter
}

// NewMetrics builds and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{
		registry: registry,

		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classifications performed, labelled by final status.",
		}, []string{"status"}),

		ClassifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "End-to-end classification latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),

		ParseFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Structure parse failures, labelled by error code.",
		}, []string{"code"}),

		DegradedScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_scans_total",
			Help:      "Scaffold scans where at least one pattern timed out.",
		}),

		ScaffoldHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scaffold_hits_total",
			Help:      "Scaffold pattern hits, labelled by pattern class.",
		}, []string{"class"}),

		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdict_cache_hits_total",
			Help:      "Verdicts served from the cache.",
		}),

		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdict_cache_misses_total",
			Help:      "Verdict cache lookups that missed.",
		}),

		SnapshotReloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_reloads_total",
			Help:      "Successful reference snapshot reloads.",
		}),

		WhitelistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "whitelist_records",
			Help:      "Records in the loaded whitelist index.",
		}),

		ControlledSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controlled_records",
			Help:      "Records in the loaded controlled index.",
		}),

		PatternCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scaffold_patterns",
			Help:      "Compiled patterns in the scaffold library.",
		}),

		AuditPublishFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_publish_failures_total",
			Help:      "Audit events that could not be published.",
		}),
	}

	registry.MustRegister(
		m.ClassificationsTotal,
		m.ClassifyDuration,
		m.ParseFailuresTotal,
		m.DegradedScansTotal,
		m.ScaffoldHitsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.SnapshotReloadsTotal,
		m.WhitelistSize,
		m.ControlledSize,
		m.PatternCount,
		m.AuditPublishFailuresTotal,
	)
	return m
}

// ObserveClassification records the outcome counters for one classification.
func (m *Metrics) ObserveClassification(status string, elapsed time.Duration, degraded bool) {
	m.ClassificationsTotal.WithLabelValues(status).Inc()
	m.ClassifyDuration.Observe(elapsed.Seconds())
	if degraded {
		m.DegradedScansTotal.Inc()
	}
}

// SetIndexSizes updates the loaded-index gauges after a snapshot swap.
func (m *Metrics) SetIndexSizes(whitelist, controlled int) {
	m.WhitelistSize.Set(float64(whitelist))
	m.ControlledSize.Set(float64(controlled))
}

// Registry exposes the private registry for test assertions.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
