// Package metrics provides Prometheus metrics for the stride pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the stride pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Loader
	activitiesLoaded  *prometheus.CounterVec
	recordsRejected   *prometheus.CounterVec
	duplicatesSkipped prometheus.Counter
	loadLatency       *prometheus.HistogramVec

	// Summarizer
	summaryActivities   prometheus.Gauge
	summaryWeeklyKM     prometheus.Gauge
	summaryConsistency  prometheus.Gauge
	summaryLongestRunKM prometheus.Gauge

	// Planner
	planEntries   *prometheus.CounterVec
	planTemplates *prometheus.CounterVec

	// Exporter
	exportsWritten   *prometheus.CounterVec
	exportFailures   *prometheus.CounterVec
	schemaViolations prometheus.Counter

	lastRun prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "stride",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.activitiesLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "activities_loaded_total",
		Help:        "Activity records loaded from input files, by file format",
		ConstLabels: labels,
	}, []string{"format"})

	m.recordsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_rejected_total",
		Help:        "Activity records excluded from statistics, by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.duplicatesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicates_skipped_total",
		Help:        "Sessions seen in more than one input file and loaded once",
		ConstLabels: labels,
	})

	m.loadLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "load_latency_milliseconds",
		Help:        "Time spent parsing one input file in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"format"})

	m.summaryActivities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_activities",
		Help:        "Runs counted by the last training summary",
		ConstLabels: labels,
	})

	m.summaryWeeklyKM = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_weekly_distance_km",
		Help:        "Average weekly distance of the last training summary",
		ConstLabels: labels,
	})

	m.summaryConsistency = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_consistency_ratio",
		Help:        "Share of weeks with at least one run in the last training summary",
		ConstLabels: labels,
	})

	m.summaryLongestRunKM = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_longest_run_km",
		Help:        "Longest run of the last training summary",
		ConstLabels: labels,
	})

	m.planEntries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "plan_entries_total",
		Help:        "Generated plan entries, by workout type",
		ConstLabels: labels,
	}, []string{"workout"})

	m.planTemplates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "plans_generated_total",
		Help:        "Generated plans, by template (computed or beginner)",
		ConstLabels: labels,
	}, []string{"template"})

	m.exportsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "exports_written_total",
		Help:        "Export files written, by format",
		ConstLabels: labels,
	}, []string{"format"})

	m.exportFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "export_failures_total",
		Help:        "Failed exports, by format and reason",
		ConstLabels: labels,
	}, []string{"format", "reason"})

	m.schemaViolations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "schema_violations_total",
		Help:        "Plan entries rejected by an export schema",
		ConstLabels: labels,
	})

	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time of the last pipeline run",
		ConstLabels: labels,
	})
}

// RecordActivitiesLoaded adds n loaded records for a file format.
func (m *Manager) RecordActivitiesLoaded(format string, n int) {
	if !m.enabled {
		return
	}
	m.activitiesLoaded.WithLabelValues(format).Add(float64(n))
}

// RecordRejected counts one record excluded from statistics.
func (m *Manager) RecordRejected(reason string) {
	if !m.enabled {
		return
	}
	m.recordsRejected.WithLabelValues(reason).Inc()
}

// RecordDuplicate counts one duplicate session.
func (m *Manager) RecordDuplicate() {
	if !m.enabled {
		return
	}
	m.duplicatesSkipped.Inc()
}

// RecordLoadLatency records the parse time of one file in milliseconds.
func (m *Manager) RecordLoadLatency(format string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.loadLatency.WithLabelValues(format).Observe(latencyMs)
}

// UpdateSummary publishes the headline numbers of a training summary.
func (m *Manager) UpdateSummary(activities int, weeklyKM, consistency, longestKM float64) {
	if !m.enabled {
		return
	}
	m.summaryActivities.Set(float64(activities))
	m.summaryWeeklyKM.Set(weeklyKM)
	m.summaryConsistency.Set(consistency)
	m.summaryLongestRunKM.Set(longestKM)
}

// RecordPlanEntry counts one generated plan entry.
func (m *Manager) RecordPlanEntry(workout string) {
	if !m.enabled {
		return
	}
	m.planEntries.WithLabelValues(workout).Inc()
}

// RecordPlan counts one generated plan.
func (m *Manager) RecordPlan(template string) {
	if !m.enabled {
		return
	}
	m.planTemplates.WithLabelValues(template).Inc()
	m.lastRun.SetToCurrentTime()
}

// RecordExport counts one written export file.
func (m *Manager) RecordExport(format string) {
	if !m.enabled {
		return
	}
	m.exportsWritten.WithLabelValues(format).Inc()
}

// RecordExportFailure counts one failed export.
func (m *Manager) RecordExportFailure(format, reason string) {
	if !m.enabled {
		return
	}
	m.exportFailures.WithLabelValues(format, reason).Inc()
}

// RecordSchemaViolations adds n rejected entries.
func (m *Manager) RecordSchemaViolations(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.schemaViolations.Add(float64(n))
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric in the text exposition format, suitable
// for the node-exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}
