// Package observability provides Prometheus metrics for the monitor,
// gateway, and provider layers.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus instrument the service registers.
type Metrics struct {
	// Provider call metrics
	ProviderCallLatency  *prometheus.HistogramVec
	ProviderCallTotal    *prometheus.CounterVec
	ProviderKeyRotations *prometheus.CounterVec

	// Monitor metrics
	TokensMonitored  prometheus.Counter
	TokensPassed     prometheus.Counter
	TokensFiltered   prometheus.Counter
	HistorySize      prometheus.Gauge
	BackfillDuration prometheus.Histogram

	// Gateway metrics
	SSESubscribers   prometheus.Gauge
	BusEventsDropped *prometheus.CounterVec

	// Health
	LastSuccessfulBackfill prometheus.Gauge
	UptimeSeconds          prometheus.Counter
}

// NewMetrics builds and registers every metric under namespace (defaults to
// "pumpwatch" when empty).
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pumpwatch"
	}

	return &Metrics{
		ProviderCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_latency_seconds",
			Help:      "Provider HTTP call latency in seconds by provider and operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		ProviderCallTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Total provider calls by provider, operation, and outcome",
		}, []string{"provider", "operation", "outcome"}),
		ProviderKeyRotations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "key_rotations_total",
			Help:      "Total credential rotations by provider",
		}, []string{"provider"}),

		TokensMonitored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "tokens_monitored_total",
			Help:      "Total tokens that completed enrichment and scoring",
		}),
		TokensPassed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "tokens_passed_total",
			Help:      "Total tokens that passed the scoring thresholds",
		}),
		TokensFiltered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "tokens_filtered_total",
			Help:      "Total tokens rejected by scoring thresholds",
		}),
		HistorySize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "history_size",
			Help:      "Current number of records held in the bounded in-memory history",
		}),
		BackfillDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "backfill_duration_seconds",
			Help:      "Duration of the one-shot backfill at process start",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),

		SSESubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "sse_subscribers",
			Help:      "Current number of connected SSE clients",
		}),
		BusEventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "bus_events_dropped_total",
			Help:      "Total bus events dropped for a slow subscriber, by event kind",
		}, []string{"kind"}),

		LastSuccessfulBackfill: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_backfill_timestamp",
			Help:      "Unix timestamp of the last completed backfill",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler serving the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the process-wide metrics instance used by callers that
// don't hold their own reference.
var DefaultMetrics = NewMetrics("")

// RecordProviderCall records a single provider call's latency and outcome.
func RecordProviderCall(provider, operation, outcome string, seconds float64) {
	DefaultMetrics.ProviderCallLatency.WithLabelValues(provider, operation).Observe(seconds)
	DefaultMetrics.ProviderCallTotal.WithLabelValues(provider, operation, outcome).Inc()
}

// RecordKeyRotation increments the rotation counter for provider.
func RecordKeyRotation(provider string) {
	DefaultMetrics.ProviderKeyRotations.WithLabelValues(provider).Inc()
}

// RecordTokenScored updates the monitor counters for a freshly scored token.
func RecordTokenScored(passed bool) {
	DefaultMetrics.TokensMonitored.Inc()
	if passed {
		DefaultMetrics.TokensPassed.Inc()
	} else {
		DefaultMetrics.TokensFiltered.Inc()
	}
}

// UpdateHistorySize sets the current history gauge.
func UpdateHistorySize(n int) {
	DefaultMetrics.HistorySize.Set(float64(n))
}

// RecordBackfillDuration records how long the one-shot backfill took.
func RecordBackfillDuration(seconds float64) {
	DefaultMetrics.BackfillDuration.Observe(seconds)
	DefaultMetrics.LastSuccessfulBackfill.SetToCurrentTime()
}

// UpdateSSESubscribers sets the current connected-client gauge.
func UpdateSSESubscribers(n int) {
	DefaultMetrics.SSESubscribers.Set(float64(n))
}

// RecordBusEventDropped increments the drop counter for a bus event kind.
func RecordBusEventDropped(kind string) {
	DefaultMetrics.BusEventsDropped.WithLabelValues(kind).Inc()
}
