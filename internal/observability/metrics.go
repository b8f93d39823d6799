package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for the harvester. All
// metrics are registered via promauto on the registerer passed to
// NewMetrics.
type Metrics struct {
	// HarvestsStarted counts harvest runs initiated.
	HarvestsStarted prometheus.Counter

	// HarvestsCompleted counts harvest runs that returned a result,
	// including partial results after a timeout.
	HarvestsCompleted prometheus.Counter

	// HarvestsFailed counts harvest runs that ended in a fatal error.
	HarvestsFailed prometheus.Counter

	// HarvestDuration observes end-to-end harvest duration in seconds.
	HarvestDuration prometheus.Histogram

	// PagesFetched counts result pages fetched and parsed.
	PagesFetched prometheus.Counter

	// RecordsHarvested counts records accumulated across all pages.
	RecordsHarvested prometheus.Counter

	// OverloadRetries counts 503 responses that triggered a backoff.
	OverloadRetries prometheus.Counter

	// PageFetchDuration observes the duration of successful page
	// fetches in seconds.
	PageFetchDuration prometheus.Histogram

	// RecordsPerPage observes the distribution of records per page.
	RecordsPerPage prometheus.Histogram
}

// NewMetrics creates a Metrics instance registered on reg. The
// namespace prefixes all metric names. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HarvestsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvests_started_total",
			Help:      "Total number of harvest runs started",
		}),
		HarvestsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvests_completed_total",
			Help:      "Total number of harvest runs completed, partial results included",
		}),
		HarvestsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvests_failed_total",
			Help:      "Total number of harvest runs that failed",
		}),
		HarvestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "harvest_duration_seconds",
			Help:      "Duration of harvest runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		}),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Total number of result pages fetched",
		}),
		RecordsHarvested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_harvested_total",
			Help:      "Total number of records accumulated",
		}),
		OverloadRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overload_retries_total",
			Help:      "Total number of 503 responses retried after backoff",
		}),
		PageFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_fetch_duration_seconds",
			Help:      "Duration of successful page fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RecordsPerPage: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "records_per_page",
			Help:      "Number of records returned per page",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000},
		}),
	}
}
