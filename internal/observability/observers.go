package observability

import (
	"github.com/rs/zerolog"

	"github.com/scholarpipe/arxiv-harvester/harvester"
)

// LogObserver logs harvest progress events through zerolog.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates a LogObserver writing to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnPageFetched implements harvester.Observer.
func (o *LogObserver) OnPageFetched(event harvester.PageEvent) {
	o.logger.Info().
		Str("harvest_id", event.HarvestID).
		Int("page", event.Page).
		Int("records", event.Records).
		Int("accumulated", event.Accumulated).
		Int("total_expected", event.TotalExpected).
		Dur("elapsed", event.Elapsed).
		Msg("page fetched")
}

// OnRetry implements harvester.Observer.
func (o *LogObserver) OnRetry(event harvester.RetryEvent) {
	o.logger.Warn().
		Str("harvest_id", event.HarvestID).
		Int("status", event.StatusCode).
		Dur("wait", event.Wait).
		Dur("elapsed", event.Elapsed).
		Msg("endpoint overloaded, retrying after wait")
}

// MetricsObserver updates Prometheus metrics from harvest progress
// events.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates a MetricsObserver updating metrics.
func NewMetricsObserver(metrics *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: metrics}
}

// OnPageFetched implements harvester.Observer.
func (o *MetricsObserver) OnPageFetched(event harvester.PageEvent) {
	o.metrics.PagesFetched.Inc()
	o.metrics.RecordsHarvested.Add(float64(event.Records))
	o.metrics.RecordsPerPage.Observe(float64(event.Records))
	o.metrics.PageFetchDuration.Observe(event.Duration.Seconds())
}

// OnRetry implements harvester.Observer.
func (o *MetricsObserver) OnRetry(harvester.RetryEvent) {
	o.metrics.OverloadRetries.Inc()
}
