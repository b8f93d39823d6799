package harvester

import "time"

// PageEvent describes one successfully fetched and parsed page.
type PageEvent struct {
	// HarvestID identifies the harvest run this page belongs to.
	HarvestID string

	// Page is the 1-based page number within the harvest.
	Page int

	// Records is the number of records parsed from this page.
	Records int

	// Accumulated is the total number of records gathered so far.
	Accumulated int

	// TotalExpected is the server-reported complete list size, 0 when
	// unknown.
	TotalExpected int

	// Duration is the time the successful fetch and parse took,
	// excluding any preceding overload retries.
	Duration time.Duration

	// Elapsed is the time since the harvest started.
	Elapsed time.Duration
}

// RetryEvent describes an overload response about to be retried.
type RetryEvent struct {
	// HarvestID identifies the harvest run.
	HarvestID string

	// StatusCode is the HTTP status that triggered the retry.
	StatusCode int

	// Wait is the configured sleep before the request is re-issued.
	Wait time.Duration

	// Elapsed is the time since the harvest started.
	Elapsed time.Duration
}

// Observer receives progress events from a running harvest. The loop
// itself stays free of console or metrics coupling; logging and
// instrumentation are observer implementations. Callbacks run
// synchronously on the harvest goroutine and should return quickly.
type Observer interface {
	// OnPageFetched is called after each page is parsed and appended.
	OnPageFetched(event PageEvent)

	// OnRetry is called before sleeping on an overload response.
	OnRetry(event RetryEvent)
}

// NopObserver is an Observer that ignores all events.
type NopObserver struct{}

// OnPageFetched implements Observer.
func (NopObserver) OnPageFetched(PageEvent) {}

// OnRetry implements Observer.
func (NopObserver) OnRetry(RetryEvent) {}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

// OnPageFetched implements Observer.
func (m MultiObserver) OnPageFetched(event PageEvent) {
	for _, o := range m {
		o.OnPageFetched(event)
	}
}

// OnRetry implements Observer.
func (m MultiObserver) OnRetry(event RetryEvent) {
	for _, o := range m {
		o.OnRetry(event)
	}
}
