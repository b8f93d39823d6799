// Package harvester drives paginated ListRecords harvests against the
// arXiv OAI-PMH endpoint and filters the accumulated records.
//
// A harvest is one sequential fetch-parse-paginate loop: exactly one
// request is in flight at any time, records accumulate in arrival
// order (page order, then within-page order), overload responses are
// retried after a configurable wait, and the whole run is bounded by a
// cooperative wall-clock timeout.
//
// Example:
//
//	client := oaipmh.NewClient(oaipmh.Config{})
//	h := harvester.New(client, nil, logger)
//	records, err := h.Harvest(ctx, harvester.Query{
//		Category: "stat",
//		From:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
//		Until:    time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
//		Filters:  map[string][]string{domain.FieldAbstract: {"learning"}},
//	})
package harvester

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scholarpipe/arxiv-harvester/domain"
	"github.com/scholarpipe/arxiv-harvester/oaipmh"
	"github.com/scholarpipe/arxiv-harvester/taxonomy"
)

// Harvester runs harvests against one OAI-PMH client.
type Harvester struct {
	client   *oaipmh.Client
	observer Observer
	logger   zerolog.Logger
}

// New creates a Harvester. A nil observer is replaced with NopObserver;
// pass zerolog.Nop() for a silent logger.
func New(client *oaipmh.Client, observer Observer, logger zerolog.Logger) *Harvester {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Harvester{
		client:   client,
		observer: observer,
		logger:   logger,
	}
}

// Harvest runs one complete harvest for the query and returns the
// filtered records in arrival order.
//
// Overload (503) responses are retried indefinitely after sleeping
// q.RetryWait; the only bound is q.Timeout, checked before each
// request, after which the records gathered so far are returned as a
// partial success with a nil error. Any other transport or parse
// failure is fatal: the error is returned and the partial accumulator
// is discarded. Context cancellation interrupts the in-flight request
// and the backoff sleep.
func (h *Harvester) Harvest(ctx context.Context, q Query) ([]domain.Record, error) {
	q.applyDefaults()
	if err := q.validate(); err != nil {
		return nil, err
	}

	set, err := taxonomy.Normalize(q.Category)
	if err != nil {
		return nil, err
	}

	harvestID := uuid.NewString()
	logger := h.logger.With().
		Str("harvest_id", harvestID).
		Str("set", set).
		Str("from", q.From.Format("2006-01-02")).
		Str("until", q.Until.Format("2006-01-02")).
		Logger()
	logger.Info().Msg("harvest starting")

	t0 := time.Now()
	var accumulated []domain.Record
	token := ""
	pages := 0

	for {
		if time.Since(t0) >= q.Timeout {
			logger.Warn().
				Int("records", len(accumulated)).
				Dur("elapsed", time.Since(t0)).
				Msg("harvest timeout exceeded, returning partial result")
			break
		}

		fetchStart := time.Now()
		var page *oaipmh.Page
		if token == "" {
			page, err = h.client.ListRecords(ctx, set, q.From, q.Until)
		} else {
			page, err = h.client.Resume(ctx, token)
		}
		if err != nil {
			if domain.IsOverloaded(err) {
				h.observer.OnRetry(RetryEvent{
					HarvestID:  harvestID,
					StatusCode: 503,
					Wait:       q.RetryWait,
					Elapsed:    time.Since(t0),
				})
				logger.Warn().
					Dur("wait", q.RetryWait).
					Msg("endpoint overloaded, backing off")
				if err := sleep(ctx, q.RetryWait); err != nil {
					return nil, err
				}
				// Re-issue the identical request: token (or the
				// initial parameters) is untouched, so the cursor
				// state is preserved.
				continue
			}
			logger.Error().Err(err).Msg("harvest failed")
			return nil, err
		}

		pages++
		accumulated = append(accumulated, page.Records...)
		h.observer.OnPageFetched(PageEvent{
			HarvestID:     harvestID,
			Page:          pages,
			Records:       len(page.Records),
			Accumulated:   len(accumulated),
			TotalExpected: page.TotalExpected,
			Duration:      time.Since(fetchStart),
			Elapsed:       time.Since(t0),
		})
		logger.Debug().
			Int("page", pages).
			Int("records", len(page.Records)).
			Int("accumulated", len(accumulated)).
			Int("total_expected", page.TotalExpected).
			Msg("page fetched")

		if page.ResumptionToken == "" {
			break
		}
		token = page.ResumptionToken
	}

	filtered := ApplyFilters(accumulated, q.Filters, q.Predicate)
	logger.Info().
		Int("pages", pages).
		Int("records", len(accumulated)).
		Int("retained", len(filtered)).
		Dur("elapsed", time.Since(t0)).
		Msg("harvest complete")
	return filtered, nil
}

// sleep waits for d, returning early with the context error if the
// context is canceled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
