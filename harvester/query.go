package harvester

import (
	"fmt"
	"time"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

const (
	// DefaultRetryWait is the sleep before re-issuing a request after
	// an overload (503) response.
	DefaultRetryWait = 30 * time.Second

	// DefaultTimeout bounds the wall-clock duration of one harvest.
	DefaultTimeout = 300 * time.Second
)

// Predicate is an arbitrary caller-supplied condition over one record.
// When set on a Query, a record must satisfy it in addition to the
// keyword filters to be retained.
type Predicate func(domain.Record) bool

// Query holds the caller-supplied parameters for one harvest. It is
// constructed once per Harvest call and not mutated afterwards.
type Query struct {
	// Category is the subject category in any accepted notation
	// (cs, cs.AI, cs:AI, physics:cond-mat). Normalized at harvest
	// start; an unrecognized value fails before any network I/O.
	Category string

	// From is the inclusive start of the date window. Zero value
	// defaults to the first day of the current month.
	From time.Time

	// Until is the inclusive end of the date window. Zero value
	// defaults to today.
	Until time.Time

	// RetryWait is the sleep between retries triggered by overload
	// (503) responses. Zero defaults to DefaultRetryWait.
	RetryWait time.Duration

	// Timeout bounds the harvest's wall-clock duration. When exceeded
	// the harvest stops and returns what has accumulated so far, as a
	// partial success. Zero defaults to DefaultTimeout.
	Timeout time.Duration

	// Filters maps field names (domain.FieldTitle, FieldAbstract,
	// FieldAuthor, FieldCategories, FieldAffiliation) to keyword sets.
	// A record passes if any configured field contains any of its
	// keywords, case-insensitively. Empty means all records pass.
	Filters map[string][]string

	// Predicate, when non-nil, must also hold for a record to be
	// retained.
	Predicate Predicate
}

// applyDefaults fills the date window and wait durations.
func (q *Query) applyDefaults() {
	now := time.Now()
	if q.From.IsZero() {
		q.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if q.Until.IsZero() {
		q.Until = now
	}
	if q.RetryWait == 0 {
		q.RetryWait = DefaultRetryWait
	}
	if q.Timeout == 0 {
		q.Timeout = DefaultTimeout
	}
}

// validate checks the query invariants after defaults are applied.
func (q *Query) validate() error {
	if q.RetryWait < 0 {
		return fmt.Errorf("retry wait must be non-negative, got %s", q.RetryWait)
	}
	if q.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", q.Timeout)
	}
	if q.From.After(q.Until) {
		return fmt.Errorf("from date %s is after until date %s",
			q.From.Format("2006-01-02"), q.Until.Format("2006-01-02"))
	}
	for field := range q.Filters {
		if _, ok := (&domain.Record{}).FieldText(field); !ok {
			return fmt.Errorf("unknown filter field %q", field)
		}
	}
	return nil
}
