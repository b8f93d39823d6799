package harvester

import (
	"strings"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

// ApplyFilters returns the records that pass the keyword filters and
// the predicate, preserving relative order. Records are not mutated.
//
// Keyword semantics are a logical OR across all field/keyword pairs:
// a record passes when any configured field contains any of its
// configured keywords as a case-insensitive substring, or when no
// filters are configured at all. The predicate, when non-nil, is a
// further conjunct.
func ApplyFilters(records []domain.Record, filters map[string][]string, pred Predicate) []domain.Record {
	if len(filters) == 0 && pred == nil {
		return records
	}

	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if !matchesKeywords(&rec, filters) {
			continue
		}
		if pred != nil && !pred(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// matchesKeywords reports whether any configured field of rec contains
// any of its configured keywords. Empty filters match everything.
func matchesKeywords(rec *domain.Record, filters map[string][]string) bool {
	if len(filters) == 0 {
		return true
	}
	for field, keywords := range filters {
		text, ok := rec.FieldText(field)
		if !ok {
			continue
		}
		text = strings.ToLower(text)
		for _, keyword := range keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}
