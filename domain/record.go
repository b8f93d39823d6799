// Package domain defines the core types shared across the harvester:
// the bibliographic Record and the error taxonomy.
package domain

import "strings"

// Record is one harvested bibliographic entry from arXiv.
//
// Text fields are whitespace-normalized and lowercased at parse time.
// JSON field names mirror the flat mapping historically produced by
// arXiv scraping tools, so a slice of Records converts directly to
// tabular output.
type Record struct {
	// Identifier is the arXiv-assigned id (e.g. "2301.12345" or
	// "cond-mat/0701234"). Always non-empty for parsed records.
	Identifier string `json:"id"`

	// Title is the paper title.
	Title string `json:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract"`

	// Categories is the space-joined list of category codes
	// (e.g. "stat.ml cs.lg").
	Categories string `json:"categories"`

	// DOI is the registered DOI, empty when none is recorded.
	DOI string `json:"doi"`

	// Created is the submission date in YYYY-MM-DD format.
	Created string `json:"created"`

	// Updated is the date of the latest revision, possibly equal to
	// Created, empty when the paper was never revised.
	Updated string `json:"updated"`

	// Authors holds the author names in submission order.
	Authors []string `json:"authors"`

	// Affiliations holds one entry per author, empty string where the
	// affiliation is unknown. len(Affiliations) == len(Authors).
	Affiliations []string `json:"affiliation"`

	// URL is the abstract page URL, derived from Identifier.
	URL string `json:"url"`
}

// Field names recognized by FieldText and the filter engine.
const (
	FieldTitle       = "title"
	FieldAbstract    = "abstract"
	FieldAuthor      = "author"
	FieldCategories  = "categories"
	FieldAffiliation = "affiliation"
)

// FieldText returns the searchable text of the named field. Multi-valued
// fields (author, affiliation) are space-joined. The second return value
// is false for unrecognized field names.
func (r *Record) FieldText(field string) (string, bool) {
	switch field {
	case FieldTitle:
		return r.Title, true
	case FieldAbstract:
		return r.Abstract, true
	case FieldCategories:
		return r.Categories, true
	case FieldAuthor:
		return strings.Join(r.Authors, " "), true
	case FieldAffiliation:
		return strings.Join(r.Affiliations, " "), true
	}
	return "", false
}
