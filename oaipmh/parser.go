package oaipmh

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

// abstractURLPrefix derives the public abstract page URL from an id.
const abstractURLPrefix = "https://arxiv.org/abs/"

// Page is one parsed ListRecords response page.
type Page struct {
	// Records holds the page's records in server order.
	Records []domain.Record

	// ResumptionToken is the cursor for the next page. Empty means the
	// harvest is complete; its presence is the sole continuation
	// signal, independent of page size.
	ResumptionToken string

	// TotalExpected is the completeListSize reported alongside the
	// token, 0 when the server omits it.
	TotalExpected int

	// Cursor is the zero-based position of this page within the
	// complete list, when reported.
	Cursor int
}

// ParsePage parses one XML page of ListRecords results. Missing
// optional fields default to empty values and never fail the page;
// only an unparseable top-level document returns an error
// (domain.MalformedResponseError). Records with a deleted header
// status or without an id are skipped. A noRecordsMatch protocol
// error yields an empty completed page; any other protocol error is
// returned as a domain.OAIError.
func ParsePage(data []byte) (*Page, error) {
	var env envelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, domain.NewMalformedResponseError(err)
	}

	if env.Error != nil {
		if env.Error.Code == "noRecordsMatch" {
			return &Page{}, nil
		}
		return nil, &domain.OAIError{
			Code:    env.Error.Code,
			Message: strings.TrimSpace(env.Error.Message),
		}
	}

	page := &Page{}
	if env.ListRecords == nil {
		return page, nil
	}

	page.Records = make([]domain.Record, 0, len(env.ListRecords.Records))
	for i := range env.ListRecords.Records {
		rec, ok := toRecord(&env.ListRecords.Records[i])
		if ok {
			page.Records = append(page.Records, rec)
		}
	}

	if token := env.ListRecords.ResumptionToken; token != nil {
		page.ResumptionToken = strings.TrimSpace(token.Value)
		if n, err := strconv.Atoi(token.CompleteListSize); err == nil {
			page.TotalExpected = n
		}
		if n, err := strconv.Atoi(token.Cursor); err == nil {
			page.Cursor = n
		}
	}

	return page, nil
}

// toRecord converts one record element to a domain.Record. It returns
// false for deleted records and records without an id.
func toRecord(elem *recordElem) (domain.Record, bool) {
	if elem.Header.Status == "deleted" {
		return domain.Record{}, false
	}

	meta := &elem.Metadata.ArXiv
	id := strings.TrimSpace(meta.ID)
	if id == "" {
		return domain.Record{}, false
	}

	authors := make([]string, 0, len(meta.Authors))
	affiliations := make([]string, 0, len(meta.Authors))
	for _, a := range meta.Authors {
		name := cleanText(strings.TrimSpace(a.ForeNames + " " + a.KeyName))
		if name == "" {
			continue
		}
		authors = append(authors, name)
		affiliations = append(affiliations, cleanText(a.Affiliation))
	}

	return domain.Record{
		Identifier:   id,
		Title:        cleanText(meta.Title),
		Abstract:     cleanText(meta.Abstract),
		Categories:   cleanText(meta.Categories),
		DOI:          cleanText(meta.DOI),
		Created:      strings.TrimSpace(meta.Created),
		Updated:      strings.TrimSpace(meta.Updated),
		Authors:      authors,
		Affiliations: affiliations,
		URL:          abstractURLPrefix + id,
	}, true
}

// cleanText collapses runs of whitespace (arXiv metadata wraps long
// fields with newlines) and lowercases, matching the normalization the
// filter engine and downstream consumers rely on.
func cleanText(s string) string {
	fields := strings.Fields(s)
	return strings.ToLower(strings.Join(fields, " "))
}
