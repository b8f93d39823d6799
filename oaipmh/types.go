package oaipmh

import "encoding/xml"

// envelope is the top-level OAI-PMH response document.
type envelope struct {
	XMLName     xml.Name     `xml:"OAI-PMH"`
	Error       *oaiError    `xml:"error"`
	ListRecords *listRecords `xml:"ListRecords"`
}

// oaiError is a protocol-level error element (badArgument,
// badResumptionToken, noRecordsMatch, ...).
type oaiError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

// listRecords holds one page of records plus the resumption token.
type listRecords struct {
	Records         []recordElem     `xml:"record"`
	ResumptionToken *resumptionToken `xml:"resumptionToken"`
}

// resumptionToken is the pagination cursor element. The final page
// carries an empty element (no chardata), sometimes with the size
// attributes still present, so attributes are kept as strings and
// parsed leniently.
type resumptionToken struct {
	Value            string `xml:",chardata"`
	CompleteListSize string `xml:"completeListSize,attr"`
	Cursor           string `xml:"cursor,attr"`
}

// recordElem is one OAI-PMH record: header plus arXiv metadata.
type recordElem struct {
	Header   recordHeader `xml:"header"`
	Metadata struct {
		ArXiv arxivMeta `xml:"arXiv"`
	} `xml:"metadata"`
}

// recordHeader carries the OAI identifier and deletion status.
type recordHeader struct {
	Identifier string `xml:"identifier"`
	Datestamp  string `xml:"datestamp"`
	Status     string `xml:"status,attr"`
}

// arxivMeta is the arXiv metadata format (metadataPrefix=arXiv).
type arxivMeta struct {
	ID         string      `xml:"id"`
	Created    string      `xml:"created"`
	Updated    string      `xml:"updated"`
	Title      string      `xml:"title"`
	Abstract   string      `xml:"abstract"`
	Categories string      `xml:"categories"`
	DOI        string      `xml:"doi"`
	Authors    []arxivAuthor `xml:"authors>author"`
}

// arxivAuthor is one author element with optional affiliation.
type arxivAuthor struct {
	KeyName     string `xml:"keyname"`
	ForeNames   string `xml:"forenames"`
	Affiliation string `xml:"affiliation"`
}
