package oaipmh

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

const (
	// DefaultBaseURL is the arXiv OAI-PMH endpoint.
	DefaultBaseURL = "https://export.arxiv.org/oai2"

	// DefaultMetadataPrefix selects the arXiv metadata format.
	DefaultMetadataPrefix = "arXiv"

	// DefaultCourtesyPause is the documented politeness delay between
	// consecutive requests. Distinct from the configurable overload
	// backoff; kept at the endpoint's recommended spacing.
	DefaultCourtesyPause = 3 * time.Second

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies the harvester to the endpoint.
	DefaultUserAgent = "arxiv-harvester/1.0"

	// maxResponseSize bounds response body reads. OAI-PMH pages carry
	// up to 1000 records with abstracts; 50MB is far above observed
	// page sizes.
	maxResponseSize = 50 << 20

	// dateFormat is the wire format for from/until parameters.
	dateFormat = "2006-01-02"
)

// Config holds configuration for the OAI-PMH client.
type Config struct {
	// BaseURL is the OAI-PMH endpoint URL.
	BaseURL string

	// MetadataPrefix is the metadata format requested on the initial
	// ListRecords call.
	MetadataPrefix string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CourtesyPause is the minimum spacing between consecutive
	// requests, enforced with a token bucket. Zero or negative
	// disables the pause (useful in tests).
	CourtesyPause time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MetadataPrefix == "" {
		c.MetadataPrefix = DefaultMetadataPrefix
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

// Client issues ListRecords requests against one OAI-PMH endpoint.
// It performs exactly one HTTP request per call and never retries:
// retry policy belongs to the harvest loop, which inspects the typed
// errors returned here. A Retry-After header on 503 responses is
// deliberately ignored in favor of the harvester's configured wait.
type Client struct {
	client  *http.Client
	limiter *RateLimiter
	config  Config
}

// NewClient creates a new client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()

	limiter := newUnlimited()
	if cfg.CourtesyPause > 0 {
		limiter = NewRateLimiter(1/cfg.CourtesyPause.Seconds(), 1)
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		config:  cfg,
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client.
// This is useful for testing with mock servers.
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	c := NewClient(cfg)
	c.client = httpClient
	return c
}

// ListRecords issues the initial request for a harvest: category set,
// date window, and metadata prefix. Subsequent pages must be fetched
// with Resume; per protocol semantics the token alone carries the
// continuation state and the initial parameters are not resent.
func (c *Client) ListRecords(ctx context.Context, set string, from, until time.Time) (*Page, error) {
	params := url.Values{}
	params.Set("verb", "ListRecords")
	params.Set("set", set)
	params.Set("from", from.Format(dateFormat))
	params.Set("until", until.Format(dateFormat))
	params.Set("metadataPrefix", c.config.MetadataPrefix)
	return c.fetch(ctx, params)
}

// Resume fetches the next page identified by a resumption token.
func (c *Client) Resume(ctx context.Context, token string) (*Page, error) {
	params := url.Values{}
	params.Set("verb", "ListRecords")
	params.Set("resumptionToken", token)
	return c.fetch(ctx, params)
}

// fetch waits for the courtesy limiter, issues one GET, and parses the
// response body. Non-200 statuses become domain.TransportError with
// the status code preserved, 503 included.
func (c *Client) fetch(ctx context.Context, params url.Values) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := strings.TrimRight(c.config.BaseURL, "?") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewTransportError(0, err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, domain.NewTransportError(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, domain.NewTransportError(0, err)
	}

	return ParsePage(body)
}
