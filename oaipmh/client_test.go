package oaipmh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		BaseURL:       serverURL,
		CourtesyPause: 0,
		Timeout:       5 * time.Second,
	})
}

func TestClientListRecords(t *testing.T) {
	t.Run("sends initial request parameters", func(t *testing.T) {
		var gotQuery url.Values
		var gotUserAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			gotUserAgent = r.Header.Get("User-Agent")
			w.Write([]byte(samplePage))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
		page, err := client.ListRecords(context.Background(), "cs", from, until)
		require.NoError(t, err)

		assert.Equal(t, "ListRecords", gotQuery.Get("verb"))
		assert.Equal(t, "cs", gotQuery.Get("set"))
		assert.Equal(t, "2024-03-01", gotQuery.Get("from"))
		assert.Equal(t, "2024-03-07", gotQuery.Get("until"))
		assert.Equal(t, "arXiv", gotQuery.Get("metadataPrefix"))
		assert.Equal(t, DefaultUserAgent, gotUserAgent)
		assert.Len(t, page.Records, 2)
	})

	t.Run("resume sends only the token", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Write([]byte(finalPage))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		page, err := client.Resume(context.Background(), "6954919|1001")
		require.NoError(t, err)

		assert.Equal(t, "ListRecords", gotQuery.Get("verb"))
		assert.Equal(t, "6954919|1001", gotQuery.Get("resumptionToken"))
		assert.Empty(t, gotQuery.Get("set"))
		assert.Empty(t, gotQuery.Get("from"))
		assert.Empty(t, gotQuery.Get("metadataPrefix"))
		assert.Empty(t, page.ResumptionToken)
	})

	t.Run("503 becomes an overload transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "600")
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Resume(context.Background(), "token")
		require.Error(t, err)
		assert.True(t, domain.IsOverloaded(err))
	})

	t.Run("other statuses become non-overload transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Resume(context.Background(), "token")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrTransport))
		assert.False(t, domain.IsOverloaded(err))

		var terr *domain.TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	})

	t.Run("network failure becomes a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestClient(server.URL)
		_, err := client.Resume(context.Background(), "token")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrTransport))
		assert.False(t, domain.IsOverloaded(err))
	})

	t.Run("context cancellation aborts the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
			w.Write([]byte(finalPage))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		client := newTestClient(server.URL)
		_, err := client.Resume(ctx, "token")
		require.Error(t, err)
	})
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultMetadataPrefix, cfg.MetadataPrefix)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}
