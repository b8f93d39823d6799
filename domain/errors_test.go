package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUnwrapping(t *testing.T) {
	t.Run("invalid category unwraps to sentinel", func(t *testing.T) {
		err := NewInvalidCategoryError("bogus")
		assert.True(t, errors.Is(err, ErrInvalidCategory))
		assert.Contains(t, err.Error(), "bogus")
	})

	t.Run("malformed response unwraps to sentinel", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := NewMalformedResponseError(cause)
		assert.True(t, errors.Is(err, ErrMalformedResponse))
		assert.Contains(t, err.Error(), "unexpected EOF")
	})

	t.Run("transport error unwraps to sentinel", func(t *testing.T) {
		err := NewTransportError(http.StatusNotFound, nil)
		assert.True(t, errors.Is(err, ErrTransport))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("oai error unwraps to transport sentinel", func(t *testing.T) {
		err := &OAIError{Code: "badResumptionToken", Message: "expired"}
		assert.True(t, errors.Is(err, ErrTransport))
		assert.Contains(t, err.Error(), "badResumptionToken")
	})

	t.Run("typed errors survive wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("harvest: %w", NewTransportError(http.StatusBadGateway, nil))
		var terr *TransportError
		require.ErrorAs(t, wrapped, &terr)
		assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	})
}

func TestIsOverloaded(t *testing.T) {
	assert.True(t, IsOverloaded(NewTransportError(http.StatusServiceUnavailable, nil)))
	assert.True(t, IsOverloaded(fmt.Errorf("fetch: %w", NewTransportError(http.StatusServiceUnavailable, nil))))
	assert.False(t, IsOverloaded(NewTransportError(http.StatusInternalServerError, nil)))
	assert.False(t, IsOverloaded(errors.New("connection refused")))
	assert.False(t, IsOverloaded(nil))
}

func TestRecordFieldText(t *testing.T) {
	rec := Record{
		Title:        "online learning",
		Abstract:     "we study bandits",
		Categories:   "stat.ml cs.lg",
		Authors:      []string{"ada lovelace", "alan turing"},
		Affiliations: []string{"analytical engine co", ""},
	}

	cases := map[string]string{
		FieldTitle:       "online learning",
		FieldAbstract:    "we study bandits",
		FieldCategories:  "stat.ml cs.lg",
		FieldAuthor:      "ada lovelace alan turing",
		FieldAffiliation: "analytical engine co ",
	}
	for field, want := range cases {
		got, ok := rec.FieldText(field)
		require.True(t, ok, "field %q", field)
		assert.Equal(t, want, got)
	}

	_, ok := rec.FieldText("doi")
	assert.False(t, ok)
}
