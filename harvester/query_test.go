package harvester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

func TestQueryApplyDefaults(t *testing.T) {
	t.Run("fills the date window and waits", func(t *testing.T) {
		q := Query{Category: "cs"}
		q.applyDefaults()

		now := time.Now()
		assert.Equal(t, now.Year(), q.From.Year())
		assert.Equal(t, now.Month(), q.From.Month())
		assert.Equal(t, 1, q.From.Day())
		assert.False(t, q.Until.Before(q.From))
		assert.Equal(t, DefaultRetryWait, q.RetryWait)
		assert.Equal(t, DefaultTimeout, q.Timeout)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
		q := Query{Category: "cs", From: from, Until: until, RetryWait: time.Second, Timeout: time.Minute}
		q.applyDefaults()
		assert.Equal(t, from, q.From)
		assert.Equal(t, until, q.Until)
		assert.Equal(t, time.Second, q.RetryWait)
		assert.Equal(t, time.Minute, q.Timeout)
	})
}

func TestQueryValidate(t *testing.T) {
	valid := Query{
		Category:  "cs",
		From:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Until:     time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		RetryWait: time.Second,
		Timeout:   time.Minute,
	}

	t.Run("accepts a valid query", func(t *testing.T) {
		q := valid
		require.NoError(t, q.validate())
	})

	t.Run("rejects negative waits", func(t *testing.T) {
		q := valid
		q.RetryWait = -time.Second
		assert.Error(t, q.validate())

		q = valid
		q.Timeout = -time.Second
		assert.Error(t, q.validate())
	})

	t.Run("rejects an inverted date window", func(t *testing.T) {
		q := valid
		q.From, q.Until = q.Until, q.From
		assert.Error(t, q.validate())
	})

	t.Run("rejects unknown filter fields", func(t *testing.T) {
		q := valid
		q.Filters = map[string][]string{"doi": {"10.1000"}}
		assert.Error(t, q.validate())

		q.Filters = map[string][]string{domain.FieldAbstract: {"learning"}}
		assert.NoError(t, q.validate())
	})
}
