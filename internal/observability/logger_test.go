package observability

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"panic":   zerolog.PanicLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseLevel(input), "level %q", input)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("applies the configured level", func(t *testing.T) {
		logger := NewLogger(LoggingConfig{Level: "warn", Format: "json", Output: "stderr"})
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("defaults are usable", func(t *testing.T) {
		logger := NewLogger(DefaultLoggingConfig())
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}
