package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/signet-protocol/signet-node/config"
)

func TestNew(t *testing.T) {
	t.Run("level filtering", func(t *testing.T) {
		logger := New(config.Config{LogLevel: int(zerolog.WarnLevel), LogFormat: "json"})
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("all format variants construct", func(t *testing.T) {
		_ = New(config.Config{LogFormat: "json"})
		_ = New(config.Config{LogFormat: "console"})
		_ = New(config.Config{LogFormat: "json", LogSampler: true})
	})
}
