// Package logger builds the node's zerolog root logger from its config.
// Components derive child loggers tagged with a "component" field.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/signet-protocol/signet-node/config"
)

// New creates the root logger: console or json format, numeric level
// filtering, and optional 1-in-5 sampling.
func New(cfg config.Config) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if cfg.LogFormat != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		Level(zerolog.Level(cfg.LogLevel)).
		With().
		Timestamp().
		Logger()

	if cfg.LogSampler {
		logger = logger.Sample(&zerolog.BasicSampler{N: 5})
	}
	return logger
}
