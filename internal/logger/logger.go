// package logger builds the application's structured zerolog logger
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/cirocosta/todoapi/internal/config"
)

// New creates the root logger from the logging configuration.
// Events are written to os.Stdout.
func New(cfg config.LoggingConfig, env string) zerolog.Logger {
	return NewWithWriter(cfg, env, os.Stdout)
}

// NewWithWriter creates the root logger writing to w
func NewWithWriter(cfg config.LoggingConfig, env string, w io.Writer) zerolog.Logger {
	// stack traces captured with github.com/pkg/errors show up on .Stack() events
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "todoapi").
		Str("env", env).
		Logger()
}
