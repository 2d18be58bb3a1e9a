// Package logger builds the zerolog loggers used by the commands and the
// pgx query tracer.
package logger

import (
	"io"
	"os"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Config controls the root logger.
type Config struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty"`
}

// New returns the root logger writing to stderr.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewPgxLogger derives the logger pgx statements are traced to.
func NewPgxLogger(parent zerolog.Logger) zerolog.Logger {
	return parent.With().Str("component", "pgx").Logger()
}

// GetPgxTraceLogLevel maps a zerolog level to the matching tracelog level.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}

// NewPgxTracer returns a pgx tracer that logs statements to parent at its
// level.
func NewPgxTracer(parent zerolog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(NewPgxLogger(parent)),
		LogLevel: GetPgxTraceLogLevel(parent.GetLevel()),
	}
}
