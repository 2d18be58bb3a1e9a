package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("statement", "fetch_users").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"statement":"fetch_users"`)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	assert.Equal(t, zerolog.InfoLevel, NewWithWriter(Config{Level: "loud"}, &buf).GetLevel())
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelTrace, GetPgxTraceLogLevel(zerolog.TraceLevel))
	assert.Equal(t, tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelWarn, GetPgxTraceLogLevel(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelError, GetPgxTraceLogLevel(zerolog.FatalLevel))
	assert.Equal(t, tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestPgxTracerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewPgxTracer(NewWithWriter(Config{Level: "debug"}, &buf))
	assert.Equal(t, tracelog.LogLevelDebug, tracer.LogLevel)

	tracer.Logger.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{"sql": "SELECT 1"})
	assert.Contains(t, buf.String(), `"component":"pgx"`)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
}
