package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerDefaults(t *testing.T) {
	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("startup", String("component", "test"))
}

func TestObservedFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("analysis complete",
		String("analysis_id", "abc"),
		Float64("score", 0.82),
		Int("competitors", 7),
	)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "analysis complete", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["analysis_id"])
	assert.Equal(t, 0.82, fields["score"])
}

func TestWithAddsPersistentFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).With(String("request_id", "r-1"))

	log.Warn("oracle lookup failed")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "r-1", entries[0].ContextMap()["request_id"])
}

func TestNopLoggerIsSafe(t *testing.T) {
	log := NewNopLogger()
	log.Debug("x")
	log.Info("x", Err(nil))
	log.Error("x", Any("k", struct{}{}))
	assert.NotNil(t, log.With(String("a", "b")).Named("child"))
}
