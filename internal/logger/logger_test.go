package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_LevelOverride(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Init("test", "")) })

	require.NoError(t, Init("production", "warn"))
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, Init("development", ""))
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Init("test", "")) })

	assert.Error(t, Init("production", "loud"))
}

func TestInit_TestEnvironmentDiscards(t *testing.T) {
	require.NoError(t, Init("test", "debug"))
	assert.False(t, Logger.Core().Enabled(zapcore.ErrorLevel))
}
