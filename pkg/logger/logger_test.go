package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit_OnceAndGlobal(t *testing.T) {
	require.NoError(t, Init(zapcore.DebugLevel, true, zap.String("service", "test")))
	first := Log
	require.NotNil(t, first)

	require.NoError(t, Init(zapcore.ErrorLevel, false))
	assert.Same(t, first, Log, "second Init keeps the first logger")
	assert.Same(t, Log, zap.L())
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
}
