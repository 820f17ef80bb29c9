package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}

func TestInit_ReplacesGlobal(t *testing.T) {
	logger, undo, err := Init("debug", true)
	require.NoError(t, err)
	assert.Same(t, logger, zap.L())
	undo()
	assert.NotSame(t, logger, zap.L())
}
