package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	assert.True(t, NewLogger(true).Core().Enabled(zap.DebugLevel))
	assert.False(t, NewLogger(false).Core().Enabled(zap.DebugLevel))
}

func TestNewLoggerWithLevel(t *testing.T) {
	l, err := NewLoggerWithLevel("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = NewLoggerWithLevel("loud")
	assert.Error(t, err)
}
