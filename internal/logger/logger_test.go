package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Development(t *testing.T) {
	log, err := New("development")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Production(t *testing.T) {
	log, err := New("production")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNewNamed(t *testing.T) {
	log, err := NewNamed("production", "service-transit")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
