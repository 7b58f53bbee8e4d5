package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		stdio     bool
		wantLevel zapcore.Level
		wantNop   bool
	}{
		{name: "server info", level: "info", wantLevel: zapcore.InfoLevel},
		{name: "server debug", level: "debug", wantLevel: zapcore.DebugLevel},
		{name: "stdio info is silent", level: "info", stdio: true, wantNop: true},
		{name: "stdio debug", level: "debug", stdio: true, wantLevel: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.stdio)
			require.NoError(t, err)

			if tt.wantNop {
				assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
				return
			}
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}

func TestConsole(t *testing.T) {
	assert.False(t, Console(false).Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Console(true).Core().Enabled(zapcore.DebugLevel))
}
