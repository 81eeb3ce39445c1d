package logging

import (
	"testing"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		verbose bool
		want    zapcore.Level
	}{
		{name: "default", cfg: config.LoggingConfig{}, want: zapcore.InfoLevel},
		{name: "configured level", cfg: config.LoggingConfig{Level: "warn"}, want: zapcore.WarnLevel},
		{name: "verbose wins", cfg: config.LoggingConfig{Level: "error"}, verbose: true, want: zapcore.DebugLevel},
		{name: "development", cfg: config.LoggingConfig{Level: "info", Development: true}, want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.verbose)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"}, false)
	assert.Error(t, err)
}
