package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLoggerConfigFromEnv(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, LoggerConfig{Level: "info", Format: "json", Output: "stdout"}, LoadLoggerConfigFromEnv())

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_OUTPUT", "/var/log/memberquery.log")
	assert.Equal(t, LoggerConfig{Level: "warn", Format: "console", Output: "/var/log/memberquery.log"}, LoadLoggerConfigFromEnv())
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggerConfig
		wantErr string
	}{
		{"json info", LoggerConfig{Level: "info", Format: "json"}, ""},
		{"console debug", LoggerConfig{Level: "debug", Format: "console"}, ""},
		{"error level", LoggerConfig{Level: "error", Format: "json"}, ""},
		{"bad level", LoggerConfig{Level: "verbose", Format: "json"}, "invalid log level"},
		{"level is case-sensitive", LoggerConfig{Level: "INFO", Format: "json"}, "invalid log level"},
		{"bad format", LoggerConfig{Level: "info", Format: "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "info", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}
