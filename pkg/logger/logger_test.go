package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	appConfig "github.com/festy23/memberquery/internal/config"
)

func TestNew(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_OUTPUT", "stdout")

	logger, err := New()
	require.NoError(t, err)
	assert.True(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestNewWithConfig_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
		{"bogus", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewWithConfig(appConfig.LoggerConfig{Level: tt.level, Format: "json", Output: "stderr"})
			require.NoError(t, err)

			core := logger.Desugar().Core()
			assert.True(t, core.Enabled(tt.enabled))
			assert.False(t, core.Enabled(tt.muted))
		})
	}
}

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewWithConfig(appConfig.LoggerConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Infow("member created", "member_id", 1)
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"member created"`)
	assert.Contains(t, string(data), `"service":"memberquery"`)
	assert.Contains(t, string(data), `"member_id":1`)
}

func TestNewWithConfig_BadFile(t *testing.T) {
	_, err := NewWithConfig(appConfig.LoggerConfig{
		Level:  "info",
		Format: "json",
		Output: filepath.Join(t.TempDir(), "missing", "app.log"),
	})
	assert.Error(t, err)
}
