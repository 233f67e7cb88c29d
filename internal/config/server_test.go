package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg := LoadServerConfigFromEnv()
		assert.Equal(t, ServerConfig{
			Port:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		}, cfg)
	})

	t.Run("custom values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("SERVER_READ_TIMEOUT", "30s")
		t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "1m")
		t.Setenv("SERVER_IDLE_TIMEOUT", "not-a-duration")

		cfg := LoadServerConfigFromEnv()
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
		assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
		assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
		assert.Equal(t, "0.0.0.0:9090", cfg.GetAddress())
	})
}

func TestServerConfig_GetAddress(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{"", ":8080", ":8080"},
		{"", "8080", "8080"},
		{"localhost", ":8080", "localhost:8080"},
		{"127.0.0.1", "9090", "127.0.0.1:9090"},
		{"::1", ":8080", "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.host+tt.port, func(t *testing.T) {
			assert.Equal(t, tt.want, ServerConfig{Host: tt.host, Port: tt.port}.GetAddress())
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	valid := ServerConfig{
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid", func(*ServerConfig) {}, ""},
		{"zero shutdown timeout", func(c *ServerConfig) { c.ShutdownTimeout = 0 }, ""},
		{"read timeout", func(c *ServerConfig) { c.ReadTimeout = 0 }, "ReadTimeout"},
		{"write timeout", func(c *ServerConfig) { c.WriteTimeout = -time.Second }, "WriteTimeout"},
		{"idle timeout", func(c *ServerConfig) { c.IdleTimeout = 0 }, "IdleTimeout"},
		{"negative shutdown timeout", func(c *ServerConfig) { c.ShutdownTimeout = -time.Second }, "ShutdownTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
