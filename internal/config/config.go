// Package config loads application settings from the environment.
package config

import "fmt"

// Config holds application configuration.
type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	SampleData SampleDataConfig
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:     LoadServerConfigFromEnv(),
		Logger:     LoadLoggerConfigFromEnv(),
		SampleData: LoadSampleDataConfigFromEnv(),
		GinMode:    GetEnv("GIN_MODE", "release"),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}
	if err := c.SampleData.Validate(); err != nil {
		return fmt.Errorf("sample data config validation failed: %w", err)
	}
	if !oneOf(c.GinMode, "debug", "release", "test") {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
