// Package config provides database configuration management.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appConfig "github.com/festy23/memberquery/internal/config"
	"github.com/festy23/memberquery/pkg/retry"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	// Driver selects the gorm dialector (postgres, sqlite).
	Driver   string
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
	// SQLitePath is the database file used by the sqlite driver; ":memory:" is allowed.
	SQLitePath string
	// LogLevel is the gorm SQL log level (silent, error, warn, info).
	LogLevel string
	// SlowThreshold marks queries logged as slow.
	SlowThreshold time.Duration
}

// GetEnv reads an environment variable with a default fallback.
func GetEnv(key, defaultValue string) string {
	return appConfig.GetEnv(key, defaultValue)
}

// BuildDSN constructs PostgreSQL DSN string from configuration.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// BuildSQLiteDSN returns the sqlite DSN with foreign keys enforced.
func BuildSQLiteDSN(cfg Config) string {
	if strings.Contains(cfg.SQLitePath, "?") {
		return cfg.SQLitePath + "&_foreign_keys=on"
	}
	return cfg.SQLitePath + "?_foreign_keys=on"
}

// LoadConfigFromEnv loads database configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:        GetEnv("DB_DRIVER", DriverPostgres),
		Host:          GetEnv("DB_HOST", "localhost"),
		User:          GetEnv("DB_USER", "postgres"),
		Password:      GetEnv("DB_PASSWORD", "postgres"),
		DBName:        GetEnv("DB_NAME", "memberquery"),
		Port:          GetEnv("DB_PORT", "5432"),
		SSLMode:       GetEnv("DB_SSLMODE", "disable"),
		TimeZone:      GetEnv("DB_TIMEZONE", "UTC"),
		SQLitePath:    GetEnv("DB_SQLITE_PATH", "memberquery.db"),
		LogLevel:      GetEnv("DB_LOG_LEVEL", "warn"),
		SlowThreshold: appConfig.GetEnvDuration("DB_SLOW_THRESHOLD", 200*time.Millisecond),
	}
}

// Validate validates database configuration.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (must be: postgres, sqlite)", c.Driver)
	}

	validLevels := map[string]bool{
		"silent": true,
		"error":  true,
		"warn":   true,
		"info":   true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid DB_LOG_LEVEL: %s (must be: silent, error, warn, info)", c.LogLevel)
	}
	return nil
}

// SanitizeError removes sensitive information (password) from error messages.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	errMsg := err.Error()
	if cfg.Password != "" {
		errMsg = strings.ReplaceAll(errMsg, cfg.Password, "***")
	}
	safeDSN := fmt.Sprintf("host=%s user=%s password=*** dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
	errMsg = strings.ReplaceAll(errMsg, BuildDSN(cfg), safeDSN)
	return fmt.Errorf("failed to connect to database: %s", errMsg)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(GetEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// LoadRetryConfigFromEnv loads retry configuration from environment variables.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.PostgresConfig()
	cfg.MaxAttempts = appConfig.GetEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.InitialDelay = appConfig.GetEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.InitialDelay)
	cfg.MaxDelay = appConfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	cfg.Multiplier = getEnvFloat("DB_RETRY_MULTIPLIER", cfg.Multiplier)
	return cfg
}
