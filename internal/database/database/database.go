// Package database opens gorm connections for the configured driver.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/memberquery/internal/database/config"
	"github.com/festy23/memberquery/internal/database/gormlog"
	"github.com/festy23/memberquery/internal/database/pool"
	"github.com/festy23/memberquery/pkg/retry"
)

// New creates a new database connection using environment variables.
func New(log *zap.SugaredLogger) (*gorm.DB, error) {
	cfg := config.LoadConfigFromEnv()
	return NewWithConfig(cfg, log)
}

// NewWithConfig opens a connection for cfg.Driver. Postgres connections are
// retried with backoff; sqlite opens immediately.
func NewWithConfig(cfg config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	gormCfg := &gorm.Config{
		Logger: gormlog.New(log, cfg.LogLevel, cfg.SlowThreshold),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(config.BuildSQLiteDSN(cfg)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		retryCfg := config.LoadRetryConfigFromEnv()
		retryCfg.OnRetry = func(err error, attempt int, wait time.Duration) {
			log.Warnw("database not ready, retrying",
				"attempt", attempt,
				"wait", wait,
				"error", config.SanitizeError(err, cfg),
			)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		dsn := config.BuildDSN(cfg)
		db, err = retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormCfg)
		})
		if err != nil {
			return nil, config.SanitizeError(err, cfg)
		}
	}

	if err := pool.SetupConnectionPool(db, pool.ForDriver(cfg.Driver)); err != nil {
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	log.Infow("database connected", "driver", cfg.Driver)
	return db, nil
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}
