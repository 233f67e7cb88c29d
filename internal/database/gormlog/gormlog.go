// Package gormlog routes gorm's SQL logging through zap.
package gormlog

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type writer struct {
	log *zap.SugaredLogger
}

// Printf implements logger.Writer.
func (w writer) Printf(format string, args ...interface{}) {
	w.log.Debugf(strings.TrimSpace(format), args...)
}

// ParseLevel maps a DB_LOG_LEVEL value to a gorm log level; unknown values mean warn.
func ParseLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// New creates a gorm logger writing to log. Record-not-found errors are not
// logged since repositories treat them as empty results.
func New(log *zap.SugaredLogger, level string, slowThreshold time.Duration) logger.Interface {
	return logger.New(writer{log: log.Named("gorm")}, logger.Config{
		SlowThreshold:             slowThreshold,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		LogLevel:                  ParseLevel(level),
	})
}
