// Package retry runs an operation with exponential backoff until it
// succeeds, fails permanently or runs out of attempts.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds retry strategy configuration.
type Config struct {
	// MaxAttempts counts the first call too.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration
	// Multiplier grows the wait after each failure.
	Multiplier float64
	// RetryableErrors are case-insensitive substrings of retryable error
	// messages. Empty means every error is retried.
	RetryableErrors []string
	// OnRetry, when set, is called before each wait.
	OnRetry func(err error, attempt int, wait time.Duration)
}

// DefaultConfig returns default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// PostgresConfig retries only the errors a starting or unreachable
// PostgreSQL server produces.
func PostgresConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryableErrors = DefaultPostgresRetryableErrors()
	return cfg
}

// DefaultPostgresRetryableErrors returns default retryable error patterns for PostgreSQL.
func DefaultPostgresRetryableErrors() []string {
	return []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"i/o timeout",
		"server closed the connection",
		"too many connections",
		"the database system is starting up",
		"no connection could be made",
		"network is unreachable",
		"dial tcp",
	}
}

// ErrInvalidConfig is returned when MaxAttempts is not positive.
var ErrInvalidConfig = errors.New("retry: MaxAttempts must be greater than 0")

// Do runs fn until it succeeds. See DoWithResult.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult runs fn until it succeeds, returns a non-retryable error or
// MaxAttempts is reached; the last error is returned. A done ctx stops the
// loop with ctx.Err().
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, ErrInvalidConfig
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && !IsRetryableError(err, cfg) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	var notify backoff.Notify
	if cfg.OnRetry != nil {
		notify = func(err error, wait time.Duration) {
			cfg.OnRetry(err, attempt, wait)
		}
	}

	v, err := backoff.RetryNotifyWithData(op, newBackOff(ctx, cfg), notify)
	if err != nil {
		return zero, err
	}
	return v, nil
}

func newBackOff(ctx context.Context, cfg Config) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialDelay
	exp.MaxInterval = cfg.MaxDelay
	exp.Multiplier = cfg.Multiplier
	exp.RandomizationFactor = 0.1
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1)), ctx)
}

// IsRetryableError reports whether err matches cfg.RetryableErrors.
func IsRetryableError(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if len(cfg.RetryableErrors) == 0 {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range cfg.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
