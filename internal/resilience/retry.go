// Package resilience wraps capability calls with bounded retries.
package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
)

const (
	DefaultBaseDelay    = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
	DefaultJitterFactor = 0.2
)

// RetryConfig holds retry settings. MaxRetries 0 means a single attempt.
type RetryConfig struct {
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
	IsRetryable  func(error) bool
	Logger       logger.Logger
}

// transient is implemented by client errors that know whether a repeat
// request could succeed (rate limits, 5xx).
type transient interface {
	Transient() bool
}

// IsTransient reports whether err is worth retrying. Errors that do not
// classify themselves are not retried, except per-call deadlines.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	return false
}

// Retry executes fn with exponential backoff. Returns the last error if all
// attempts fail. fn receives the attempt number starting at 1.
func Retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	cfg = cfg.withDefaults()
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(attempt + 1); lastErr == nil {
			return nil
		}

		if !cfg.IsRetryable(lastErr) || attempt == cfg.MaxRetries {
			return lastErr
		}

		delay := backoffDelay(cfg, attempt)
		if cfg.Logger != nil {
			cfg.Logger.Warn(ctx, "Retrying after error (attempt %d/%d, delay %s): %v",
				attempt+1, cfg.MaxRetries+1, delay, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// backoffDelay calculates exponential backoff with jitter.
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	delay := cfg.BaseDelay << min(attempt, 6) // cap shift to prevent overflow
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	jitter := float64(delay) * cfg.JitterFactor * (rand.Float64() - 0.5)
	return time.Duration(float64(delay) + jitter)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.JitterFactor <= 0 {
		c.JitterFactor = DefaultJitterFactor
	}
	if c.IsRetryable == nil {
		c.IsRetryable = IsTransient
	}
	return c
}
