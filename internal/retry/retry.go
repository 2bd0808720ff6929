// Package retry provides exponential backoff for operations that may fail
// transiently, such as establishing database connections at startup.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/product-scanner/internal/logging"
)

// Config configures retry behavior
type Config struct {
	MaxAttempts  int           // Maximum number of attempts
	InitialDelay time.Duration // Delay before the second attempt
	MaxDelay     time.Duration // Cap on the delay between attempts
	Multiplier   float64       // Backoff multiplier
}

// DefaultConfig returns the default backoff schedule: 1s, 2s, 4s, 8s, max 30s
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context is
// cancelled. The name labels the operation in logs.
func Do(ctx context.Context, cfg *Config, logger *logging.Logger, name string, fn func(ctx context.Context) error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.WithFields(map[string]interface{}{
					"operation": name,
					"attempts":  attempt,
				}).Info("Operation succeeded after retry")
			}
			return nil
		}

		if attempt == cfg.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}

		delay := backoffDelay(cfg, attempt)
		logger.WithError(lastErr).WithFields(map[string]interface{}{
			"operation": name,
			"attempt":   attempt,
			"delay":     delay.String(),
		}).Warn("Operation failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, cfg.MaxAttempts, lastErr)
}

func backoffDelay(cfg *Config, attempt int) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
