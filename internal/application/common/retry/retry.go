// Package retry runs operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/slogger"
)

// Config defines retry behavior.
type Config struct {
	MaxRetries    int           `json:"max_retries"`
	InitialDelay  time.Duration `json:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor"`
	Jitter        bool          `json:"jitter"`
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// Operation is a unit of work that may be retried.
type Operation func(ctx context.Context) error

// Checker classifies errors. A nil Checker retries every error.
type Checker func(err error) bool

// Executor retries operations according to its Config.
type Executor struct {
	config    Config
	retryable Checker
}

// NewExecutor creates an executor. Errors rejected by retryable are
// returned immediately.
func NewExecutor(config Config, retryable Checker) *Executor {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = 1
	}
	if retryable == nil {
		retryable = func(error) bool { return true }
	}
	return &Executor{config: config, retryable: retryable}
}

// Execute runs operation until it succeeds, fails with a non-retryable
// error, exhausts MaxRetries or ctx is done.
func (e *Executor) Execute(ctx context.Context, operation Operation) error {
	var lastErr error

	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := e.delay(attempt)
			slogger.Debug(ctx, "Retrying operation after delay", slogger.Fields{
				"attempt":     attempt,
				"max_retries": e.config.MaxRetries,
				"delay_ms":    delay.Milliseconds(),
			})

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(ctx.Err(), lastErr)
			case <-timer.C:
			}
		}

		err := operation(ctx)
		if err == nil {
			if attempt > 0 {
				slogger.Info(ctx, "Operation succeeded after retries", slogger.Fields{"attempt": attempt + 1})
			}
			return nil
		}
		lastErr = err

		if !e.retryable(err) {
			return err
		}

		slogger.Warn(ctx, "Operation failed, will retry", slogger.Fields{
			"error":       err.Error(),
			"attempt":     attempt + 1,
			"max_retries": e.config.MaxRetries,
		})
	}

	return fmt.Errorf("operation failed after %d retries: %w", e.config.MaxRetries, lastErr)
}

// delay returns the backoff before the given attempt, capped at MaxDelay.
func (e *Executor) delay(attempt int) time.Duration {
	d := float64(e.config.InitialDelay) * math.Pow(e.config.BackoffFactor, float64(attempt-1))
	if maxDelay := float64(e.config.MaxDelay); maxDelay > 0 && d > maxDelay {
		d = maxDelay
	}

	if e.config.Jitter {
		// Up to 25% either way.
		d += (rand.Float64()*2 - 1) * d * 0.25
	}

	return time.Duration(d)
}
