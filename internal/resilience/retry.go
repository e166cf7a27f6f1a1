// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"math/rand"
	"time"
)

// BackoffMode selects how the delay grows between attempts.
type BackoffMode int

const (
	// BackoffLinear waits Interval * attempt before each retry. The
	// recognition service throttles on burst rate, so a steadily growing
	// wait outperforms an exponential one there.
	BackoffLinear BackoffMode = iota
	// BackoffExponential waits Interval * Multiplier^(attempt-1).
	BackoffExponential
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries  int
	Interval    time.Duration
	MaxInterval time.Duration
	Mode        BackoffMode
	Multiplier  float64 // exponential mode only
	Jitter      bool    // add up to 25% random noise to spread retries
	OnRetry     func(attempt int, err error)
}

// DefaultRetryConfig returns the defaults used for recognition calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		Interval:    2 * time.Second,
		MaxInterval: 30 * time.Second,
		Mode:        BackoffLinear,
	}
}

// RetryableOperation represents an operation that can be retried.
type RetryableOperation func(ctx context.Context) error

// RetryWithBackoff executes an operation, retrying on retryable failures up
// to MaxRetries times. Classification decides retryability: auth and quota
// failures abort immediately. Context cancellation also aborts, returning
// the context's error.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation RetryableOperation) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(config, attempt)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			if config.OnRetry != nil {
				config.OnRetry(attempt, lastErr)
			}
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if !ClassifyError(err).IsRetryable() {
			return err
		}
	}

	return lastErr
}

func backoffDelay(config RetryConfig, attempt int) time.Duration {
	var delay float64
	switch config.Mode {
	case BackoffExponential:
		delay = float64(config.Interval)
		for i := 1; i < attempt; i++ {
			delay *= config.Multiplier
		}
	default:
		delay = float64(config.Interval) * float64(attempt)
	}
	if config.Jitter {
		delay += delay * 0.25 * rand.Float64()
	}
	if max := float64(config.MaxInterval); max > 0 && delay > max {
		delay = max
	}
	return time.Duration(delay)
}

// RetryableFunc is a retryable function that returns a value.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// RetryWithResult executes a value-returning function with retry logic.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn RetryableFunc[T]) (T, error) {
	var result T
	err := RetryWithBackoff(ctx, config, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
