// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry helper shared by every page-load and
// oracle call site.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// ErrAttemptsExhausted wraps the last error once every attempt has failed.
var ErrAttemptsExhausted = errors.New("attempts exhausted")

// Retry calls fn until it succeeds or policy.Attempts calls have failed,
// sleeping policy.Delay between attempts. There is no backoff and no jitter.
//
// fn receives the 1-based attempt number. When Attempts is 0 a single attempt
// is made. If the context is cancelled during a wait Retry returns ctx.Err().
// After the last failure the returned error wraps both ErrAttemptsExhausted
// and the final error from fn.
func Retry(ctx context.Context, policy types.RetryPolicy, fn func(attempt int) error) error {
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && policy.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(policy.Delay):
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w: %w", attempts, ErrAttemptsExhausted, lastErr)
}
