// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

var fastPolicy = types.RetryPolicy{Attempts: 3, Delay: time.Millisecond}

func TestRetry_ImmediateSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy, func(int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_FailsThenSucceeds(t *testing.T) {
	var seen []int
	err := Retry(context.Background(), fastPolicy, func(attempt int) error {
		seen = append(seen, attempt)
		if attempt < 3 {
			return fmt.Errorf("transient %d", attempt)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	err := Retry(context.Background(), fastPolicy, func(int) error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), types.RetryPolicy{}, func(int) error {
		calls++
		return errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_FixedDelay(t *testing.T) {
	policy := types.RetryPolicy{Attempts: 3, Delay: 20 * time.Millisecond}
	var stamps []time.Time
	_ = Retry(context.Background(), policy, func(int) error {
		stamps = append(stamps, time.Now())
		return errors.New("fail")
	})
	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), policy.Delay)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	policy := types.RetryPolicy{Attempts: 3, Delay: 500 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Retry(ctx, policy, func(int) error {
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
