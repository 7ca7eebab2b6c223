package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	MaxRetries: 3,
	BaseDelay:  10 * time.Millisecond,
	MaxDelay:   100 * time.Millisecond,
	Timeout:    1 * time.Second,
}

func TestWithRetryFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), testConfig, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), testConfig, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("temporary failure")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	config := testConfig
	config.MaxRetries = 2

	calls := 0
	_, err := WithRetry(context.Background(), config, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("persistent failure")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls, "initial attempt plus MaxRetries")
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := WithRetry(ctx, testConfig, func(ctx context.Context) (string, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return "", errors.New("failure")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, calls, 3)
}

func TestBackoffDelayNeverExceedsMax(t *testing.T) {
	for attempt := 0; attempt < 40; attempt++ {
		delay := backoffDelay(attempt, 10*time.Millisecond, 50*time.Millisecond)
		assert.LessOrEqual(t, delay, 50*time.Millisecond)
	}
}
