package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})
	assert.Equal(t, DefaultRateLimit.BurstSize, r.limiter.Burst())
	assert.InDelta(t, DefaultRateLimit.RequestsPerSecond, float64(r.limiter.Limit()), 0.001)
}

func TestRateLimiter_Burst(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	assert.True(t, r.Allow())
	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_Backoff(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.RecordRateLimitError(time.Hour)

	assert.False(t, r.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := r.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_BackoffExpires(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.RecordRateLimitError(5 * time.Millisecond)

	require.NoError(t, r.Wait(context.Background()))
	assert.True(t, r.Allow())
}
