package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicecloud-io/go-devicecloud/internal/ratelimit"
)

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewRateLimiter(600)
	require.NotNil(t, limiter)

	// 600 req/min replenishes at 10 tokens per second.
	assert.InDelta(t, 10.0, float64(limiter.Limit()), 0.001)
	assert.Equal(t, 600, limiter.Burst())
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewRateLimiter(60)

	// The full burst budget should be available immediately.
	for i := 0; i < 60; i++ {
		assert.True(t, limiter.Allow(), "request %d within burst should be allowed", i)
	}
	assert.False(t, limiter.Allow(), "request beyond burst should be throttled")
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewRateLimiter(60)

	// Drain the burst.
	for limiter.Allow() {
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
}
