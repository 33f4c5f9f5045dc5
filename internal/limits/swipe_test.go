package limits_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberly-app/emberly-backend/internal/apperr"
	"github.com/emberly-app/emberly-backend/internal/cache"
	"github.com/emberly-app/emberly-backend/internal/config"
	"github.com/emberly-app/emberly-backend/internal/limits"
)

func setupLimiter(t *testing.T, limit int64) (*limits.SwipeLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	return limits.NewSwipeLimiter(cache.NewRedisCache(cfg), limit), mr
}

func TestAllow_UnderLimit(t *testing.T) {
	ctx := context.Background()
	limiter, _ := setupLimiter(t, 3)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, 1))
	}
}

func TestAllow_OverLimit(t *testing.T) {
	ctx := context.Background()
	limiter, _ := setupLimiter(t, 2)

	require.NoError(t, limiter.Allow(ctx, 1))
	require.NoError(t, limiter.Allow(ctx, 1))

	err := limiter.Allow(ctx, 1)
	require.Error(t, err)

	var limitErr *apperr.LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, int64(2), limitErr.Limit)
	assert.Greater(t, limitErr.RetryAfter.Seconds(), 0.0)
}

func TestAllow_PerUserCounters(t *testing.T) {
	ctx := context.Background()
	limiter, _ := setupLimiter(t, 1)

	require.NoError(t, limiter.Allow(ctx, 1))
	// another user has their own counter
	require.NoError(t, limiter.Allow(ctx, 2))

	var limitErr *apperr.LimitExceededError
	require.True(t, errors.As(limiter.Allow(ctx, 1), &limitErr))
}

func TestAllow_RedisDown(t *testing.T) {
	ctx := context.Background()
	limiter, mr := setupLimiter(t, 5)

	mr.Close()

	err := limiter.Allow(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStoreUnavailable))
}
