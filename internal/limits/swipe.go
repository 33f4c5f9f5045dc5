// Package limits enforces the daily swipe quota on Redis counters.
package limits

import (
	"context"
	"fmt"
	"time"

	"github.com/emberly-app/emberly-backend/internal/apperr"
	"github.com/emberly-app/emberly-backend/internal/cache"
)

// SwipeLimiter counts like actions per user per UTC day.
//
// The check runs BEFORE the like is written: a request rejected here leaves
// no Like row behind. The counter key carries the day, so stale counters
// simply expire.
type SwipeLimiter struct {
	cache *cache.RedisCache
	limit int64

	// now is swappable in tests.
	now func() time.Time
}

// NewSwipeLimiter creates a limiter allowing `limit` swipes per user per day.
func NewSwipeLimiter(c *cache.RedisCache, limit int64) *SwipeLimiter {
	return &SwipeLimiter{
		cache: c,
		limit: limit,
		now:   time.Now,
	}
}

// Allow consumes one swipe for userID. Over quota it returns
// *apperr.LimitExceededError with the time until the UTC day rolls over.
// A Redis failure is reported as apperr.ErrStoreUnavailable rather than
// silently letting the action through.
func (l *SwipeLimiter) Allow(ctx context.Context, userID uint64) error {
	now := l.now().UTC()
	key := fmt.Sprintf("swipes:%d:%s", userID, now.Format("2006-01-02"))

	n, err := l.cache.Incr(ctx, key)
	if err != nil {
		return fmt.Errorf("swipe counter: %w", apperr.ErrStoreUnavailable)
	}

	midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	if n == 1 {
		// key is day-scoped, so losing the expiry only leaks one counter
		_ = l.cache.ExpireAt(ctx, key, midnight)
	}

	if n > l.limit {
		return &apperr.LimitExceededError{
			Limit:      l.limit,
			RetryAfter: midnight.Sub(now),
		}
	}
	return nil
}
