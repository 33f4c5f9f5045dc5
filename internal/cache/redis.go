package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emberly-app/emberly-backend/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) ExpireAt(ctx context.Context, key string, at time.Time) error {
	return c.Client.ExpireAt(ctx, key, at).Err()
}

// KeyForLikesYouCount generates the Redis key caching how many pending
// likers a user has (the Basic-tier count-only view).
func (c *RedisCache) KeyForLikesYouCount(userID uint64) string {
	return fmt.Sprintf("likesyou:count:%d", userID)
}

// GetLikesYouCount returns the cached liker count, with ok=false on miss.
func (c *RedisCache) GetLikesYouCount(ctx context.Context, userID uint64) (int64, bool, error) {
	val, err := c.Get(ctx, c.KeyForLikesYouCount(userID))
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	return n, true, nil
}

// SetLikesYouCount caches a liker count for an hour.
func (c *RedisCache) SetLikesYouCount(ctx context.Context, userID uint64, count int64) error {
	return c.Set(ctx, c.KeyForLikesYouCount(userID), count, time.Hour)
}

// InvalidateLikesYouCount drops cached counts after the underlying like or
// match state changes for the given users.
func (c *RedisCache) InvalidateLikesYouCount(ctx context.Context, userIDs ...uint64) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForLikesYouCount(id))
	}
	return c.Del(ctx, keys...)
}
