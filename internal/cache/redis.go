package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oggyb/penzi-exercise/internal/config"
	"github.com/redis/go-redis/v9"
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

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

// KeyForPhoneLock generates the Redis key serializing one phone number's
// inbound messages.
func (c *RedisCache) KeyForPhoneLock(phoneNumber string) string {
	return fmt.Sprintf("sms:lock:%s", phoneNumber)
}

// AcquirePhoneLock takes a short-lived mutex for a phone number so that
// two messages from the same SIM cannot race the same pagination cursor.
// The token identifies the acquiring message; only the holder of that
// token may release the lock. Returns false when another message
// currently holds it.
func (c *RedisCache) AcquirePhoneLock(ctx context.Context, phoneNumber, token string, ttl time.Duration) (bool, error) {
	return c.Client.SetNX(ctx, c.KeyForPhoneLock(phoneNumber), token, ttl).Result()
}

// ReleasePhoneLock drops the per-phone mutex, but only when it still
// holds the caller's token: a lock that expired and was re-acquired by
// a later message belongs to that message and is left alone. Safe to
// call when the lock already expired.
func (c *RedisCache) ReleasePhoneLock(ctx context.Context, phoneNumber, token string) error {
	key := c.KeyForPhoneLock(phoneNumber)
	held, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if held != token {
		return nil
	}
	return c.Client.Del(ctx, key).Err()
}

// KeyForProfileViews generates the Redis key for a user's profile view count.
func (c *RedisCache) KeyForProfileViews(userID uint64) string {
	return fmt.Sprintf("profile:views:%d", userID)
}

// IncrProfileViews bumps the view counter for a looked-up profile.
// Best effort; callers ignore failures.
func (c *RedisCache) IncrProfileViews(ctx context.Context, userID uint64) (int64, error) {
	return c.Incr(ctx, c.KeyForProfileViews(userID))
}
