package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/comerciolibre/backend/pkg/logger"
)

// CacheConfig tunes the redis response cache.
type CacheConfig struct {
	TTL             time.Duration
	CacheableStatus map[int]bool
}

// DefaultCacheConfig caches successful and stable-negative responses for
// five minutes. Only safe methods are ever considered.
func DefaultCacheConfig() CacheConfig {
	cacheable := map[int]bool{}
	for _, s := range []int{200, 203, 204, 206, 300, 301, 404, 405, 410, 414, 501} {
		cacheable[s] = true
	}
	return CacheConfig{TTL: 5 * time.Minute, CacheableStatus: cacheable}
}

// CacheMiddleware serves GET and HEAD responses from redis when a fresh copy
// exists, and stores cacheable responses on the way out. X-Cache reports
// HIT or MISS. A nil client disables the cache entirely.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil || (c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead) {
			return c.Next()
		}

		ctx := c.UserContext()
		key := cacheKey(c)

		if body, err := redisClient.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(body)
		}

		err := c.Next()

		if config.CacheableStatus[c.Response().StatusCode()] {
			body := c.Response().Body()
			if setErr := redisClient.Set(ctx, key, body, config.TTL).Err(); setErr != nil {
				logger.Warn(ctx).Err(setErr).Str("path", c.Path()).Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}
		return err
	}
}

// cacheKey hashes method, path, query, and the Authorization header. Keying
// on the bearer token keeps authenticated responses private to their user.
func cacheKey(c *fiber.Ctx) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%s",
		c.Method(), c.Path(), c.Request().URI().QueryString(), c.Get("Authorization")))
	return "gw:cache:" + hex.EncodeToString(sum[:])
}

// InvalidateCache drops every cached entry matching the redis key pattern.
func InvalidateCache(ctx context.Context, redisClient *redis.Client, pattern string) error {
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	logger.Info(ctx).Int("count", len(keys)).Str("pattern", pattern).Msg("Cache invalidated")
	return nil
}

// CacheInvalidationMiddleware flushes the response cache after a successful
// write proxied through the gateway. Cache keys are opaque hashes, so the
// whole namespace goes at once rather than tracking per-path entries.
func CacheInvalidationMiddleware(redisClient *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if redisClient == nil || c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			return err
		}
		if status := c.Response().StatusCode(); status >= 200 && status < 300 {
			if invErr := InvalidateCache(c.UserContext(), redisClient, "gw:cache:*"); invErr != nil {
				logger.Warn(c.UserContext()).Err(invErr).Msg("Cache invalidation failed")
			}
		}
		return err
	}
}
