package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/comerciolibre/backend/pkg/logger"
)

// RateLimiter enforces a sliding window over redis: each request lands as a
// timestamped member in a sorted set, entries older than the window are
// pruned, and the remaining cardinality is the request count. Authenticated
// callers are keyed per user id, anonymous ones per IP.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: redisClient, limit: limit, window: window}
}

// GlobalRateLimiter limits every caller to 100 requests per minute.
func GlobalRateLimiter(redisClient *redis.Client) fiber.Handler {
	return NewRateLimiter(redisClient, 100, time.Minute).Middleware()
}

// UserRateLimiter is the stricter per-user limit for authenticated routes.
func UserRateLimiter(redisClient *redis.Client) fiber.Handler {
	return NewRateLimiter(redisClient, 60, time.Minute).Middleware()
}

// Middleware returns the fiber handler. Redis trouble fails open: the
// request proceeds and the error is logged.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := c.IP()
		if userID := c.Locals("user_id"); userID != nil {
			caller = fmt.Sprintf("user:%v", userID)
		}

		used, err := rl.count(c.UserContext(), caller)
		if err != nil {
			logger.Warn(c.UserContext()).Err(err).Str("caller", caller).Msg("Rate limiter unavailable")
			return c.Next()
		}

		remaining := rl.limit - used
		if remaining < 0 {
			remaining = 0
		}
		reset := time.Now().Add(rl.window)

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if used > rl.limit {
			retryIn := time.Until(reset).Round(time.Second)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"codigo":      "RATE_LIMITED",
				"mensaje":     fmt.Sprintf("Demasiadas solicitudes. Intente de nuevo en %v", retryIn),
				"retry_after": retryIn.Seconds(),
			})
		}
		return c.Next()
	}
}

// count records this request and returns how many landed in the window,
// including it. One pipeline round trip: prune, add, count, refresh TTL.
func (rl *RateLimiter) count(ctx context.Context, caller string) (int, error) {
	key := "gw:ratelimit:" + caller
	now := time.Now().UnixNano()
	cutoff := strconv.FormatInt(now-rl.window.Nanoseconds(), 10)

	pipe := rl.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}
