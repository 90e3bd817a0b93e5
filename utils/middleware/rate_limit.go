package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"labexams/utils/cache"
	"labexams/utils/response"
)

const (
	// requests allowed per client IP within one window
	throttleLimit  = 300
	throttleWindow = time.Minute
)

// RequestThrottle applies a per-IP request limit backed by Redis. A Redis
// outage fails open: legitimate traffic is never blocked by a cache issue.
type RequestThrottle struct {
	redisCache *cache.RedisCache
}

// NewRequestThrottle creates a new request throttle
func NewRequestThrottle(redisCache *cache.RedisCache) *RequestThrottle {
	return &RequestThrottle{
		redisCache: redisCache,
	}
}

// Limit is the middleware handler
func (t *RequestThrottle) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		key := fmt.Sprintf("throttle:%s", c.IP())

		count, err := t.redisCache.Increment(ctx, key)
		if err != nil {
			return c.Next()
		}

		if count == 1 {
			t.redisCache.Expire(ctx, key, throttleWindow)
		}

		if count > throttleLimit {
			ttl, _ := t.redisCache.TTL(ctx, key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = int(throttleWindow.Seconds())
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("rate limit exceeded, try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}
