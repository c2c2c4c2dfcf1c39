package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/catalog-admin/pkg/logger"
)

// CacheConfig holds response cache settings
type CacheConfig struct {
	TTL time.Duration
}

// DefaultCacheConfig returns the default response cache settings
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 5 * time.Minute}
}

// CacheMiddleware caches catalog read responses in Redis. Only GET and HEAD
// are cached, and the key includes the Authorization header so responses
// shaped by the caller's permissions never leak across users.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return c.Next()
		}

		key := cacheKey(c)
		ctx := context.Background()

		if cached, err := redisClient.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		err := c.Next()

		if cacheableStatus(c.Response().StatusCode()) {
			body := c.Response().Body()
			if setErr := redisClient.Set(ctx, key, body, config.TTL).Err(); setErr != nil {
				logger.Logger.Warn().
					Err(setErr).
					Str("path", c.Path()).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// cacheKey hashes method, path, query and the caller's credentials
func cacheKey(c *fiber.Ctx) string {
	raw := fmt.Sprintf("%s:%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)
	sum := sha256.Sum256([]byte(raw))
	return "cache:" + hex.EncodeToString(sum[:])
}

// cacheableStatus reports whether the response status is worth keeping.
// Successful reads and stable 404s dominate the catalog's read traffic.
func cacheableStatus(status int) bool {
	switch status {
	case fiber.StatusOK, fiber.StatusNoContent, fiber.StatusNotFound:
		return true
	}
	return false
}
