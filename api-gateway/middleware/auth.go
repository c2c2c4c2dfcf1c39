package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/catalog-admin/pkg/auth"
)

// AuthMiddleware requires a valid bearer token and forwards the caller's
// identity to the catalog service
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		forwardIdentity(c, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware forwards the caller's identity when a valid token is
// present but lets anonymous requests through
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.ValidateToken(token); err == nil {
				forwardIdentity(c, claims)
			}
		}
		return c.Next()
	}
}

// AdminMiddleware rejects callers without the admin role. It runs after
// AuthMiddleware, which stores the role.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// bearerToken extracts the token from the Authorization header, empty when
// the header is missing or malformed
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// forwardIdentity records the claims locally and on the proxied request so
// the catalog service's permission gate sees who is calling
func forwardIdentity(c *fiber.Ctx, claims *auth.Claims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("role", claims.Role)

	c.Request().Header.Set("X-User-ID", fmt.Sprintf("%d", claims.UserID))
	c.Request().Header.Set("X-Username", claims.Username)
	c.Request().Header.Set("X-User-Role", claims.Role)
}
