package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/comerciolibre/backend/pkg/auth"
)

// AuthMiddleware validates JWT tokens at the edge
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"codigo":  "UNAUTHENTICATED",
				"mensaje": "Se requiere el encabezado Authorization",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"codigo":  "UNAUTHENTICATED",
				"mensaje": "Formato de autorización no válido",
			})
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"codigo":  "UNAUTHENTICATED",
				"mensaje": "Token no válido",
			})
		}

		// Store user info in context
		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username())
		c.Locals("scope", claims.Scope)

		// Forward identity to backend services
		c.Request().Header.Set("X-User-Id", fmt.Sprintf("%d", claims.UserID))
		c.Request().Header.Set("X-Username", claims.Username())
		c.Request().Header.Set("X-User-Scope", claims.Scope)

		return c.Next()
	}
}

// AdminMiddleware checks for the ROLE_ADMIN authority
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, _ := c.Locals("scope").(string)
		for _, role := range strings.Fields(scope) {
			if role == auth.RoleAdmin {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"codigo":  "FORBIDDEN",
			"mensaje": "Se requiere rol de administrador",
		})
	}
}

// OptionalAuthMiddleware validates a token if present but doesn't require one
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ValidateToken(parts[1]); err == nil {
				c.Locals("user_id", claims.UserID)
				c.Locals("username", claims.Username())
				c.Locals("scope", claims.Scope)

				c.Request().Header.Set("X-User-Id", fmt.Sprintf("%d", claims.UserID))
				c.Request().Header.Set("X-Username", claims.Username())
				c.Request().Header.Set("X-User-Scope", claims.Scope)
			}
		}

		return c.Next()
	}
}
