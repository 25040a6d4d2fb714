package middleware

import (
	"errors"
	"strings"

	"keytrack/internal/config"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/jwt"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
)

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies("access_token")
}

// AuthMiddleware requires a valid access token when AUTH_REQUIRED is on.
// With auth disabled every request passes untouched.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.Auth.Required {
			return c.Next()
		}

		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware.
// It is a no-op when AUTH_REQUIRED is off.
func RoleMiddleware(cfg *config.Config, allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.Auth.Required {
			return c.Next()
		}

		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly(cfg *config.Config) fiber.Handler {
	return RoleMiddleware(cfg, domain.RoleAdmin)
}
