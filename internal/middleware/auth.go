package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/config"
	"github.com/example/sampoornam/internal/models"
	"github.com/example/sampoornam/internal/utils"
)

const principalContextKey = "currentPrincipal"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID     uuid.UUID
	IsAdmin    bool
	IsVerified bool
}

// AuthMiddleware validates JWT tokens and loads the authenticated principal
// into context. Admin and verified flags come from the user row so that a
// demotion or a fresh verification takes effect on the next request.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, _, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found")
			}
			return err
		}

		c.Locals(principalContextKey, Principal{
			UserID:     user.ID,
			IsAdmin:    user.IsAdmin,
			IsVerified: user.IsVerified,
		})
		return c.Next()
	}
}

// RequireVerified rejects requests from unverified accounts.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !principal.IsVerified {
			return fiber.NewError(fiber.StatusForbidden, "account not verified")
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests from non-admin accounts.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !principal.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin privileges required")
		}
		return c.Next()
	}
}

// GetPrincipal extracts the authenticated principal from context.
func GetPrincipal(c *fiber.Ctx) (Principal, bool) {
	value := c.Locals(principalContextKey)
	if value == nil {
		return Principal{}, false
	}

	if principal, ok := value.(Principal); ok {
		return principal, true
	}

	return Principal{}, false
}
