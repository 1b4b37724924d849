package httpapi

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// userIDKey is the fiber locals key the middleware stores the
// verified user id under.
const userIDKey = "user_id"

// Identity resolves a bearer credential to an existing user.
type Identity interface {
	Identify(ctx context.Context, credential string) (string, error)
}

// AuthMiddleware resolves the bearer credential to a user id before
// any handler runs. Requests without a valid identity never reach the
// store.
func AuthMiddleware(identity Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c, "Authorization header is required")
		}
		if !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			return unauthorized(c, "Token is required")
		}

		userID, err := identity.Identify(c.UserContext(), token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
