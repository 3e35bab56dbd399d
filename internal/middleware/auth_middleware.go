package middleware

import (
	"errors"
	"strings"

	"akun/internal/apperr"
	"akun/internal/models"
	"akun/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// AuthRequired is a Fiber middleware that resolves the bearer token into the
// request session.
func AuthRequired(authService *services.AuthService, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		sess, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				logger.WithError(err).Debug("authentication rejected")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Unauthenticated.",
				})
			}
			logger.WithError(err).Error("authentication failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not authenticate request",
			})
		}

		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// CurrentSession returns the session stored by AuthRequired, or nil.
func CurrentSession(c *fiber.Ctx) *models.Session {
	sess, _ := c.Locals(sessionKey).(*models.Session)
	return sess
}
