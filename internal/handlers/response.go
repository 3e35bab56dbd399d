package handlers

import (
	"errors"

	"akun/internal/apperr"
	"akun/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError converts a service error into its HTTP response. Validation
// failures carry their bag and the URL the client should return to.
func respondError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":  "The given data was invalid.",
			"errors":   ve.Bags(),
			"redirect": back(c),
		})
	}

	var authErr *apperr.AuthorizationError
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthenticated.",
		})
	case errors.As(err, &authErr):
		logger.WithError(err).Warn("authorization denied")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "This action is unauthorized.",
		})
	case apperr.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	logger.WithError(err).WithFields(logrus.Fields{"method": c.Method(), "path": c.Path()}).Error("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// back is the page a failed form submission returns to.
func back(c *fiber.Ctx) string {
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		return ref
	}
	return "/"
}

// parseBody decodes the request body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// bindError answers a request whose body could not be decoded.
func bindError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	if ve, ok := validation.FromBindError(err); ok {
		return respondError(c, logger, ve)
	}
	logger.WithError(err).Debug("invalid request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
