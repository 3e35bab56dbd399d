package handlers

import (
	"akun/internal/apperr"
	"akun/internal/middleware"
	"akun/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProfileHandler serves the profile of the authenticated user.
type ProfileHandler struct {
	service *services.ProfileService
	logger  *logrus.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the profile routes. router must be behind AuthRequired.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleView)
	router.Patch("/profile", h.HandleUpdate)
	router.Delete("/profile", h.HandleDelete)
}

// UpdateProfileRequest represents the request body of a profile update.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DeleteAccountRequest represents the request body of an account deletion.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// HandleView returns the profile of the session actor.
func (h *ProfileHandler) HandleView(c *fiber.Ctx) error {
	user, err := h.service.View(middleware.CurrentSession(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleUpdate updates the name and email of the session actor.
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return bindError(c, h.logger, err)
	}

	sess := middleware.CurrentSession(c)
	if sess == nil || sess.Actor == nil {
		return respondError(c, h.logger, apperr.ErrUnauthenticated)
	}
	user, err := h.service.Update(sess, sess.Actor.ID, req.Name, req.Email)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Profile updated",
		"user":     user,
		"redirect": "/profile",
	})
}

// HandleDelete deletes the account of the session actor and ends the session.
func (h *ProfileHandler) HandleDelete(c *fiber.Ctx) error {
	var req DeleteAccountRequest
	if err := parseBody(c, &req); err != nil {
		return bindError(c, h.logger, err)
	}

	sess := middleware.CurrentSession(c)
	if sess == nil || sess.Actor == nil {
		return respondError(c, h.logger, apperr.ErrUnauthenticated)
	}
	if err := h.service.Delete(c.UserContext(), sess, sess.Actor.ID, req.Password); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Account deleted",
		"redirect": "/",
	})
}
