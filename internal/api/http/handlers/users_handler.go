package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tasktrack/internal/service"
)

// UsersHandler serves the user directory for assignment dropdowns.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	entries, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
