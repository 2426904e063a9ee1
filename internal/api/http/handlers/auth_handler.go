package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tasktrack/internal/api/dto"
	"github.com/spec-kit/tasktrack/internal/service"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" {
		return apperrors.NewValidationError("username required", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Success: true,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
