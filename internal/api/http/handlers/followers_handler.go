package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tasktrack/internal/api/dto"
	"github.com/spec-kit/tasktrack/internal/service"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

// FollowersHandler manages ticket follower endpoints.
type FollowersHandler struct {
	service *service.CollaborationService
}

// NewFollowersHandler constructs handler.
func NewFollowersHandler(collabService *service.CollaborationService) *FollowersHandler {
	return &FollowersHandler{service: collabService}
}

// Add handles POST /api/tickets/followers.
func (h *FollowersHandler) Add(c *fiber.Ctx) error {
	var req dto.AddFollowerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == 0 || req.UserID == 0 {
		return apperrors.NewValidationError("ticket_id and user_id required", nil)
	}

	userID := actingUserID(c, req.UserID)
	if err := h.service.AddFollower(c.Context(), req.TicketID, userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "follower added"})
}

// List handles GET /api/tickets/:id/followers.
func (h *FollowersHandler) List(c *fiber.Ctx) error {
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	followers, err := h.service.ListFollowers(c.Context(), ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.FollowerResponse, 0, len(followers))
	for _, follower := range followers {
		items = append(items, dto.FollowerResponse{
			ID:       follower.UserID,
			Username: follower.Username,
		})
	}
	return c.JSON(items)
}
