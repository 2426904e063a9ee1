package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tasktrack/internal/api/dto"
	"github.com/spec-kit/tasktrack/internal/auth"
	"github.com/spec-kit/tasktrack/internal/domain"
	"github.com/spec-kit/tasktrack/internal/service"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

// CommentsHandler manages ticket comment endpoints.
type CommentsHandler struct {
	service *service.CollaborationService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(collabService *service.CollaborationService) *CommentsHandler {
	return &CommentsHandler{service: collabService}
}

// Add handles POST /api/comments.
func (h *CommentsHandler) Add(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == 0 || req.UserID == 0 {
		return apperrors.NewValidationError("ticket_id and user_id required", nil)
	}

	userID := actingUserID(c, req.UserID)
	comment, err := h.service.AddComment(c.Context(), req.TicketID, userID, req.CommentText, req.CommentType)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "comment added",
		"id":      comment.ID,
	})
}

// List handles GET /api/comments/:ticketId?role=.
// The viewer role comes from the token when one is presented; the query
// parameter remains for clients without a session.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	ticketID, err := parseIDParam(c, "ticketId")
	if err != nil {
		return err
	}

	role := domain.UserRole(c.Query("role"))
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		role = principal.User.Role
	}

	comments, err := h.service.ListComments(c.Context(), ticketID, role)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, dto.CommentResponse{
			ID:          comment.ID,
			TicketID:    comment.TicketID,
			UserID:      comment.UserID,
			Username:    comment.Username,
			CommentText: comment.Text,
			CommentType: comment.Type,
			CreatedAt:   comment.CreatedAt,
		})
	}
	return c.JSON(items)
}
