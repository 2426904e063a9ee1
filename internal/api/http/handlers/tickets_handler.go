package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tasktrack/internal/api/dto"
	"github.com/spec-kit/tasktrack/internal/auth"
	"github.com/spec-kit/tasktrack/internal/domain"
	"github.com/spec-kit/tasktrack/internal/service"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /api/todos.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.AssigneeID == 0 {
		return apperrors.NewValidationError("title and assignee_id required", nil)
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.Context(), service.TicketCreateInput{
		Title:      req.Title,
		Summary:    req.Summary,
		AssigneeID: req.AssigneeID,
		Deadline:   deadline,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticketResponse(ticket))
}

// ListForUser handles GET /api/todos/:userId.
func (h *TicketsHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}
	tickets, err := h.service.ListForUser(c.Context(), userID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// UpdateStatus handles PUT /api/todos/:id.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	performedBy := actingUserID(c, req.PerformedBy)
	if performedBy == 0 {
		return apperrors.NewValidationError("performed_by required", nil)
	}

	entry, err := h.service.ChangeStatus(c.Context(), ticketID, domain.TicketStatus(req.Status), performedBy, req.ResolutionComment)
	if err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{
		Success: true,
		Message: "status changed from " + entry.OldValue + " to " + entry.NewValue,
	})
}

// Reassign handles PUT /api/todos/reassign/:id.
func (h *TicketsHandler) Reassign(c *fiber.Ctx) error {
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	performedBy := actingUserID(c, req.PerformedBy)
	if performedBy == 0 {
		return apperrors.NewValidationError("performed_by required", nil)
	}

	if _, err := h.service.Reassign(c.Context(), ticketID, req.NewAssigneeID, performedBy); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{Success: true})
}

// History handles GET /api/history/:ticketId.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	ticketID, err := parseIDParam(c, "ticketId")
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.Context(), ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.TicketHistoryResponse{
			ID:              entry.ID,
			TicketID:        entry.TicketID,
			ActionType:      entry.ActionType,
			ActionComment:   entry.ActionComment,
			OldValue:        entry.OldValue,
			NewValue:        entry.NewValue,
			PerformedBy:     entry.PerformedBy,
			PerformedByName: entry.PerformedByName,
			CreatedAt:       entry.CreatedAt,
		})
	}
	return c.JSON(items)
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                ticket.ID,
		ReferenceKey:      ticket.ReferenceKey,
		Title:             ticket.Title,
		Summary:           ticket.Summary,
		AssigneeID:        ticket.AssigneeID,
		AssigneeName:      ticket.AssigneeName,
		Deadline:          ticket.Deadline,
		Status:            ticket.Status,
		ResolutionComment: ticket.ResolutionComment,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}

// actingUserID prefers the token principal over the body-supplied id.
func actingUserID(c *fiber.Ctx, bodyID int64) int64 {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		return principal.User.ID
	}
	return bodyID
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

// parseDeadline accepts both RFC 3339 and the datetime-local format the UI
// form posts ("2006-01-02T15:04").
func parseDeadline(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError("invalid deadline", map[string]any{"deadline": val})
}
