package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tasktrack/internal/domain"
	"github.com/spec-kit/tasktrack/internal/events"
	"github.com/spec-kit/tasktrack/internal/repository"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation, status
// transitions, reassignment and the audit history behind them.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title      string
	Summary    string
	AssigneeID int64
	Deadline   *time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket assigned to an existing user. Status is
// always New and the resolution comment always empty, whatever the caller
// sent.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.AssigneeID == 0 {
		return nil, apperrors.NewValidationError("assignee_id required", nil)
	}
	assignee, err := s.users.GetByID(ctx, input.AssigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"assignee_id": input.AssigneeID})
		}
		return nil, err
	}

	assigneeID := input.AssigneeID
	ticket := &domain.Ticket{
		ReferenceKey: generateTicketKey(),
		Title:        strings.TrimSpace(input.Title),
		Summary:      strings.TrimSpace(input.Summary),
		AssigneeID:   &assigneeID,
		AssigneeName: assignee.Username,
		Deadline:     input.Deadline,
		Status:       domain.TicketStatusNew,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  assigneeID,
		Payload: events.TicketCreatedPayload{
			ReferenceKey: ticket.ReferenceKey,
			Title:        ticket.Title,
			AssigneeID:   ticket.AssigneeID,
			Deadline:     ticket.Deadline,
		},
	})
	return ticket, nil
}

// ChangeStatus moves a ticket to any of the five workflow statuses and
// appends the STATUS_CHANGE audit entry in the same transaction. Terminal
// statuses require a non-empty resolution comment.
func (s *TicketService) ChangeStatus(ctx context.Context, ticketID int64, newStatus domain.TicketStatus, performedBy int64, resolutionComment *string) (*domain.TicketHistoryEntry, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	resolution := normalizeComment(resolutionComment)
	if newStatus.Terminal() && resolution == nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("resolution_comment required when marking a ticket %s", newStatus), nil)
	}

	actionComment := fmt.Sprintf("status changed to %s", newStatus)
	if resolution != nil {
		actionComment = *resolution
	}

	entry, err := s.tickets.TransitionStatus(ctx, repository.TransitionInput{
		TicketID:          ticketID,
		NewStatus:         newStatus,
		ResolutionComment: resolution,
		ActionComment:     actionComment,
		PerformedBy:       performedBy,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		ActorID:  performedBy,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatus(entry.OldValue),
			NewStatus: newStatus,
			Comment:   actionComment,
		},
	})
	return entry, nil
}

// Reassign moves a ticket to a new assignee and appends the REASSIGN audit
// entry, with both display names resolved at write time.
func (s *TicketService) Reassign(ctx context.Context, ticketID, newAssigneeID, performedBy int64) (*domain.TicketHistoryEntry, error) {
	if newAssigneeID == 0 {
		return nil, apperrors.NewValidationError("new_assignee_id required", nil)
	}
	if _, err := s.users.GetByID(ctx, newAssigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("new assignee does not exist", map[string]any{"new_assignee_id": newAssigneeID})
		}
		return nil, err
	}

	entry, err := s.tickets.Reassign(ctx, repository.ReassignInput{
		TicketID:      ticketID,
		NewAssigneeID: newAssigneeID,
		PerformedBy:   performedBy,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReassigned,
		TicketID: ticketID,
		ActorID:  performedBy,
		Payload: events.TicketReassignedPayload{
			OldAssignee: entry.OldValue,
			NewAssignee: entry.NewValue,
		},
	})
	return entry, nil
}

// ListForUser returns every ticket assigned to the user, soonest deadline
// first.
func (s *TicketService) ListForUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	return s.tickets.ListByAssignee(ctx, userID)
}

// History returns the audit trail for a ticket, newest entry first.
func (s *TicketService) History(ctx context.Context, ticketID int64) ([]domain.TicketHistoryEntry, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
