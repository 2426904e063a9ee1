package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tasktrack/internal/domain"
	"github.com/spec-kit/tasktrack/internal/events"
	"github.com/spec-kit/tasktrack/internal/repository"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

// CollaborationService handles comments and followers attached to tickets.
type CollaborationService struct {
	comments   repository.CommentRepository
	followers  repository.FollowerRepository
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// CollaborationDependencies bundles repositories for the service.
type CollaborationDependencies struct {
	CommentRepo  repository.CommentRepository
	FollowerRepo repository.FollowerRepository
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
}

// NewCollaborationService constructs the service.
func NewCollaborationService(deps CollaborationDependencies) *CollaborationService {
	return &CollaborationService{
		comments:   deps.CommentRepo,
		followers:  deps.FollowerRepo,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AddComment appends a comment to a ticket. Comments are never edited or
// deleted afterwards.
func (s *CollaborationService) AddComment(ctx context.Context, ticketID, userID int64, text string, commentType domain.CommentType) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("comment_text required", nil)
	}
	if commentType == "" {
		commentType = domain.CommentTypePublic
	}
	if !commentType.Valid() {
		return nil, apperrors.NewValidationError("unknown comment_type", map[string]any{"comment_type": string(commentType)})
	}
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, err
	}

	comment := &domain.Comment{
		TicketID: ticketID,
		UserID:   userID,
		Text:     strings.TrimSpace(text),
		Type:     commentType,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticketID,
		ActorID:  userID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			CommentType: comment.Type,
			BodyPreview: stringPreview(comment.Text, 120),
		},
	})
	return comment, nil
}

// ListComments returns a ticket's comments in chronological order. Viewers
// whose role is not Assignee or Admin only ever see public comments.
func (s *CollaborationService) ListComments(ctx context.Context, ticketID int64, viewerRole domain.UserRole) ([]domain.Comment, error) {
	return s.comments.ListByTicket(ctx, ticketID, viewerRole.CanViewInternal())
}

// AddFollower subscribes a user to a ticket. Adding the same pair twice is
// a no-op, never an error.
func (s *CollaborationService) AddFollower(ctx context.Context, ticketID, userID int64) error {
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return err
	}
	if err := s.followers.Add(ctx, ticketID, userID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventFollowerAdded,
		TicketID: ticketID,
		ActorID:  userID,
		Payload:  events.FollowerAddedPayload{UserID: userID},
	})
	return nil
}

// ListFollowers returns every follower of a ticket.
func (s *CollaborationService) ListFollowers(ctx context.Context, ticketID int64) ([]domain.Follower, error) {
	return s.followers.ListByTicket(ctx, ticketID)
}

func (s *CollaborationService) requireTicket(ctx context.Context, ticketID int64) error {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return err
	}
	return nil
}

func (s *CollaborationService) publishEvent(ctx context.Context, event events.Event) {
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

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
