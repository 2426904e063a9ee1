package events

import (
	"time"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReassigned    EventType = "ticket_reassigned"
	EventCommentAdded        EventType = "comment_added"
	EventFollowerAdded       EventType = "follower_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ReferenceKey string     `json:"reference_key"`
	Title        string     `json:"title"`
	AssigneeID   *int64     `json:"assignee_id,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketReassignedPayload payload.
type TicketReassignedPayload struct {
	OldAssignee string `json:"old_assignee"`
	NewAssignee string `json:"new_assignee"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   int64              `json:"comment_id"`
	CommentType domain.CommentType `json:"comment_type"`
	BodyPreview string             `json:"body_preview"`
}

// FollowerAddedPayload payload.
type FollowerAddedPayload struct {
	UserID int64 `json:"user_id"`
}
