package dto

import (
	"time"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	TicketID    int64              `json:"ticket_id"`
	UserID      int64              `json:"user_id"`
	CommentText string             `json:"comment_text"`
	CommentType domain.CommentType `json:"comment_type"`
}

// CommentResponse is one comment row in chronological listings.
type CommentResponse struct {
	ID          int64              `json:"id"`
	TicketID    int64              `json:"ticket_id"`
	UserID      int64              `json:"user_id"`
	Username    string             `json:"username"`
	CommentText string             `json:"comment_text"`
	CommentType domain.CommentType `json:"comment_type"`
	CreatedAt   time.Time          `json:"created_at"`
}

// AddFollowerRequest payload.
type AddFollowerRequest struct {
	TicketID int64 `json:"ticket_id"`
	UserID   int64 `json:"user_id"`
}

// FollowerResponse is one follower of a ticket.
type FollowerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
