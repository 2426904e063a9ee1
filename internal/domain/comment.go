package domain

import "time"

// CommentType controls comment visibility.
type CommentType string

const (
	CommentTypePublic   CommentType = "Public"
	CommentTypeInternal CommentType = "Internal"
)

// Valid reports membership in the comment type set.
func (t CommentType) Valid() bool {
	return t == CommentTypePublic || t == CommentTypeInternal
}

// Comment is an append-only note on a ticket. Internal comments must never
// reach viewers whose role is not Assignee or Admin.
type Comment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Username  string
	Text      string
	Type      CommentType
	CreatedAt time.Time
}
