package domain

// Follower associates a user with a ticket without ownership. The
// (ticket, user) pair is unique; adding it twice is a no-op.
type Follower struct {
	TicketID int64
	UserID   int64
	Username string
}
