package domain

import "time"

// TicketStatus enumerates the workflow vocabulary. Any status may move to
// any other; terminal statuses additionally require a resolution comment.
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "New"
	TicketStatusAssigned TicketStatus = "Assigned"
	TicketStatusSolving  TicketStatus = "Solving"
	TicketStatusSolved   TicketStatus = "Solved"
	TicketStatusFailed   TicketStatus = "Failed"
)

// Valid reports membership in the closed status set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusAssigned, TicketStatusSolving, TicketStatusSolved, TicketStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status ends the workflow.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusSolved || s == TicketStatusFailed
}

// Ticket is the unit of work tracked by the service.
// Invariant: ResolutionComment is non-empty whenever Status is terminal.
type Ticket struct {
	ID                int64
	ReferenceKey      string
	Title             string
	Summary           string
	AssigneeID        *int64
	AssigneeName      string
	Deadline          *time.Time
	Status            TicketStatus
	ResolutionComment *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
