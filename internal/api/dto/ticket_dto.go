package dto

import (
	"time"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	AssigneeID int64  `json:"assignee_id"`
	Deadline   string `json:"deadline"`
}

// TicketResponse is the wire shape of a ticket row.
type TicketResponse struct {
	ID                int64               `json:"id"`
	ReferenceKey      string              `json:"reference_key"`
	Title             string              `json:"title"`
	Summary           string              `json:"summary"`
	AssigneeID        *int64              `json:"assignee_id"`
	AssigneeName      string              `json:"assignee_name,omitempty"`
	Deadline          *time.Time          `json:"deadline"`
	Status            domain.TicketStatus `json:"status"`
	ResolutionComment *string             `json:"resolution_comment"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status            string  `json:"status"`
	PerformedBy       int64   `json:"performed_by"`
	ResolutionComment *string `json:"resolution_comment"`
}

// ReassignRequest payload.
type ReassignRequest struct {
	NewAssigneeID int64 `json:"new_assignee_id"`
	PerformedBy   int64 `json:"performed_by"`
}

// AckResponse acknowledges a mutation.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TicketHistoryResponse is one audit row, newest first in listings.
type TicketHistoryResponse struct {
	ID              int64                    `json:"id"`
	TicketID        int64                    `json:"ticket_id"`
	ActionType      domain.HistoryActionType `json:"action_type"`
	ActionComment   string                   `json:"action_comment"`
	OldValue        string                   `json:"old_value"`
	NewValue        string                   `json:"new_value"`
	PerformedBy     *int64                   `json:"performed_by"`
	PerformedByName string                   `json:"performed_by_name"`
	CreatedAt       time.Time                `json:"created_at"`
}
