package domain

import "time"

// HistoryActionType captures what kind of change a history entry records.
type HistoryActionType string

const (
	ActionStatusChange HistoryActionType = "STATUS_CHANGE"
	ActionReassign     HistoryActionType = "REASSIGN"
)

// UnknownPerformer is shown when the acting user no longer resolves.
const UnknownPerformer = "unknown user"

// TicketHistoryEntry is an immutable audit record of a status change or a
// reassignment. Entries are never updated or deleted once written.
type TicketHistoryEntry struct {
	ID              int64
	TicketID        int64
	ActionType      HistoryActionType
	ActionComment   string
	OldValue        string
	NewValue        string
	PerformedBy     *int64
	PerformedByName string
	CreatedAt       time.Time
}
