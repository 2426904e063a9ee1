package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// TransitionInput describes a status change to apply atomically.
type TransitionInput struct {
	TicketID          int64
	NewStatus         domain.TicketStatus
	ResolutionComment *string
	ActionComment     string
	PerformedBy       int64
}

// ReassignInput describes an assignee change to apply atomically.
type ReassignInput struct {
	TicketID      int64
	NewAssigneeID int64
	PerformedBy   int64
}

// TicketRepository encapsulates ticket persistence. TransitionStatus and
// Reassign run the read, the update and the history append in one
// transaction with the ticket row locked, so the audit entry's old value is
// always the value that was actually overwritten.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListByAssignee(ctx context.Context, assigneeID int64) ([]domain.Ticket, error)
	TransitionStatus(ctx context.Context, input TransitionInput) (*domain.TicketHistoryEntry, error)
	Reassign(ctx context.Context, input ReassignInput) (*domain.TicketHistoryEntry, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (reference_key, title, summary, assignee_id, deadline, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ReferenceKey,
		ticket.Title,
		ticket.Summary,
		ticket.AssigneeID,
		ticket.Deadline,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT t.id, t.reference_key, t.title, t.summary, t.assignee_id,
               COALESCE(u.username, ''), t.deadline, t.status, t.resolution_comment,
               t.created_at, t.updated_at
        FROM tickets t
        LEFT JOIN users u ON u.id = t.assignee_id
        WHERE t.id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ReferenceKey,
		&ticket.Title,
		&ticket.Summary,
		&ticket.AssigneeID,
		&ticket.AssigneeName,
		&ticket.Deadline,
		&ticket.Status,
		&ticket.ResolutionComment,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListByAssignee returns every ticket owned by the user, soonest deadline
// first. The result set is unbounded by design; this is a small-team tool.
func (r *ticketRepository) ListByAssignee(ctx context.Context, assigneeID int64) ([]domain.Ticket, error) {
	const query = `
        SELECT t.id, t.reference_key, t.title, t.summary, t.assignee_id,
               COALESCE(u.username, ''), t.deadline, t.status, t.resolution_comment,
               t.created_at, t.updated_at
        FROM tickets t
        LEFT JOIN users u ON u.id = t.assignee_id
        WHERE t.assignee_id=$1
        ORDER BY t.deadline ASC NULLS LAST`
	rows, err := r.pool.Query(ctx, query, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) TransitionStatus(ctx context.Context, input TransitionInput) (*domain.TicketHistoryEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var oldStatus domain.TicketStatus
	if err := tx.QueryRow(ctx,
		`SELECT status FROM tickets WHERE id=$1 FOR UPDATE`,
		input.TicketID,
	).Scan(&oldStatus); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tickets
         SET status=$1, resolution_comment=COALESCE($2, resolution_comment), updated_at=NOW()
         WHERE id=$3`,
		input.NewStatus, input.ResolutionComment, input.TicketID,
	); err != nil {
		return nil, err
	}

	entry := &domain.TicketHistoryEntry{
		TicketID:      input.TicketID,
		ActionType:    domain.ActionStatusChange,
		ActionComment: input.ActionComment,
		OldValue:      string(oldStatus),
		NewValue:      string(input.NewStatus),
		PerformedBy:   &input.PerformedBy,
	}
	if err := insertHistory(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *ticketRepository) Reassign(ctx context.Context, input ReassignInput) (*domain.TicketHistoryEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var oldName string
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(u.username, 'Unassigned')
         FROM tickets t
         LEFT JOIN users u ON u.id = t.assignee_id
         WHERE t.id=$1
         FOR UPDATE OF t`,
		input.TicketID,
	).Scan(&oldName); err != nil {
		return nil, err
	}

	var newName string
	if err := tx.QueryRow(ctx,
		`SELECT username FROM users WHERE id=$1`,
		input.NewAssigneeID,
	).Scan(&newName); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tickets SET assignee_id=$1, updated_at=NOW() WHERE id=$2`,
		input.NewAssigneeID, input.TicketID,
	); err != nil {
		return nil, err
	}

	entry := &domain.TicketHistoryEntry{
		TicketID:      input.TicketID,
		ActionType:    domain.ActionReassign,
		ActionComment: fmt.Sprintf("reassigned from %s to %s", oldName, newName),
		OldValue:      oldName,
		NewValue:      newName,
		PerformedBy:   &input.PerformedBy,
	}
	if err := insertHistory(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, entry *domain.TicketHistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, action_type, action_comment, old_value, new_value, performed_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return tx.QueryRow(ctx, query,
		entry.TicketID,
		entry.ActionType,
		entry.ActionComment,
		entry.OldValue,
		entry.NewValue,
		entry.PerformedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ReferenceKey,
			&ticket.Title,
			&ticket.Summary,
			&ticket.AssigneeID,
			&ticket.AssigneeName,
			&ticket.Deadline,
			&ticket.Status,
			&ticket.ResolutionComment,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
