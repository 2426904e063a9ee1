package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// TicketHistoryRepository reads audit entries. Writes happen inside the
// ticket repository's transactions so an entry can never outrun or trail
// the mutation it describes.
type TicketHistoryRepository interface {
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistoryEntry, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

// ListByTicket returns entries newest first. Performer names resolve through
// a left join; a dangling performed_by falls back to a placeholder rather
// than dropping the row.
func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistoryEntry, error) {
	const query = `
        SELECT h.id, h.ticket_id, h.action_type, h.action_comment, h.old_value, h.new_value,
               h.performed_by, COALESCE(u.username, $2), h.created_at
        FROM ticket_history h
        LEFT JOIN users u ON u.id = h.performed_by
        WHERE h.ticket_id=$1
        ORDER BY h.created_at DESC, h.id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID, domain.UnknownPerformer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistoryEntry
	for rows.Next() {
		var entry domain.TicketHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.ActionType,
			&entry.ActionComment,
			&entry.OldValue,
			&entry.NewValue,
			&entry.PerformedBy,
			&entry.PerformedByName,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
