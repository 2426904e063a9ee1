package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// CommentRepository stores append-only ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID int64, includeInternal bool) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, comment_text, comment_type)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.Text,
		comment.Type,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// ListByTicket returns comments in chronological order, each enriched with
// the commenter's username. Internal comments are filtered in SQL so they
// never cross the repository boundary for an unprivileged viewer.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64, includeInternal bool) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, COALESCE(u.username, ''), c.comment_text, c.comment_type, c.created_at
        FROM comments c
        LEFT JOIN users u ON u.id = c.user_id
        WHERE c.ticket_id=$1 AND ($2 OR c.comment_type=$3)
        ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID, includeInternal, domain.CommentTypePublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.UserID,
			&comment.Username,
			&comment.Text,
			&comment.Type,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
