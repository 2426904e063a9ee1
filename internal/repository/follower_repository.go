package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// FollowerRepository manages the (ticket, user) follower pairs.
type FollowerRepository interface {
	Add(ctx context.Context, ticketID, userID int64) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Follower, error)
}

type followerRepository struct {
	pool *pgxpool.Pool
}

// NewFollowerRepository builds repository.
func NewFollowerRepository(pool *pgxpool.Pool) FollowerRepository {
	return &followerRepository{pool: pool}
}

// Add inserts the pair if absent. Duplicate adds are a no-op, enforced by
// the primary key and ON CONFLICT DO NOTHING.
func (r *followerRepository) Add(ctx context.Context, ticketID, userID int64) error {
	const query = `
        INSERT INTO ticket_followers (ticket_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (ticket_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, ticketID, userID)
	return err
}

func (r *followerRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Follower, error) {
	const query = `
        SELECT f.ticket_id, f.user_id, u.username
        FROM ticket_followers f
        JOIN users u ON u.id = f.user_id
        WHERE f.ticket_id=$1
        ORDER BY u.username ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Follower
	for rows.Next() {
		var follower domain.Follower
		if err := rows.Scan(&follower.TicketID, &follower.UserID, &follower.Username); err != nil {
			return nil, err
		}
		result = append(result, follower)
	}
	return result, rows.Err()
}
