package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// StatusLogRepository reads the append-only status change history.
// Writes happen only inside TicketRepository.TransitionStatus so a log
// entry can never exist without the matching ticket update.
type StatusLogRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusChangeRecord, error)
}

type statusLogRepository struct {
	pool *pgxpool.Pool
}

// NewStatusLogRepository builds repository.
func NewStatusLogRepository(pool *pgxpool.Pool) StatusLogRepository {
	return &statusLogRepository{pool: pool}
}

func (r *statusLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusChangeRecord, error) {
	const query = `
        SELECT id, ticket_id, old_status, new_status, changed_by, created_at
        FROM ticket_status_log WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusChangeRecord
	for rows.Next() {
		var record domain.StatusChangeRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.OldStatus,
			&record.NewStatus,
			&record.ChangedBy,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
