package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// CommandRepository defines persistence access for stored commands.
type CommandRepository interface {
	Create(ctx context.Context, command *domain.Command) error
	List(ctx context.Context, limit, offset int) ([]domain.Command, error)
}

type commandRepository struct {
	pool *pgxpool.Pool
}

// NewCommandRepository returns a Postgres-backed implementation.
func NewCommandRepository(pool *pgxpool.Pool) CommandRepository {
	return &commandRepository{pool: pool}
}

func (r *commandRepository) Create(ctx context.Context, command *domain.Command) error {
	const query = `
        INSERT INTO commands (text)
        VALUES ($1)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, command.Text).Scan(&command.ID, &command.CreatedAt)
}

func (r *commandRepository) List(ctx context.Context, limit, offset int) ([]domain.Command, error) {
	const query = `
        SELECT id, text, created_at
        FROM commands ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Command
	for rows.Next() {
		var command domain.Command
		if err := rows.Scan(&command.ID, &command.Text, &command.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, command)
	}
	return result, rows.Err()
}
