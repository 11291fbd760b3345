package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// PairingRepository stores device pairing tokens.
type PairingRepository interface {
	Create(ctx context.Context, pairing *domain.Pairing) error
	Exists(ctx context.Context, token string) (bool, error)
}

type pairingRepository struct {
	pool *pgxpool.Pool
}

// NewPairingRepository returns a Postgres-backed implementation.
func NewPairingRepository(pool *pgxpool.Pool) PairingRepository {
	return &pairingRepository{pool: pool}
}

func (r *pairingRepository) Create(ctx context.Context, pairing *domain.Pairing) error {
	const query = `
        INSERT INTO pairings (token, device_name)
        VALUES ($1, $2)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		pairing.Token,
		pairing.DeviceName,
	).Scan(&pairing.CreatedAt)
}

func (r *pairingRepository) Exists(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM pairings WHERE token=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
