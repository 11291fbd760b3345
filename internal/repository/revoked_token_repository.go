package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// RevokedTokenRepository stores permanent revocation markers. A marker
// rejects its token reference even if a session row with the same id were
// re-inserted.
type RevokedTokenRepository interface {
	// Create inserts a revocation marker. Inserting an existing
	// reference is a no-op; the bool reports whether a new row was added.
	Create(ctx context.Context, token *domain.RevokedToken) (bool, error)
	Exists(ctx context.Context, tokenReference string) (bool, error)
	// DeleteOlderThan prunes markers revoked before the cutoff and
	// returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

type revokedTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRevokedTokenRepository returns a Postgres-backed implementation.
func NewRevokedTokenRepository(pool *pgxpool.Pool) RevokedTokenRepository {
	return &revokedTokenRepository{pool: pool}
}

func (r *revokedTokenRepository) Create(ctx context.Context, token *domain.RevokedToken) (bool, error) {
	const query = `
        INSERT INTO revoked_tokens (token_reference, actor, reason, revoked_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (token_reference) DO NOTHING`

	cmd, err := r.pool.Exec(ctx, query,
		token.TokenReference,
		token.Actor,
		token.Reason,
		token.RevokedAt,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *revokedTokenRepository) Exists(ctx context.Context, tokenReference string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_reference=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, tokenReference).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *revokedTokenRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `DELETE FROM revoked_tokens WHERE revoked_at<$1`

	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *revokedTokenRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM revoked_tokens`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
