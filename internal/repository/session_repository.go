package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// SessionRepository defines persistence access for admin sessions. The
// repository owns the rows exclusively; no other component mutates them.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// DeleteByID removes a session row. Deleting an absent row is not an
	// error; the returned bool reports whether a row existed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	// DeleteByActor removes every session for the actor and returns the
	// ids of the deleted rows.
	DeleteByActor(ctx context.Context, actor string) ([]string, error)
	// DeleteExpired removes sessions past their expiry and returns the
	// number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	CountActive(ctx context.Context, now time.Time) (int, error)
	ListActive(ctx context.Context, now time.Time) ([]domain.Session, error)
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a Postgres-backed implementation.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO admin_sessions (session_id, actor, issued_at, expires_at)
        VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.Actor,
		session.IssuedAt,
		session.ExpiresAt,
	)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	const query = `
        SELECT session_id, actor, issued_at, expires_at
        FROM admin_sessions WHERE session_id=$1`

	var session domain.Session
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Actor,
		&session.IssuedAt,
		&session.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM admin_sessions WHERE session_id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *sessionRepository) DeleteByActor(ctx context.Context, actor string) ([]string, error) {
	const query = `DELETE FROM admin_sessions WHERE actor=$1 RETURNING session_id`

	rows, err := r.pool.Query(ctx, query, actor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	const query = `DELETE FROM admin_sessions WHERE expires_at<=$1`

	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *sessionRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM admin_sessions WHERE expires_at>$1`

	var count int
	if err := r.pool.QueryRow(ctx, query, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) ListActive(ctx context.Context, now time.Time) ([]domain.Session, error) {
	const query = `
        SELECT session_id, actor, issued_at, expires_at
        FROM admin_sessions WHERE expires_at>$1 ORDER BY issued_at DESC`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(
			&session.ID,
			&session.Actor,
			&session.IssuedAt,
			&session.ExpiresAt,
		); err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}
