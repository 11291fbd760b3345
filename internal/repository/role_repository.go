package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// RoleRepository manages actor-to-role assignments.
type RoleRepository interface {
	Upsert(ctx context.Context, assignment *domain.RoleAssignment) error
	// GetByActor returns nil without error when the actor has no
	// assignment; the access gate decides what that means.
	GetByActor(ctx context.Context, actor string) (*domain.RoleAssignment, error)
	Delete(ctx context.Context, actor string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.RoleAssignment, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Upsert(ctx context.Context, assignment *domain.RoleAssignment) error {
	const query = `
        INSERT INTO role_assignments (actor, role)
        VALUES ($1, $2)
        ON CONFLICT (actor) DO UPDATE SET role=EXCLUDED.role
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		assignment.Actor,
		assignment.Role,
	).Scan(&assignment.CreatedAt)
}

func (r *roleRepository) GetByActor(ctx context.Context, actor string) (*domain.RoleAssignment, error) {
	const query = `
        SELECT actor, role, created_at
        FROM role_assignments WHERE actor=$1`

	var assignment domain.RoleAssignment
	if err := r.pool.QueryRow(ctx, query, actor).Scan(
		&assignment.Actor,
		&assignment.Role,
		&assignment.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *roleRepository) Delete(ctx context.Context, actor string) (bool, error) {
	const query = `DELETE FROM role_assignments WHERE actor=$1`

	cmd, err := r.pool.Exec(ctx, query, actor)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *roleRepository) List(ctx context.Context, limit, offset int) ([]domain.RoleAssignment, error) {
	const query = `
        SELECT actor, role, created_at
        FROM role_assignments ORDER BY actor ASC
        LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoleAssignment
	for rows.Next() {
		var assignment domain.RoleAssignment
		if err := rows.Scan(
			&assignment.Actor,
			&assignment.Role,
			&assignment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}
