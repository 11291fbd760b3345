package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// SnapshotRepository stores snapshot metadata. The snapshot files
// themselves live on disk under the path recorded here.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *domain.Snapshot) error
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Snapshot, error)
}

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository returns a Postgres-backed implementation.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	const query = `
        INSERT INTO project_snapshots (project_id, meta_json, path)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		snapshot.ProjectID,
		snapshot.MetaJSON,
		snapshot.Path,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
}

func (r *snapshotRepository) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	const query = `
        SELECT id, project_id, meta_json, path, created_at
        FROM project_snapshots WHERE id=$1`

	var snapshot domain.Snapshot
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&snapshot.ID,
		&snapshot.ProjectID,
		&snapshot.MetaJSON,
		&snapshot.Path,
		&snapshot.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Snapshot, error) {
	const query = `
        SELECT id, project_id, meta_json, path, created_at
        FROM project_snapshots WHERE project_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Snapshot
	for rows.Next() {
		var snapshot domain.Snapshot
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.ProjectID,
			&snapshot.MetaJSON,
			&snapshot.Path,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, snapshot)
	}
	return result, rows.Err()
}
