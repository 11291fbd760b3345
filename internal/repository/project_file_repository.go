package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/assistant-backend/internal/domain"
)

// ProjectFileRepository stores uploaded file metadata.
type ProjectFileRepository interface {
	Create(ctx context.Context, file *domain.ProjectFile) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectFile, error)
}

type projectFileRepository struct {
	pool *pgxpool.Pool
}

// NewProjectFileRepository returns a Postgres-backed implementation.
func NewProjectFileRepository(pool *pgxpool.Pool) ProjectFileRepository {
	return &projectFileRepository{pool: pool}
}

func (r *projectFileRepository) Create(ctx context.Context, file *domain.ProjectFile) error {
	const query = `
        INSERT INTO project_files (project_id, filename)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		file.ProjectID,
		file.Filename,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *projectFileRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	const query = `
        SELECT id, project_id, filename, created_at
        FROM project_files WHERE project_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProjectFile
	for rows.Next() {
		var file domain.ProjectFile
		if err := rows.Scan(
			&file.ID,
			&file.ProjectID,
			&file.Filename,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
