package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/assistant-backend/internal/domain"
	"github.com/spec-kit/assistant-backend/internal/repository"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

// ProjectService handles project CRUD, file uploads, and snapshots. A
// snapshot copies the project's files folder and stores metadata so a
// later restore overwrites both.
type ProjectService struct {
	projects  repository.ProjectRepository
	files     repository.ProjectFileRepository
	snapshots repository.SnapshotRepository
	dataDir   string
}

// NewProjectService builds the service. dataDir roots project files and
// snapshot folders on disk.
func NewProjectService(projects repository.ProjectRepository, files repository.ProjectFileRepository, snapshots repository.SnapshotRepository, dataDir string) *ProjectService {
	return &ProjectService{projects: projects, files: files, snapshots: snapshots, dataDir: dataDir}
}

// Create stores a new project.
func (s *ProjectService) Create(ctx context.Context, title, description string) (*domain.Project, error) {
	project := &domain.Project{Title: title, Description: description}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return project, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("project", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return project, nil
}

// List returns all projects, newest first.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return projects, nil
}

// AddFile writes the upload under the project folder and records its
// metadata.
func (s *ProjectService) AddFile(ctx context.Context, projectID, filename string, content io.Reader) (*domain.ProjectFile, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	// Uploads are confined to the project folder.
	safeName := filepath.Base(filename)
	folder := s.projectFolder(projectID)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, err
	}

	dst, err := os.Create(filepath.Join(folder, safeName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, content); err != nil {
		return nil, err
	}

	file := &domain.ProjectFile{ProjectID: projectID, Filename: safeName}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return file, nil
}

// ListFiles returns uploaded file metadata for the project.
func (s *ProjectService) ListFiles(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	files, err := s.files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return files, nil
}

type snapshotMeta struct {
	Project domain.Project `json:"project"`
	Files   []string       `json:"files"`
}

// CreateSnapshot copies the project's files folder into a timestamped
// snapshot directory and stores its metadata.
func (s *ProjectService) CreateSnapshot(ctx context.Context, projectID string) (*domain.Snapshot, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	files, err := s.ListFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	snapDir := filepath.Join(s.dataDir, "snapshots", projectID, time.Now().UTC().Format("20060102150405"))
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		return nil, err
	}

	src := s.projectFolder(projectID)
	if _, err := os.Stat(src); err == nil {
		if err := copyTree(src, filepath.Join(snapDir, "files")); err != nil {
			return nil, err
		}
	}

	meta := snapshotMeta{Project: *project}
	for _, f := range files {
		meta.Files = append(meta.Files, f.Filename)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(snapDir, "meta.json"), metaJSON, 0o644); err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		ProjectID: projectID,
		MetaJSON:  string(metaJSON),
		Path:      snapDir,
	}
	if err := s.snapshots.Create(ctx, snapshot); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return snapshot, nil
}

// ListSnapshots returns snapshot metadata for the project, newest first.
func (s *ProjectService) ListSnapshots(ctx context.Context, projectID string) ([]domain.Snapshot, error) {
	snapshots, err := s.snapshots.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return snapshots, nil
}

// RestoreSnapshot overwrites the project's metadata and files from the
// snapshot.
func (s *ProjectService) RestoreSnapshot(ctx context.Context, snapshotID string) error {
	snapshot, err := s.snapshots.GetByID(ctx, snapshotID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("snapshot", nil)
		}
		return apperrors.NewStoreUnavailable(err)
	}

	var meta snapshotMeta
	if err := json.Unmarshal([]byte(snapshot.MetaJSON), &meta); err != nil {
		return fmt.Errorf("snapshot metadata corrupt: %w", err)
	}

	project := &domain.Project{
		ID:          snapshot.ProjectID,
		Title:       meta.Project.Title,
		Description: meta.Project.Description,
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	folder := s.projectFolder(snapshot.ProjectID)
	if err := os.RemoveAll(folder); err != nil {
		return err
	}
	src := filepath.Join(snapshot.Path, "files")
	if _, err := os.Stat(src); err == nil {
		return copyTree(src, folder)
	}
	return nil
}

func (s *ProjectService) projectFolder(projectID string) string {
	return filepath.Join(s.dataDir, "projects", projectID)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
