package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/domain"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// ProjectsHandler exposes project CRUD, uploads, and snapshots.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projects *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// Create handles POST /projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProjectCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return fiber.NewError(http.StatusBadRequest, "title required")
	}

	project, err := h.projects.Create(c.UserContext(), req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": projectResponse(project)})
}

// List handles GET /projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, projectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project)})
}

// UploadFile handles POST /projects/:id/files.
func (h *ProjectsHandler) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "file required")
	}

	src, err := header.Open()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	file, err := h.projects.AddFile(c.UserContext(), c.Params("id"), header.Filename, src)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FileResponse{
		ID:        file.ID,
		Filename:  file.Filename,
		CreatedAt: file.CreatedAt,
	}})
}

// ListFiles handles GET /projects/:id/files.
func (h *ProjectsHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.projects.ListFiles(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.FileResponse{ID: f.ID, Filename: f.Filename, CreatedAt: f.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": out})
}

// CreateSnapshot handles POST /projects/:id/snapshot.
func (h *ProjectsHandler) CreateSnapshot(c *fiber.Ctx) error {
	snapshot, err := h.projects.CreateSnapshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SnapshotResponse{
		ID:        snapshot.ID,
		ProjectID: snapshot.ProjectID,
		Path:      snapshot.Path,
		CreatedAt: snapshot.CreatedAt,
	}})
}

// ListSnapshots handles GET /projects/:id/snapshots.
func (h *ProjectsHandler) ListSnapshots(c *fiber.Ctx) error {
	snapshots, err := h.projects.ListSnapshots(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.SnapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, dto.SnapshotResponse{ID: s.ID, ProjectID: s.ProjectID, Path: s.Path, CreatedAt: s.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": out})
}

// RestoreSnapshot handles POST /snapshots/:id/restore.
func (h *ProjectsHandler) RestoreSnapshot(c *fiber.Ctx) error {
	if err := h.projects.RestoreSnapshot(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"restored": true}})
}

func projectResponse(p *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
