package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/auth"
	"github.com/spec-kit/assistant-backend/internal/domain"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// AdminRolesHandler exposes role assignment CRUD.
type AdminRolesHandler struct {
	admin *service.AdminService
}

// NewAdminRolesHandler constructs handler.
func NewAdminRolesHandler(admin *service.AdminService) *AdminRolesHandler {
	return &AdminRolesHandler{admin: admin}
}

// Assign handles POST /admin/users.
func (h *AdminRolesHandler) Assign(c *fiber.Ctx) error {
	var req dto.RoleAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Actor == "" || req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "actor and role required")
	}

	assignment, err := h.admin.AssignRole(c.UserContext(), req.Actor, domain.AdminRole(req.Role), callerActor(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.RoleResponse{
			Actor:     assignment.Actor,
			Role:      string(assignment.Role),
			CreatedAt: assignment.CreatedAt,
		},
	})
}

// List handles GET /admin/users.
func (h *AdminRolesHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	assignments, err := h.admin.ListRoles(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	out := make([]dto.RoleResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, dto.RoleResponse{
			Actor:     a.Actor,
			Role:      string(a.Role),
			CreatedAt: a.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Remove handles DELETE /admin/users/:actor.
func (h *AdminRolesHandler) Remove(c *fiber.Ctx) error {
	actor := c.Params("actor")
	if actor == "" {
		return fiber.NewError(http.StatusBadRequest, "actor required")
	}
	if err := h.admin.RemoveRole(c.UserContext(), actor, callerActor(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func callerActor(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.Actor
	}
	return "admin"
}
