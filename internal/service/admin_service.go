package service

import (
	"context"

	"github.com/spec-kit/assistant-backend/internal/audit"
	"github.com/spec-kit/assistant-backend/internal/domain"
	"github.com/spec-kit/assistant-backend/internal/repository"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

const (
	auditRoleAssign = "role_assign"
	auditRoleRemove = "role_remove"
)

// AdminService manages role assignments for the admin control plane.
// Every mutation is audited.
type AdminService struct {
	roles    repository.RoleRepository
	auditLog *audit.Log
}

// NewAdminService builds the service.
func NewAdminService(roles repository.RoleRepository, auditLog *audit.Log) *AdminService {
	return &AdminService{roles: roles, auditLog: auditLog}
}

// AssignRole creates or updates an actor's role assignment.
func (s *AdminService) AssignRole(ctx context.Context, actor string, role domain.AdminRole, requestedBy string) (*domain.RoleAssignment, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	previous, err := s.roles.GetByActor(ctx, actor)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	assignment := &domain.RoleAssignment{Actor: actor, Role: role}
	if err := s.roles.Upsert(ctx, assignment); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	var oldRole any
	if previous != nil {
		oldRole = string(previous.Role)
	}
	s.auditLog.Append(audit.NewEntry(requestedBy, auditRoleAssign, oldRole, map[string]any{
		"actor": actor,
		"role":  string(role),
	}, ""))
	return assignment, nil
}

// RemoveRole deletes an actor's role assignment. The actor falls back to
// the default-admit behavior afterwards.
func (s *AdminService) RemoveRole(ctx context.Context, actor, requestedBy string) error {
	found, err := s.roles.Delete(ctx, actor)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if !found {
		return apperrors.NewNotFound("role assignment", map[string]any{"actor": actor})
	}

	s.auditLog.Append(audit.NewEntry(requestedBy, auditRoleRemove, actor, nil, ""))
	return nil
}

// GetRole returns the actor's assignment, or nil when absent.
func (s *AdminService) GetRole(ctx context.Context, actor string) (*domain.RoleAssignment, error) {
	assignment, err := s.roles.GetByActor(ctx, actor)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return assignment, nil
}

// ListRoles pages through assignments.
func (s *AdminService) ListRoles(ctx context.Context, limit, offset int) ([]domain.RoleAssignment, error) {
	if limit <= 0 {
		limit = 100
	}
	assignments, err := s.roles.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return assignments, nil
}
