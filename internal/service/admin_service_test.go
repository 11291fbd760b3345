package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/assistant-backend/internal/audit"
	"github.com/spec-kit/assistant-backend/internal/domain"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

type memRoleRepo struct {
	mu    sync.Mutex
	roles map[string]domain.AdminRole
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: map[string]domain.AdminRole{}}
}

func (r *memRoleRepo) Upsert(ctx context.Context, a *domain.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[a.Actor] = a.Role
	return nil
}

func (r *memRoleRepo) GetByActor(ctx context.Context, actor string) (*domain.RoleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[actor]
	if !ok {
		return nil, nil
	}
	return &domain.RoleAssignment{Actor: actor, Role: role}, nil
}

func (r *memRoleRepo) Delete(ctx context.Context, actor string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.roles[actor]
	delete(r.roles, actor)
	return ok, nil
}

func (r *memRoleRepo) List(ctx context.Context, limit, offset int) ([]domain.RoleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RoleAssignment
	for actor, role := range r.roles {
		out = append(out, domain.RoleAssignment{Actor: actor, Role: role})
	}
	return out, nil
}

func newAdminFixture(t *testing.T) (*AdminService, *memRoleRepo, *memAuditStore) {
	t.Helper()
	roles := newMemRoleRepo()
	store := &memAuditStore{}
	return NewAdminService(roles, audit.NewLog(store, zap.NewNop(), nil)), roles, store
}

func TestAssignRole(t *testing.T) {
	svc, _, store := newAdminFixture(t)
	ctx := context.Background()

	assignment, err := svc.AssignRole(ctx, "alice", domain.RoleViewer, "root")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assignment.Role != domain.RoleViewer {
		t.Errorf("role = %q, want viewer", assignment.Role)
	}

	got, err := svc.GetRole(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Role != domain.RoleViewer {
		t.Errorf("stored assignment = %+v", got)
	}

	// Promotion records the previous role.
	if _, err := svc.AssignRole(ctx, "alice", domain.RoleAdmin, "root"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	entries, _ := store.ReadAll()
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(entries))
	}
	if entries[1].OldValue != "viewer" {
		t.Errorf("promotion old value = %v, want viewer", entries[1].OldValue)
	}
}

func TestAssignRoleRejectsUnknown(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.AssignRole(context.Background(), "alice", domain.AdminRole("superuser"), "root")
	if err == nil {
		t.Fatal("unknown role accepted")
	}
	if de := apperrors.ToDomainError(err); de.Code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", de.Code)
	}
}

func TestRemoveRole(t *testing.T) {
	svc, _, _ := newAdminFixture(t)
	ctx := context.Background()

	svc.AssignRole(ctx, "alice", domain.RoleViewer, "root")
	if err := svc.RemoveRole(ctx, "alice", "root"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got, err := svc.GetRole(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("assignment survived removal: %+v", got)
	}

	err = svc.RemoveRole(ctx, "alice", "root")
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "NOT_FOUND" {
		t.Errorf("second remove = %v, want NOT_FOUND", err)
	}
}
