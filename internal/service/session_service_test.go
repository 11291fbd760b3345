package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/assistant-backend/internal/audit"
	"github.com/spec-kit/assistant-backend/internal/auth"
	"github.com/spec-kit/assistant-backend/internal/config"
	"github.com/spec-kit/assistant-backend/internal/domain"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	failing  bool
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]domain.Session{}}
}

var errStoreDown = errors.New("store down")

func (r *memSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if r.failing {
		return errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if r.failing {
		return nil, errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memSessionRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if r.failing {
		return false, errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok, nil
}

func (r *memSessionRepo) DeleteByActor(ctx context.Context, actor string) ([]string, error) {
	if r.failing {
		return nil, errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, s := range r.sessions {
		if s.Actor == actor {
			ids = append(ids, id)
			delete(r.sessions, id)
		}
	}
	return ids, nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if r.failing {
		return 0, errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memSessionRepo) CountActive(ctx context.Context, now time.Time) (int, error) {
	if r.failing {
		return 0, errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.sessions {
		if !s.Expired(now) {
			count++
		}
	}
	return count, nil
}

func (r *memSessionRepo) ListActive(ctx context.Context, now time.Time) ([]domain.Session, error) {
	if r.failing {
		return nil, errStoreDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.sessions {
		if !s.Expired(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

type memRevokedRepo struct {
	mu      sync.Mutex
	revoked map[string]domain.RevokedToken
}

func newMemRevokedRepo() *memRevokedRepo {
	return &memRevokedRepo{revoked: map[string]domain.RevokedToken{}}
}

func (r *memRevokedRepo) Create(ctx context.Context, t *domain.RevokedToken) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.revoked[t.TokenReference]; exists {
		return false, nil
	}
	r.revoked[t.TokenReference] = *t
	return true, nil
}

func (r *memRevokedRepo) Exists(ctx context.Context, ref string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[ref]
	return ok, nil
}

func (r *memRevokedRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for ref, t := range r.revoked {
		if t.RevokedAt.Before(cutoff) {
			delete(r.revoked, ref)
			removed++
		}
	}
	return removed, nil
}

func (r *memRevokedRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revoked), nil
}

// flakyCache always errors, exercising the cache-failure fallthrough.
type flakyCache struct{}

func (flakyCache) MarkRevoked(ctx context.Context, ref string, ttl time.Duration) error {
	return errors.New("cache down")
}

func (flakyCache) IsRevoked(ctx context.Context, ref string) (bool, error) {
	return false, errors.New("cache down")
}

type memAuditStore struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *memAuditStore) Append(e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memAuditStore) ReadAll() ([]audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Entry(nil), s.entries...), nil
}

func (s *memAuditStore) fields() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Field)
	}
	return out
}

type sessionFixture struct {
	svc      *SessionService
	sessions *memSessionRepo
	revoked  *memRevokedRepo
	auditing *memAuditStore
}

func newSessionFixture(t *testing.T, secret string) *sessionFixture {
	t.Helper()
	sessions := newMemSessionRepo()
	revoked := newMemRevokedRepo()
	auditing := &memAuditStore{}
	svc := NewSessionService(config.AdminConfig{RevocationRetentionDays: 30}, SessionDependencies{
		SessionRepo:      sessions,
		RevokedTokenRepo: revoked,
		Codec:            auth.NewTokenCodec(secret),
		AuditLog:         audit.NewLog(auditing, zap.NewNop(), nil),
		Logger:           zap.NewNop(),
	})
	return &sessionFixture{svc: svc, sessions: sessions, revoked: revoked, auditing: auditing}
}

func TestIssueAndVerifyOpaque(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, err := fx.svc.Issue(ctx, "alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.SignedToken != "" {
		t.Error("signed token issued without a signing secret")
	}

	ok, actor, err := fx.svc.Verify(ctx, issued.Session.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok || actor != "alice" {
		t.Errorf("verify = (%v, %q), want (true, alice)", ok, actor)
	}
}

func TestIssueAndVerifySigned(t *testing.T) {
	fx := newSessionFixture(t, "signing-secret")
	ctx := context.Background()

	issued, err := fx.svc.Issue(ctx, "alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.SignedToken == "" {
		t.Fatal("no signed token despite configured secret")
	}

	ok, actor, err := fx.svc.Verify(ctx, issued.SignedToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok || actor != "alice" {
		t.Errorf("verify = (%v, %q), want (true, alice)", ok, actor)
	}
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	fx := newSessionFixture(t, "")

	_, err := fx.svc.Issue(context.Background(), "alice", 0)
	if err == nil {
		t.Fatal("expected error for zero ttl")
	}
	de := apperrors.ToDomainError(err)
	if de.Code != "CONFIGURATION_ERROR" {
		t.Errorf("code = %q, want CONFIGURATION_ERROR", de.Code)
	}
}

func TestVerifyDeniesUnknownAndEmpty(t *testing.T) {
	fx := newSessionFixture(t, "signing-secret")
	ctx := context.Background()

	for _, raw := range []string{"", "unknown-session", "a.b.c"} {
		ok, _, err := fx.svc.Verify(ctx, raw)
		if err != nil {
			t.Fatalf("verify %q: %v", raw, err)
		}
		if ok {
			t.Errorf("credential %q admitted", raw)
		}
	}
}

func TestVerifyDeniesExpiredSession(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, err := fx.svc.Issue(ctx, "alice", time.Nanosecond)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	ok, _, err := fx.svc.Verify(ctx, issued.Session.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("expired session admitted")
	}
}

func TestRevokeThenVerifyDenies(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, _ := fx.svc.Issue(ctx, "alice", time.Hour)

	changed, err := fx.svc.Revoke(ctx, issued.Session.ID, "admin", "compromised")
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !changed {
		t.Fatal("revoke reported no change")
	}

	ok, _, err := fx.svc.Verify(ctx, issued.Session.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("revoked session admitted")
	}
}

// Revoking the opaque session id must also kill an outstanding signed
// token that references the same session.
func TestRevokeSessionRejectsSignedToken(t *testing.T) {
	fx := newSessionFixture(t, "signing-secret")
	ctx := context.Background()

	issued, _ := fx.svc.Issue(ctx, "bob", time.Hour)

	if _, err := fx.svc.Revoke(ctx, issued.Session.ID, "admin", ""); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, _, err := fx.svc.Verify(ctx, issued.SignedToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("signed token admitted after its session was revoked")
	}
}

// The revocation marker outlives the session row: re-creating a session
// with the same id must still be rejected.
func TestRevocationSurvivesReinsertion(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, _ := fx.svc.Issue(ctx, "alice", time.Hour)
	if _, err := fx.svc.Revoke(ctx, issued.Session.ID, "admin", ""); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	reborn := issued.Session
	reborn.ExpiresAt = time.Now().Add(time.Hour)
	if err := fx.sessions.Create(ctx, &reborn); err != nil {
		t.Fatalf("reinsert: %v", err)
	}

	ok, _, err := fx.svc.Verify(ctx, issued.Session.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("reinserted session admitted despite revocation marker")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, _ := fx.svc.Issue(ctx, "alice", time.Hour)

	first, err := fx.svc.Revoke(ctx, issued.Session.ID, "admin", "")
	if err != nil || !first {
		t.Fatalf("first revoke = (%v, %v), want (true, nil)", first, err)
	}
	second, err := fx.svc.Revoke(ctx, issued.Session.ID, "admin", "")
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if second {
		t.Error("second revoke reported a change")
	}
}

// Revoking a credential that was never issued must report no change and
// leave the revocation set alone, so the control plane can answer 404
// and guessed ids cannot grow the revoked table.
func TestRevokeUnknownCredentialReportsNoChange(t *testing.T) {
	fx := newSessionFixture(t, "signing-secret")
	ctx := context.Background()

	for _, raw := range []string{"never-issued", "aa.bb.cc"} {
		changed, err := fx.svc.Revoke(ctx, raw, "admin", "")
		if err != nil {
			t.Fatalf("revoke %q: %v", raw, err)
		}
		if changed {
			t.Errorf("revoke %q reported a change", raw)
		}
	}

	if n, _ := fx.revoked.Count(ctx); n != 0 {
		t.Errorf("revoked markers = %d, want 0", n)
	}
	if len(fx.auditing.fields()) != 0 {
		t.Errorf("audit fields = %v, want none", fx.auditing.fields())
	}
}

func TestRevokeAllForActor(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	a1, _ := fx.svc.Issue(ctx, "alice", time.Hour)
	a2, _ := fx.svc.Issue(ctx, "alice", time.Hour)
	b1, _ := fx.svc.Issue(ctx, "bob", time.Hour)

	removed, err := fx.svc.RevokeAllForActor(ctx, "alice", "admin", "offboarding")
	if err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	for _, id := range []string{a1.Session.ID, a2.Session.ID} {
		if ok, _, _ := fx.svc.Verify(ctx, id); ok {
			t.Errorf("alice session %q still valid", id)
		}
	}
	if ok, _, _ := fx.svc.Verify(ctx, b1.Session.ID); !ok {
		t.Error("bob's session was collateral damage")
	}
}

func TestVerifyStoreFailureIsError(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, _ := fx.svc.Issue(ctx, "alice", time.Hour)
	fx.sessions.failing = true

	ok, _, err := fx.svc.Verify(ctx, issued.Session.ID)
	if ok {
		t.Error("verify allowed during store outage")
	}
	if err == nil {
		t.Fatal("expected store error")
	}
	if de := apperrors.ToDomainError(err); de.Code != "STORE_UNAVAILABLE" {
		t.Errorf("code = %q, want STORE_UNAVAILABLE", de.Code)
	}
}

// A broken cache must not change outcomes: the durable store decides.
func TestVerifyCacheFailureFallsThrough(t *testing.T) {
	sessions := newMemSessionRepo()
	revoked := newMemRevokedRepo()
	svc := NewSessionService(config.AdminConfig{}, SessionDependencies{
		SessionRepo:      sessions,
		RevokedTokenRepo: revoked,
		RevocationCache:  flakyCache{},
		Codec:            auth.NewTokenCodec(""),
		AuditLog:         audit.NewLog(&memAuditStore{}, zap.NewNop(), nil),
		Logger:           zap.NewNop(),
	})
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ok, actor, err := svc.Verify(ctx, issued.Session.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok || actor != "alice" {
		t.Errorf("verify = (%v, %q), want (true, alice)", ok, actor)
	}

	if _, err := svc.Revoke(ctx, issued.Session.ID, "admin", ""); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _, _ := svc.Verify(ctx, issued.Session.ID); ok {
		t.Error("revoked session admitted because the cache was down")
	}
}

func TestExpireSessionsSweep(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	fx.svc.Issue(ctx, "alice", time.Nanosecond)
	fx.svc.Issue(ctx, "bob", time.Hour)
	time.Sleep(10 * time.Millisecond)

	removed, err := fx.svc.ExpireSessions(ctx)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	active, _, err := fx.svc.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if active != 1 {
		t.Errorf("active = %d, want 1", active)
	}
}

func TestPruneRevocationsSweep(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	old := &domain.RevokedToken{TokenReference: "ancient", RevokedAt: time.Now().Add(-60 * 24 * time.Hour)}
	fresh := &domain.RevokedToken{TokenReference: "recent", RevokedAt: time.Now()}
	fx.revoked.Create(ctx, old)
	fx.revoked.Create(ctx, fresh)

	removed, err := fx.svc.PruneRevocations(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if exists, _ := fx.revoked.Exists(ctx, "recent"); !exists {
		t.Error("recent marker pruned inside retention window")
	}
}

func TestSessionLifecycleIsAudited(t *testing.T) {
	fx := newSessionFixture(t, "")
	ctx := context.Background()

	issued, _ := fx.svc.Issue(ctx, "alice", time.Hour)
	fx.svc.Revoke(ctx, issued.Session.ID, "admin", "test")

	fields := fx.auditing.fields()
	if len(fields) != 2 || fields[0] != "session_create" || fields[1] != "session_revoke" {
		t.Errorf("audit fields = %v, want [session_create session_revoke]", fields)
	}
}
