package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/assistant-backend/internal/audit"
	"github.com/spec-kit/assistant-backend/internal/auth"
	"github.com/spec-kit/assistant-backend/internal/config"
	"github.com/spec-kit/assistant-backend/internal/domain"
	"github.com/spec-kit/assistant-backend/internal/repository"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

// Audit field names written by the session service.
const (
	auditSessionCreate    = "session_create"
	auditSessionRevoke    = "session_revoke"
	auditSessionRevokeAll = "session_revoke_all"
	auditSessionCleanup   = "session_cleanup"
	auditRevocationPrune  = "revocation_prune"
)

// IssuedCredential is returned from Issue. The opaque session id always
// works; the signed token is present only when a signing secret is
// configured, and either form may be presented later.
type IssuedCredential struct {
	Session     domain.Session
	SignedToken string
}

// SessionService orchestrates issuance, verification, and revocation of
// admin credentials, combining the credential store and token codec and
// writing every security-relevant mutation to the audit log.
type SessionService struct {
	sessions  repository.SessionRepository
	revoked   repository.RevokedTokenRepository
	cache     repository.RevocationCache
	codec     *auth.TokenCodec
	auditLog  *audit.Log
	logger    *zap.Logger
	retention time.Duration
}

// SessionDependencies bundles the session service requirements.
type SessionDependencies struct {
	SessionRepo      repository.SessionRepository
	RevokedTokenRepo repository.RevokedTokenRepository
	RevocationCache  repository.RevocationCache
	Codec            *auth.TokenCodec
	AuditLog         *audit.Log
	Logger           *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(cfg config.AdminConfig, deps SessionDependencies) *SessionService {
	return &SessionService{
		sessions:  deps.SessionRepo,
		revoked:   deps.RevokedTokenRepo,
		cache:     deps.RevocationCache,
		codec:     deps.Codec,
		auditLog:  deps.AuditLog,
		logger:    deps.Logger,
		retention: cfg.RevocationRetention(),
	}
}

// Issue creates a short-lived session for the actor and returns both
// credential forms.
func (s *SessionService) Issue(ctx context.Context, actor string, ttl time.Duration) (*IssuedCredential, error) {
	if ttl <= 0 {
		return nil, apperrors.NewConfigurationError("session ttl must be positive")
	}

	id, err := auth.NewSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := domain.Session{
		ID:        id,
		Actor:     actor,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	issued := &IssuedCredential{Session: session}
	if s.codec.Configured() {
		signed, err := s.codec.Encode(session.ID, actor, session.ExpiresAt)
		if err != nil {
			return nil, err
		}
		issued.SignedToken = signed
	}

	s.auditLog.Append(audit.NewEntry(actor, auditSessionCreate, nil, session.ID, ""))
	return issued, nil
}

// Verify resolves a presented credential to its bound actor. It returns
// (false, "", nil) for the expected negative cases: unknown, expired, or
// revoked credentials and bad signatures. A non-nil error means the store
// itself failed; callers must treat that as a deny.
func (s *SessionService) Verify(ctx context.Context, raw string) (bool, string, error) {
	if raw == "" {
		return false, "", nil
	}

	cred := auth.ParseCredential(raw)

	sessionID := cred.Raw
	if cred.Kind == auth.CredentialSigned {
		claims, err := s.codec.Decode(cred.Raw)
		if err != nil {
			// Bad signature, expired, or no secret configured: all deny.
			return false, "", nil
		}
		sessionID = claims.SessionID
	}

	revoked, err := s.isRevoked(ctx, sessionID)
	if err != nil {
		return false, "", apperrors.NewStoreUnavailable(err)
	}
	if revoked {
		return false, "", nil
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return false, "", apperrors.NewStoreUnavailable(err)
	}
	if session == nil || session.Expired(time.Now()) {
		return false, "", nil
	}
	return true, session.Actor, nil
}

// isRevoked consults the cache first; cache errors fall through to the
// durable store so a cache outage can never turn into an allow.
func (s *SessionService) isRevoked(ctx context.Context, tokenReference string) (bool, error) {
	if s.cache != nil {
		hit, err := s.cache.IsRevoked(ctx, tokenReference)
		if err == nil && hit {
			return true, nil
		}
		if err != nil {
			s.logger.Debug("revocation cache unavailable", zap.Error(err))
		}
	}
	return s.revoked.Exists(ctx, tokenReference)
}

// Revoke invalidates a single credential. The session row is deleted and
// a revocation marker inserted for the referenced id, so an already-issued
// signed token for the same session is rejected even after the row is
// gone. The returned bool reports whether a live session was removed; the
// marker never flips it, so revoking a credential that was never issued
// (or is already gone) reports false and the caller can answer not found.
func (s *SessionService) Revoke(ctx context.Context, raw string, actor, reason string) (bool, error) {
	cred := auth.ParseCredential(raw)

	sessionID := cred.Raw
	if cred.Kind == auth.CredentialSigned {
		if claims, err := s.codec.Decode(cred.Raw); err == nil {
			sessionID = claims.SessionID
		}
		// An undecodable token is still revocable by its raw reference.
	}

	deleted, err := s.sessions.DeleteByID(ctx, sessionID)
	if err != nil {
		return false, apperrors.NewStoreUnavailable(err)
	}
	if !deleted {
		// No marker for unknown references; otherwise every guessed id
		// would grow the revocation set.
		return false, nil
	}

	if _, err := s.markRevoked(ctx, sessionID, actor, reason); err != nil {
		return true, err
	}

	s.auditLog.Append(audit.NewEntry(actor, auditSessionRevoke, sessionID, nil, reason))
	return true, nil
}

// RevokeAllForActor deletes every session for the actor, marking each
// deleted id revoked so outstanding signed tokens fail verification too.
// Returns the number of session rows removed.
func (s *SessionService) RevokeAllForActor(ctx context.Context, actor, requestedBy, reason string) (int, error) {
	ids, err := s.sessions.DeleteByActor(ctx, actor)
	if err != nil {
		return 0, apperrors.NewStoreUnavailable(err)
	}

	for _, id := range ids {
		if _, err := s.markRevoked(ctx, id, actor, reason); err != nil {
			return len(ids), err
		}
	}

	if len(ids) > 0 {
		s.auditLog.Append(audit.NewEntry(requestedBy, auditSessionRevokeAll, actor, len(ids), reason))
	}
	return len(ids), nil
}

func (s *SessionService) markRevoked(ctx context.Context, tokenReference, actor, reason string) (bool, error) {
	added, err := s.revoked.Create(ctx, &domain.RevokedToken{
		TokenReference: tokenReference,
		Actor:          actor,
		Reason:         reason,
		RevokedAt:      time.Now(),
	})
	if err != nil {
		return false, apperrors.NewStoreUnavailable(err)
	}
	if s.cache != nil {
		if err := s.cache.MarkRevoked(ctx, tokenReference, s.retention); err != nil {
			s.logger.Debug("revocation cache mark failed", zap.Error(err))
		}
	}
	return added, nil
}

// ExpireSessions removes sessions past their expiry. Run periodically by
// the background sweeper; safe to invoke synchronously in tests.
func (s *SessionService) ExpireSessions(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, apperrors.NewStoreUnavailable(err)
	}
	if removed > 0 {
		s.auditLog.Append(audit.NewEntry("system", auditSessionCleanup, nil, removed, "expired sessions removed"))
	}
	return removed, nil
}

// PruneRevocations drops revocation markers older than the retention
// window so the revocation set does not grow unbounded. Any signed token
// old enough to reference a pruned marker is already past its expiry.
func (s *SessionService) PruneRevocations(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.revoked.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.NewStoreUnavailable(err)
	}
	if removed > 0 {
		s.auditLog.Append(audit.NewEntry("system", auditRevocationPrune, nil, removed, "retention window "+strconv.Itoa(int(s.retention/(24*time.Hour)))+"d"))
	}
	return removed, nil
}

// ListActive returns live sessions for the admin control plane.
func (s *SessionService) ListActive(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.sessions.ListActive(ctx, time.Now())
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return sessions, nil
}

// Counts reports active session and revoked token totals for metrics.
func (s *SessionService) Counts(ctx context.Context) (active, revoked int, err error) {
	active, err = s.sessions.CountActive(ctx, time.Now())
	if err != nil {
		return 0, 0, apperrors.NewStoreUnavailable(err)
	}
	revoked, err = s.revoked.Count(ctx)
	if err != nil {
		return 0, 0, apperrors.NewStoreUnavailable(err)
	}
	return active, revoked, nil
}
