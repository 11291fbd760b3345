package dto

import "time"

// LoginRequest is the login exchange payload: pre-shared master secret
// plus the requested actor name and TTL.
type LoginRequest struct {
	MasterSecret string `json:"master_secret"`
	Actor        string `json:"actor"`
	TTLSeconds   int    `json:"ttl_seconds"`
}

// SessionResponse returns both credential forms; the signed token is
// empty when no signing secret is configured.
type SessionResponse struct {
	SessionID   string    `json:"session_id"`
	SignedToken string    `json:"signed_token,omitempty"`
	Actor       string    `json:"actor"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionInfo describes one active session.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	Actor     string    `json:"actor"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RevokeRequest names a credential to revoke.
type RevokeRequest struct {
	Credential string `json:"credential"`
	Reason     string `json:"reason,omitempty"`
}

// RoleAssignRequest creates or updates a role assignment.
type RoleAssignRequest struct {
	Actor string `json:"actor"`
	Role  string `json:"role"`
}

// RoleResponse describes one assignment.
type RoleResponse struct {
	Actor     string    `json:"actor"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricsResponse reports control-plane counters.
type MetricsResponse struct {
	ActiveSessions int   `json:"active_sessions"`
	RevokedTokens  int   `json:"revoked_tokens"`
	AuditDropped   int64 `json:"audit_dropped"`
}
