package domain

import "time"

// Session is a server-tracked admin credential. The ID is an unguessable
// random string; the row is the single source of truth for liveness.
type Session struct {
	ID        string
	Actor     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// RevokedToken permanently invalidates a credential reference, independent
// of whether the matching session row still exists.
type RevokedToken struct {
	TokenReference string
	Actor          string
	Reason         string
	RevokedAt      time.Time
}
