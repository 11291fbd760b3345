package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/assistant-backend/internal/config"
)

// MasterSecretChecker verifies the pre-shared break-glass secret. It is
// the only credential check that bypasses the session manager; presenting
// the master secret satisfies any role requirement.
type MasterSecretChecker struct {
	plain string
	hash  string
}

// NewMasterSecretChecker builds a checker from admin configuration. When a
// bcrypt hash is configured it takes precedence over the plaintext secret.
func NewMasterSecretChecker(cfg config.AdminConfig) *MasterSecretChecker {
	return &MasterSecretChecker{plain: cfg.MasterSecret, hash: cfg.MasterSecretHash}
}

// Configured reports whether any master secret is set. With none set the
// break-glass path and the login exchange are both disabled.
func (m *MasterSecretChecker) Configured() bool {
	return m.plain != "" || m.hash != ""
}

// Check verifies a presented secret in constant time.
func (m *MasterSecretChecker) Check(presented string) bool {
	if presented == "" || !m.Configured() {
		return false
	}
	if m.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(m.hash), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(m.plain), []byte(presented)) == 1
}
