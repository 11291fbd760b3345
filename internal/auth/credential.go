package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// CredentialKind tags the two coexisting credential shapes.
type CredentialKind int

const (
	// CredentialOpaque is a server-tracked session id, meaningless
	// without a store lookup.
	CredentialOpaque CredentialKind = iota
	// CredentialSigned is a self-contained three-segment signed token.
	CredentialSigned
)

// Credential is the tagged variant resolved once at the access gate
// boundary, so downstream logic branches on an explicit kind instead of
// re-sniffing string shape.
type Credential struct {
	Kind CredentialKind
	// Raw holds the credential exactly as presented.
	Raw string
}

// ParseCredential classifies a presented credential. A signed token has
// two separator dots joining three segments; anything else is treated as
// an opaque session id.
func ParseCredential(raw string) Credential {
	if strings.Count(raw, ".") == 2 {
		return Credential{Kind: CredentialSigned, Raw: raw}
	}
	return Credential{Kind: CredentialOpaque, Raw: raw}
}

// NewSessionID generates a cryptographically random, unguessable session
// id. 32 bytes of entropy, base64url without padding.
func NewSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
