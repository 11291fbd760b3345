package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when a signed-token operation is attempted
// without a configured signing secret. Verification treats this as a deny;
// issuance surfaces it to the operator as a configuration defect.
var ErrNoSecret = errors.New("signing secret not configured")

// ErrInvalidToken covers any signed token that fails signature, structure,
// or expiry checks. It is the expected negative case, not a server error.
var ErrInvalidToken = errors.New("invalid signed token")

// TokenCodec encodes and decodes self-contained signed admin tokens. It is
// a pure function of the process-wide secret: no storage, no revocation
// knowledge. The wire format is three base64url segments joined by '.'
// with an HMAC-SHA256 signature over the first two.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec from the signing secret. An empty secret
// yields a codec that fails closed on every operation.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Configured reports whether a signing secret is present.
func (c *TokenCodec) Configured() bool {
	return len(c.secret) > 0
}

// TokenClaims is the signed token payload: the session it references, the
// actor it was issued to, and its embedded expiry.
type TokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Actor returns the actor the token was issued to.
func (tc *TokenClaims) Actor() string {
	return tc.Subject
}

// Encode signs a token embedding the session id, actor, and expiry.
func (c *TokenCodec) Encode(sessionID, actor string, expiresAt time.Time) (string, error) {
	if !c.Configured() {
		return "", ErrNoSecret
	}

	claims := &TokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode validates the signature and embedded expiry and returns the
// claims. It fails closed when no secret is configured. Decode never
// consults storage; liveness and revocation are the session manager's job.
func (c *TokenCodec) Decode(tokenStr string) (*TokenClaims, error) {
	if !c.Configured() {
		return nil, ErrNoSecret
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
