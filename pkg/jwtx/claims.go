// Package jwtx issues and verifies the signed access and refresh tokens
// carried by authenticated requests. Access and refresh tokens are
// signed with independent HMAC secrets and marked with a token-use
// claim, so one kind can never verify as the other.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token use discriminators embedded in the "use" claim.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Default token lifetimes. Refresh must outlive access.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the identity and permission data embedded in a token.
type Claims struct {
	jwt.RegisteredClaims

	// Permissions granted by the subject's role at issue time. Stale
	// until re-login by design; authorization reads these, not the store.
	Permissions []string `json:"permissions,omitempty"`

	// Use discriminates access from refresh tokens.
	Use string `json:"use"`
}

// NewClaims builds minimally-correct claims for a subject.
func NewClaims(
	subject string,
	permissions []string,
	use string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Permissions: permissions,
		Use:         use,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasPermission reports whether the claims carry the required
// permission. Plain set membership, no hierarchy or wildcards.
func (c *Claims) HasPermission(required string) bool {
	for _, p := range c.Permissions {
		if p == required {
			return true
		}
	}
	return false
}

// ValidateExpiry ensures the token has not expired (exp) and is not
// used before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
