package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues HS256-signed tokens for one token use (access or
// refresh) with its own secret and lifetime.
type Signer struct {
	secret []byte
	use    string
	issuer string
	ttl    time.Duration
}

// NewSigner validates the secret and TTL up front so misconfiguration
// fails at startup rather than on the first login.
func NewSigner(secret []byte, use string, ttl time.Duration, issuer string) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	if use != UseAccess && use != UseRefresh {
		return nil, errors.New("jwtx: unknown token use " + use)
	}
	if ttl <= 0 {
		return nil, errors.New("jwtx: token ttl must be positive")
	}

	return &Signer{
		secret: secret,
		use:    use,
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// Issue signs a token for the subject carrying its permission set.
// The returned claims are what went into the token.
func (s *Signer) Issue(subject string, permissions []string, now time.Time) (string, Claims, error) {
	claims := NewClaims(subject, permissions, s.use, s.ttl, s.issuer, now)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", Claims{}, err
	}

	return signed, claims, nil
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }
