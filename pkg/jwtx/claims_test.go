package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/laptrinhthatde/apishop/pkg/jwtx"
)

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.NoError(t, claims.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrNotYetValid)
	})
}

func TestNewClaims(t *testing.T) {
	now := time.Now()
	c := jwtx.NewClaims("user-9", []string{"admin:all"}, jwtx.UseAccess, 15*time.Minute, "apishop", now)

	require.Equal(t, "user-9", c.Subject)
	require.Equal(t, "apishop", c.Issuer)
	require.Equal(t, jwtx.UseAccess, c.Use)
	require.NotEmpty(t, c.ID)
	require.WithinDuration(t, now.Add(15*time.Minute), c.ExpiresAt.Time, time.Second)

	t.Run("jti is unique per issue", func(t *testing.T) {
		c2 := jwtx.NewClaims("user-9", nil, jwtx.UseAccess, time.Minute, "apishop", now)
		require.NotEqual(t, c.ID, c2.ID)
	})
}
