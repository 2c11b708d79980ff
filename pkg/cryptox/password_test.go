package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

		require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := HashPassword("secret")
		require.NoError(t, err)

		err = VerifyPassword("not-the-secret", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		h1, err := HashPassword("secret")
		require.NoError(t, err)
		h2, err := HashPassword("secret")
		require.NoError(t, err)

		require.NotEqual(t, h1, h2)
		require.NoError(t, VerifyPassword("secret", h1))
		require.NoError(t, VerifyPassword("secret", h2))
	})

	t.Run("empty password is hashable", func(t *testing.T) {
		hash, err := HashPassword("")
		require.NoError(t, err)
		require.NoError(t, VerifyPassword("", hash))
		require.ErrorIs(t, VerifyPassword("x", hash), ErrPasswordMismatch)
	})

	t.Run("malformed digest rejected", func(t *testing.T) {
		require.Error(t, VerifyPassword("secret", "not-a-hash"))
		require.Error(t, VerifyPassword("secret", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
	})
}
