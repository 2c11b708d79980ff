package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laptrinhthatde/apishop/pkg/httpx"
	"github.com/laptrinhthatde/apishop/pkg/jwtx"
)

const testSecret = "middleware-test-secret"

func newTestToken(t *testing.T, permissions []string) string {
	t.Helper()

	signer, err := jwtx.NewSigner([]byte(testSecret), jwtx.UseAccess, 15*time.Minute, "apishop")
	require.NoError(t, err)

	raw, _, err := signer.Issue("user-42", permissions, time.Now())
	require.NoError(t, err)
	return raw
}

func testVerifier() *jwtx.Verifier {
	return jwtx.NewVerifier([]byte(testSecret), jwtx.UseAccess, "apishop")
}

type stubRevoker struct {
	revoked map[string]bool
}

func (s *stubRevoker) IsRevoked(token string) bool { return s.revoked[token] }

func TestChainOrdering(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("first"), tag("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	rev := &stubRevoker{revoked: map[string]bool{}}

	var gotUserID, gotToken string
	var gotPermissions []string
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFromCtx(r.Context())
		gotPermissions = httpx.PermissionsFromCtx(r.Context())
		gotToken = httpx.AccessTokenFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}), httpx.AuthnMiddleware(testVerifier(), rev))

	t.Run("valid token passes and populates context", func(t *testing.T) {
		token := newTestToken(t, []string{"admin:all"})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-42", gotUserID)
		require.Equal(t, []string{"admin:all"}, gotPermissions)
		require.Equal(t, token, gotToken)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

		var env httpx.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, "Error", env.Status)
		require.Equal(t, httpx.TypeUnauthorized, env.TypeError)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token rejected even though signature is valid", func(t *testing.T) {
		token := newTestToken(t, nil)
		rev.revoked[token] = true

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}),
		httpx.AuthnMiddleware(testVerifier(), nil),
		httpx.RequirePermission("admin:all"),
	)

	t.Run("allows holder", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, []string{"admin:all"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("denies non-holder", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, []string{"profile:read"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("denies empty permission set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+newTestToken(t, nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
