package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/laptrinhthatde/apishop/pkg/jwtx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (jwtx.Claims, error)
}

// RevocationChecker reports whether a token has been revoked. Checked
// after signature verification but before any claim is trusted.
type RevocationChecker interface {
	IsRevoked(token string) bool
}

// AuthnMiddleware authenticates requests via a Bearer access token. A
// revoked token fails authentication even when its signature and expiry
// are otherwise valid.
func AuthnMiddleware(v TokenVerifier, rev RevocationChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				writeBearerError(w, "token expired")
				return
			}

			if rev != nil && rev.IsRevoked(raw) {
				writeBearerError(w, "token revoked")
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims, raw string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyPermissions, c.Permissions)
	ctx = context.WithValue(ctx, CtxKeyAccessToken, raw)
	return ctx
}

// RFC 6750-compliant error response for bearer auth, carried in the
// standard error envelope.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, TypeUnauthorized, desc)
}
