package httpx

import (
	"net/http"
	"strings"
)

// RequirePermission the caller's token must carry the named permission.
// Denials are 401 rather than 403: the token identifies the caller fine,
// but clients treat a permission miss as "re-authenticate".
func RequirePermission(required string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range PermissionsFromCtx(r.Context()) {
				if p == required {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeBearerPermissionError(w, required)
		})
	}
}

// RequireAnyPermission the caller must have at least one of the listed
// permissions.
func RequireAnyPermission(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, p := range required {
		want[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range PermissionsFromCtx(r.Context()) {
				if _, ok := want[p]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeBearerPermissionError(w, required...)
		})
	}
}

// RFC 6750-compliant error response for bearer insufficient_scope.
func writeBearerPermissionError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteError(w, http.StatusUnauthorized, TypeUnauthorized, "You do not have permission to perform this action")
}
