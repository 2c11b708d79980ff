package http

import (
	"net/http"

	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
)

type LogoutHandler struct {
	AuthService  *service.AuthService
	SecureCookie bool
}

// ServeHTTP handles POST /api/auth/logout. Revokes the presented access
// token and clears the refresh cookie. Idempotent: logging out twice
// succeeds both times.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.AuthService.Logout(ctx, httpx.AccessTokenFromCtx(ctx))
	clearRefreshCookie(w, h.SecureCookie)

	httpx.WriteSuccess(w, http.StatusOK, "Logged out successfully", nil)
}
