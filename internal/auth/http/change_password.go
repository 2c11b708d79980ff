package http

import (
	"net/http"

	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

type ChangePasswordHandler struct {
	AuthService  *service.AuthService
	SecureCookie bool
}

type changePasswordRequest struct {
	// UserID is accepted for wire compatibility but never trusted: the
	// authenticated token subject decides whose password changes.
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeHTTP handles POST /api/auth/change-password. On success the
// presented access token is revoked and the refresh cookie cleared, so
// the caller must log in again with the new password.
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput,
			"Current and new password are required")
		return
	}

	userID := httpx.UserIDFromCtx(ctx)
	accessToken := httpx.AccessTokenFromCtx(ctx)

	if err := h.AuthService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword, accessToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("password changed", "user_id", userID)
	clearRefreshCookie(w, h.SecureCookie)

	httpx.WriteSuccess(w, http.StatusOK, "Password changed successfully, please log in again", nil)
}
