package http

import (
	"net/http"

	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
)

type ResetPasswordHandler struct {
	AuthService *service.AuthService
}

type resetPasswordRequest struct {
	SecretKey   string `json:"secretKey"` // raw reset token from the emailed link
	NewPassword string `json:"newPassword"`
}

// ServeHTTP handles POST /api/auth/reset-password. Redeems a single-use
// reset ticket. No authentication: possession of the emailed token is
// the credential.
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SecretKey == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput,
			"Reset token and new password are required")
		return
	}

	if err := h.AuthService.ResetPassword(ctx, req.SecretKey, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Password reset successfully", nil)
}
