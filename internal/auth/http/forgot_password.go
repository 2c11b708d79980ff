package http

import (
	"net/http"

	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
)

type ForgotPasswordHandler struct {
	AuthService *service.AuthService
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ServeHTTP handles POST /api/auth/forgot-password. Issues a reset
// ticket for the account matching the supplied email and mails the
// reset link.
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput,
			"Email is required")
		return
	}

	if err := h.AuthService.ForgotPassword(ctx, req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Password reset email sent", nil)
}
