package http

import (
	"net/http"
	"time"

	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

type LoginHandler struct {
	AuthService  *service.AuthService
	RefreshTTL   time.Duration
	SecureCookie bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse puts both tokens at the top level, next to the envelope
// fields, with the user profile in data. Clients depend on this exact
// layout.
type loginResponse struct {
	httpx.Envelope
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ServeHTTP handles POST /api/auth/login. A successful login returns
// both tokens alongside the envelope and mirrors the refresh token into
// an HttpOnly cookie for browser clients.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput,
			"Email and password are required")
		return
	}

	result, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user logged in", "user_id", result.User.ID)

	setRefreshCookie(w, result.Tokens.RefreshToken, h.RefreshTTL, h.SecureCookie)

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Envelope: httpx.Envelope{
			Status:  "Success",
			Message: "Logged in successfully",
			Data:    newUserView(result.User, result.Role),
		},
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
}
