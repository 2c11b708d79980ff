package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// userView is the sanitized user representation returned by the API.
// Never carries the password hash or reset ticket fields.
type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status"`
	Role     string `json:"role"`
}

func newUserView(u domain.User, r domain.Role) userView {
	return userView{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Status:   u.Status,
		Role:     r.Name,
	}
}

// tokenData carries issued tokens in response envelopes.
type tokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func newTokenData(p domain.TokenPair) tokenData {
	return tokenData{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    int64(p.ExpiresIn.Seconds()),
	}
}

// decodeJSON reads a size-capped JSON body into dst. A false return
// means the error envelope has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput, "Malformed JSON body")
		return false
	}
	return true
}

// writeServiceError maps service sentinel errors onto the wire taxonomy.
// Unknown errors are logged and surface as a generic 500 so internal
// detail never leaks to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeInvalid,
			"Email or password is incorrect")
	case errors.Is(err, service.ErrInvalidResetToken):
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalid,
			"Reset token is invalid or has expired")
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeUnauthorized,
			"Refresh token is invalid or has expired")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.TypeNotFound,
			"Resource not found")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, httpx.TypeForbidden,
			"You do not have permission to perform this action")
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeUnauthorized,
			"You are not allowed to perform this action")
	case errors.Is(err, service.ErrDuplicateValue):
		httpx.WriteError(w, http.StatusConflict, httpx.TypeAlreadyExist,
			"Value already exists")
	case errors.Is(err, service.ErrUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable, httpx.TypeUnavailable,
			"Service temporarily unavailable, please try again")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeInternal,
			"Something went wrong")
	}
}
