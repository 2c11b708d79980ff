package http

import (
	"net/http"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/pkg/httpx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

type updateMeRequest struct {
	Email    *string `json:"email"`
	Status   *string `json:"status"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// HandleGet handles GET /api/auth/me, returning the authenticated
// user's profile joined with its role.
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, role, err := h.UserService.GetUserWithRole(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "OK", newUserView(user, role))
}

// HandlePatch handles PATCH /api/auth/me. Email and status changes need
// the elevated permission; the service enforces both guards before
// anything is written.
func (h *MeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req updateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == nil && req.Status == nil && req.FullName == nil && req.Phone == nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput,
			"No fields to update")
		return
	}
	if req.Status != nil && *req.Status != domain.StatusActive && *req.Status != domain.StatusDisabled {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeInvalidInput,
			"Status must be active or disabled")
		return
	}

	userID := httpx.UserIDFromCtx(ctx)

	isPermission := false
	for _, p := range httpx.PermissionsFromCtx(ctx) {
		if p == domain.PermissionAdmin {
			isPermission = true
			break
		}
	}

	patch := domain.UserPatch{
		Email:    req.Email,
		Status:   req.Status,
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	updated, role, err := h.UserService.UpdateSelf(ctx, userID, patch, isPermission)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user updated", "user_id", userID)
	httpx.WriteSuccess(w, http.StatusOK, "Profile updated", newUserView(updated, role))
}
