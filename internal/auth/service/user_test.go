package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
)

func strPtr(s string) *string { return &s }

func TestGetUserWithRole(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}
	user := seedUser(t, st, "frank@example.com", "pass-word1", []string{"profile:read"})

	t.Run("joins user with role", func(t *testing.T) {
		got, role, err := svc.GetUserWithRole(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.Email, got.Email)
		require.Equal(t, []string{"profile:read"}, role.Permissions)
	})

	t.Run("unknown user reports not found", func(t *testing.T) {
		_, _, err := svc.GetUserWithRole(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateSelf(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := seedUser(t, st, "grace@example.com", "pass-word1", nil)
	admin := seedUser(t, st, "root@example.com", "pass-word1", []string{domain.PermissionAdmin})

	t.Run("plain fields update without elevation", func(t *testing.T) {
		updated, role, err := svc.UpdateSelf(ctx, user.ID, domain.UserPatch{
			FullName: strPtr("Grace Hopper"),
			Phone:    strPtr("555-0100"),
		}, false)
		require.NoError(t, err)
		require.Equal(t, "Grace Hopper", updated.FullName)
		require.Equal(t, "555-0100", updated.Phone)
		require.Equal(t, updated.RoleID, role.ID)
	})

	t.Run("email change without elevation is forbidden", func(t *testing.T) {
		_, _, err := svc.UpdateSelf(ctx, user.ID, domain.UserPatch{
			Email: strPtr("new@example.com"),
		}, false)
		require.ErrorIs(t, err, ErrForbidden)

		// Nothing was written.
		current, getErr := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, getErr)
		require.Equal(t, "grace@example.com", current.Email)
	})

	t.Run("status change without elevation is forbidden", func(t *testing.T) {
		_, _, err := svc.UpdateSelf(ctx, user.ID, domain.UserPatch{
			Status: strPtr(domain.StatusDisabled),
		}, false)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("elevated caller may change protected fields", func(t *testing.T) {
		updated, _, err := svc.UpdateSelf(ctx, user.ID, domain.UserPatch{
			Email: strPtr("grace2@example.com"),
		}, true)
		require.NoError(t, err)
		require.Equal(t, "grace2@example.com", updated.Email)
	})

	t.Run("admin-role target is shielded even from elevated callers", func(t *testing.T) {
		_, _, err := svc.UpdateSelf(ctx, admin.ID, domain.UserPatch{
			Status: strPtr(domain.StatusDisabled),
		}, true)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("setting a protected field to its current value is a no-op, not a violation", func(t *testing.T) {
		updated, _, err := svc.UpdateSelf(ctx, user.ID, domain.UserPatch{
			Email:    strPtr("grace2@example.com"),
			FullName: strPtr("G. Hopper"),
		}, false)
		require.NoError(t, err)
		require.Equal(t, "G. Hopper", updated.FullName)
	})

	t.Run("duplicate email reports conflict", func(t *testing.T) {
		_, _, err := svc.UpdateSelf(ctx, user.ID, domain.UserPatch{
			Email: strPtr("root@example.com"),
		}, true)
		require.ErrorIs(t, err, ErrDuplicateValue)
	})

	t.Run("unknown user reports not found", func(t *testing.T) {
		_, _, err := svc.UpdateSelf(ctx, "missing", domain.UserPatch{FullName: strPtr("x")}, false)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
