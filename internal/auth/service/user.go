package service

import (
	"context"
	"errors"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
	"github.com/laptrinhthatde/apishop/internal/auth/store"
)

// UserService covers the self-service user operations that sit next to
// the credential workflows.
type UserService struct {
	Store store.Store
}

// GetUserWithRole fetches a user joined with its role.
func (s *UserService) GetUserWithRole(ctx context.Context, userID string) (domain.User, domain.Role, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Role{}, mapStoreNotFound(err, ErrNotFound)
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return domain.User{}, domain.Role{}, mapCollaboratorErr(err)
	}

	return user, role, nil
}

// UpdateSelf applies a patch to the caller's own record and returns the
// updated user joined with its role. Email and status are reserved
// fields: changing them needs the elevated permission (isPermission),
// and a target that itself holds the elevated permission is shielded
// from having them changed at all. Both guards run, and stop the
// workflow, before anything is written.
func (s *UserService) UpdateSelf(
	ctx context.Context,
	userID string,
	patch domain.UserPatch,
	isPermission bool,
) (domain.User, domain.Role, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Role{}, mapStoreNotFound(err, ErrNotFound)
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return domain.User{}, domain.Role{}, mapCollaboratorErr(err)
	}

	if patch.TouchesProtectedFields(user) {
		if !isPermission {
			return domain.User{}, domain.Role{}, ErrForbidden
		}
		if role.IsAdmin() {
			return domain.User{}, domain.Role{}, ErrUnauthorized
		}
	}

	if err := s.Store.Users().UpdateUser(ctx, userID, patch); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.Role{}, ErrDuplicateValue
		}
		return domain.User{}, domain.Role{}, mapCollaboratorErr(err)
	}

	updated, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Role{}, mapCollaboratorErr(err)
	}
	return updated, role, nil
}
