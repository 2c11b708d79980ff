package service

import (
	"context"
	"errors"

	"github.com/laptrinhthatde/apishop/internal/auth/store"
)

// Workflow outcomes. Handlers compare with errors.Is and map each to an
// HTTP status plus the response envelope's typeError string.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicateValue     = errors.New("duplicate_value")
	ErrInvalidResetToken  = errors.New("invalid_or_expired_reset_token")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrUnavailable        = errors.New("unavailable")
)

// mapCollaboratorErr turns timeouts and cancellations from the store or
// mailer into a retryable Unavailable outcome instead of leaking raw
// context errors across the boundary seam.
func mapCollaboratorErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrUnavailable
	}
	return err
}

// mapStoreNotFound converts the store's sentinel into the workflow's.
func mapStoreNotFound(err error, to error) error {
	if errors.Is(err, store.ErrNotFound) {
		return to
	}
	return mapCollaboratorErr(err)
}
