package domain

import "time"

// User account status values.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

type User struct {
	ID           string
	Email        string // unique login identifier
	PasswordHash string // argon2 encoded
	FullName     string
	Phone        string
	Status       string // active or disabled
	RoleID       string // Foreign key to roles table

	// Reset ticket fields. At most one active ticket per user; both are
	// nil when no ticket is outstanding.
	ResetTokenHash *string    // SHA-256 fingerprint of the reset token
	ResetExpiresAt *time.Time // instant the ticket stops being redeemable

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch carries the mutable fields of a self-update. Nil means
// "leave unchanged".
type UserPatch struct {
	Email    *string
	Status   *string
	FullName *string
	Phone    *string
}

// TouchesProtectedFields reports whether the patch would change the
// user's email or status, the two fields reserved to elevated callers.
func (p UserPatch) TouchesProtectedFields(u User) bool {
	if p.Email != nil && *p.Email != u.Email {
		return true
	}
	if p.Status != nil && *p.Status != u.Status {
		return true
	}
	return false
}
