package domain

import "time"

// PermissionAdmin is the elevated permission. Holders may change any
// user's email or status; accounts holding it are shielded from having
// their own email or status changed by others.
const PermissionAdmin = "admin:all"

type Role struct {
	ID          string
	Name        string
	Permissions []string // Parsed from space-delimited storage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin reports whether the role bundles the elevated permission.
func (r Role) IsAdmin() bool {
	for _, p := range r.Permissions {
		if p == PermissionAdmin {
			return true
		}
	}
	return false
}
