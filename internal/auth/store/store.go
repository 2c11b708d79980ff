package store

import (
	"context"
	"errors"
	"time"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep
// concerns tidy and testable. All methods are potentially blocking I/O;
// callers must not hold in-process locks across them.
type Store interface {
	Users() Users
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn
	// returns an error and committing otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and forgot-password.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByResetTokenHash returns the user holding a reset ticket
	// with this fingerprint whose expiry is still after now. Expired or
	// unknown tickets report ErrNotFound.
	GetUserByResetTokenHash(ctx context.Context, hash string, now time.Time) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies the non-nil patch fields and bumps updated_at.
	UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetResetTicket stores the reset token fingerprint and expiry,
	// overwriting any outstanding ticket.
	SetResetTicket(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error

	// ClearResetTicket nulls both reset ticket fields.
	ClearResetTicket(ctx context.Context, userID string) error

	// ClearExpiredResetTickets nulls ticket fields whose expiry has
	// passed. Housekeeping.
	ClearExpiredResetTickets(ctx context.Context, now time.Time) error
}

type Roles interface {
	// GetRoleByID fetches a role by its ID. Login joins this to embed
	// permissions into token claims.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its unique name.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListAll returns all roles in the system.
	ListAll(ctx context.Context) ([]domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error
}
