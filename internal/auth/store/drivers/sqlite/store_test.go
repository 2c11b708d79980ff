package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
	"github.com/laptrinhthatde/apishop/internal/auth/store"
	"github.com/laptrinhthatde/apishop/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedRole(t *testing.T, st *Store, permissions ...string) domain.Role {
	t.Helper()
	role := domain.Role{
		ID:          idx.New().String(),
		Name:        "role-" + idx.New().String(),
		Permissions: permissions,
	}
	require.NoError(t, st.Roles().CreateRole(context.Background(), role))
	return role
}

func seedUser(t *testing.T, st *Store, email string, roleID string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		FullName:     "Seed User",
		Status:       domain.StatusActive,
		RoleID:       roleID,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	role := seedRole(t, st, "profile:read")

	t.Run("create and fetch by id and email", func(t *testing.T) {
		u := seedUser(t, st, "ivan@example.com", role.ID)

		byID, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "ivan@example.com", byID.Email)
		require.Equal(t, domain.StatusActive, byID.Status)
		require.Nil(t, byID.ResetTokenHash)
		require.False(t, byID.CreatedAt.IsZero())

		byEmail, err := st.Users().GetUserByEmail(ctx, "ivan@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("missing user reports ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email reports ErrAlreadyExists", func(t *testing.T) {
		dup := domain.User{
			ID:           idx.New().String(),
			Email:        "ivan@example.com",
			PasswordHash: "x",
			RoleID:       role.ID,
		}
		err := st.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown role is a constraint violation", func(t *testing.T) {
		u := domain.User{
			ID:           idx.New().String(),
			Email:        "orphan@example.com",
			PasswordHash: "x",
			RoleID:       "no-such-role",
		}
		require.Error(t, st.Users().CreateUser(ctx, u))
	})

	t.Run("patch updates only the named fields", func(t *testing.T) {
		u := seedUser(t, st, "judy@example.com", role.ID)

		name := "Judy Jetson"
		require.NoError(t, st.Users().UpdateUser(ctx, u.ID, domain.UserPatch{FullName: &name}))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Judy Jetson", got.FullName)
		require.Equal(t, "judy@example.com", got.Email)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		u := seedUser(t, st, "kim@example.com", role.ID)
		require.NoError(t, st.Users().UpdateUser(ctx, u.ID, domain.UserPatch{}))
	})

	t.Run("update password hash", func(t *testing.T) {
		u := seedUser(t, st, "leo@example.com", role.ID)
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
	})
}

func TestResetTickets(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	role := seedRole(t, st)
	user := seedUser(t, st, "mia@example.com", role.ID)

	now := time.Now()

	t.Run("live ticket is found by hash", func(t *testing.T) {
		require.NoError(t, st.Users().SetResetTicket(ctx, user.ID, "fp-1", now.Add(time.Hour)))

		got, err := st.Users().GetUserByResetTokenHash(ctx, "fp-1", now)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("expired ticket is not found", func(t *testing.T) {
		require.NoError(t, st.Users().SetResetTicket(ctx, user.ID, "fp-2", now.Add(-time.Minute)))

		_, err := st.Users().GetUserByResetTokenHash(ctx, "fp-2", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("clear removes the ticket", func(t *testing.T) {
		require.NoError(t, st.Users().SetResetTicket(ctx, user.ID, "fp-3", now.Add(time.Hour)))
		require.NoError(t, st.Users().ClearResetTicket(ctx, user.ID))

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Nil(t, got.ResetTokenHash)
		require.Nil(t, got.ResetExpiresAt)
	})

	t.Run("sweep clears only expired tickets", func(t *testing.T) {
		other := seedUser(t, st, "nina@example.com", role.ID)
		require.NoError(t, st.Users().SetResetTicket(ctx, user.ID, "fp-live", now.Add(time.Hour)))
		require.NoError(t, st.Users().SetResetTicket(ctx, other.ID, "fp-dead", now.Add(-time.Hour)))

		require.NoError(t, st.Users().ClearExpiredResetTickets(ctx, now))

		kept, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, kept.ResetTokenHash)

		cleared, err := st.Users().GetUserByID(ctx, other.ID)
		require.NoError(t, err)
		require.Nil(t, cleared.ResetTokenHash)
	})
}

func TestRolesRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	t.Run("permissions survive the roundtrip", func(t *testing.T) {
		role := seedRole(t, st, "admin:all", "profile:read")

		got, err := st.Roles().GetRoleByID(ctx, role.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"admin:all", "profile:read"}, got.Permissions)
		require.True(t, got.IsAdmin())

		byName, err := st.Roles().GetRoleByName(ctx, role.Name)
		require.NoError(t, err)
		require.Equal(t, role.ID, byName.ID)
	})

	t.Run("role without admin permission is not admin", func(t *testing.T) {
		role := seedRole(t, st, "profile:read")
		got, err := st.Roles().GetRoleByID(ctx, role.ID)
		require.NoError(t, err)
		require.False(t, got.IsAdmin())
	})

	t.Run("duplicate name reports ErrAlreadyExists", func(t *testing.T) {
		role := seedRole(t, st)
		err := st.Roles().CreateRole(ctx, domain.Role{ID: idx.New().String(), Name: role.Name})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("list returns everything", func(t *testing.T) {
		roles, err := st.Roles().ListAll(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, roles)
	})

	t.Run("missing role reports ErrNotFound", func(t *testing.T) {
		_, err := st.Roles().GetRoleByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	role := seedRole(t, st)
	user := seedUser(t, st, "oscar@example.com", role.ID)

	t.Run("commit persists all writes", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().UpdatePasswordHash(ctx, user.ID, "tx-hash"); err != nil {
				return err
			}
			return tx.Users().ClearResetTicket(ctx, user.ID)
		})
		require.NoError(t, err)

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "tx-hash", got.PasswordHash)
	})

	t.Run("error rolls back every write", func(t *testing.T) {
		wantErr := store.ErrNotFound
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().UpdatePasswordHash(ctx, user.ID, "doomed-hash"); err != nil {
				return err
			}
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "tx-hash", got.PasswordHash)
	})
}
