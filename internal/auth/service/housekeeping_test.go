package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laptrinhthatde/apishop/pkg/cryptox"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "heidi@example.com", "pass-word1", nil)

	bl := NewBlacklist()
	bl.Revoke("stale", time.Now().Add(-time.Minute))
	bl.Revoke("fresh", time.Now().Add(time.Hour))

	// An expired reset ticket that should get swept.
	require.NoError(t, st.Users().SetResetTicket(ctx, user.ID,
		cryptox.FingerprintToken("old-token"), time.Now().Add(-time.Minute)))

	hk := NewHousekeepingService(st, bl, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.cleanup()

	require.Equal(t, 1, bl.Len())
	require.True(t, bl.IsRevoked("fresh"))

	swept, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, swept.ResetTokenHash)
	require.Nil(t, swept.ResetExpiresAt)
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)
	hk := NewHousekeepingService(st, NewBlacklist(), slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond)

	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop() // blocks until the worker exits
}
