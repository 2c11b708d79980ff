package service

import (
	"sync"
	"time"

	"github.com/laptrinhthatde/apishop/pkg/cryptox"
)

// Blacklist is the in-process revocation registry. Logout and password
// changes insert the presented access token; the authn middleware
// consults it on every request before trusting claims. Entries are
// keyed by token fingerprint and carry the token's own expiry, so the
// registry stays a short-lived deny-list rather than permanent storage.
//
// The registry is owned by the application instance and injected where
// needed. It does not survive a restart; a revoked token becomes usable
// again until its natural expiry if the process restarts.
type Blacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time // fingerprint -> token expiry
}

func NewBlacklist() *Blacklist {
	return &Blacklist{entries: make(map[string]time.Time)}
}

// Revoke inserts the token. Revoking an already-revoked token is not an
// error; the later expiry wins so the entry never outlives the token.
func (b *Blacklist) Revoke(token string, expiresAt time.Time) {
	fp := cryptox.FingerprintToken(token)

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.entries[fp]; !ok || expiresAt.After(existing) {
		b.entries[fp] = expiresAt
	}
}

// IsRevoked reports whether the token has been revoked and is still
// inside its natural lifetime. Once the token's own expiry passes the
// signature check rejects it anyway, so the entry no longer matters.
func (b *Blacklist) IsRevoked(token string) bool {
	fp := cryptox.FingerprintToken(token)

	b.mu.RLock()
	defer b.mu.RUnlock()

	expiresAt, ok := b.entries[fp]
	return ok && time.Now().Before(expiresAt)
}

// Prune drops entries whose token expiry has passed and returns how
// many were removed. Called periodically by the housekeeping worker.
func (b *Blacklist) Prune(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for fp, expiresAt := range b.entries {
		if !now.Before(expiresAt) {
			delete(b.entries, fp)
			removed++
		}
	}
	return removed
}

// Len returns the current number of entries.
func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
