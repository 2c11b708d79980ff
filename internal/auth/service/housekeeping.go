package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/laptrinhthatde/apishop/internal/auth/store"
)

// HousekeepingService periodically prunes expired blacklist entries and
// clears expired reset tickets so neither grows without bound.
type HousekeepingService struct {
	Store     store.Store
	Blacklist *Blacklist
	Logger    *slog.Logger
	Interval  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. A non-positive interval defaults to 1 hour.
func NewHousekeepingService(
	st store.Store,
	bl *Blacklist,
	logger *slog.Logger,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Blacklist: bl,
		Logger:    logger,
		Interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the worker, blocking until any in-progress
// cleanup finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs one pass. Failures in one task don't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now()

	pruned := s.Blacklist.Prune(now)

	if err := s.Store.Users().ClearExpiredResetTickets(ctx, now); err != nil {
		s.Logger.Error("failed to clear expired reset tickets", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"blacklist_pruned", pruned,
		"blacklist_size", s.Blacklist.Len(),
	)
}
