package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/metrics"
)

// TokenSweeper clears expired refresh tokens. *AuthService satisfies it.
type TokenSweeper interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// HousekeepingService periodically clears expired refresh tokens so stale
// fingerprints do not linger on user rows.
type HousekeepingService struct {
	Sweeper  TokenSweeper
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration

	// RunTimeout bounds a single sweep.
	RunTimeout time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService returns a service that sweeps every interval.
// A non-positive interval means one hour.
func NewHousekeepingService(
	sweeper TokenSweeper,
	logger *slog.Logger,
	m *metrics.Metrics,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Sweeper:    sweeper,
		Logger:     logger,
		Metrics:    m,
		Interval:   interval,
		RunTimeout: time.Minute,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per tick, in the
// background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop signals the worker and waits for any in-progress sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single sweep.
func (s *HousekeepingService) RunOnce() {
	timeout := s.RunTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := s.Sweeper.CleanupExpiredTokens(ctx)
	if err != nil {
		s.Metrics.HousekeepingRun(metrics.ResultError)
		s.Logger.Error("failed to clear expired refresh tokens", "error", err)
		return
	}
	s.Metrics.HousekeepingRun(metrics.ResultSuccess)
	s.Logger.Info("housekeeping cleanup completed", slog.Int64("refresh_tokens_cleared", n))
}
