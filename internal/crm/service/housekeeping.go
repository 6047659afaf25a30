package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/store"
)

const defaultHousekeepingInterval = time.Hour

// HousekeepingService sweeps expired refresh tokens on a fixed interval.
// Revoked tokens are kept until they expire so a replay can still be
// recognised and revoke its session.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = defaultHousekeepingInterval
	}
	return &HousekeepingService{Store: st, Logger: logger, Interval: interval}
}

// Start sweeps once and then on every tick until Stop.
func (s *HousekeepingService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			_ = s.Sweep(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	s.Logger.Info("housekeeping started", slog.Duration("interval", s.Interval))
}

// Stop waits for a running sweep to finish. It is a no-op before Start.
func (s *HousekeepingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.Logger.Info("housekeeping stopped")
}

// Sweep deletes expired refresh tokens once.
func (s *HousekeepingService) Sweep(ctx context.Context) error {
	start := time.Now()
	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		if ctx.Err() == nil {
			s.Logger.Error("refresh token sweep failed", slog.Any("error", err))
		}
		return err
	}
	s.Logger.Debug("refresh token sweep done", slog.Duration("took", time.Since(start)))
	return nil
}
