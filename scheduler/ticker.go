package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TickerScheduler runs the sweep from an in-process ticker.
// Run it on a single instance only; River covers multi-instance deployments.
type TickerScheduler struct {
	confirmer AutoConfirmer
	interval  time.Duration
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTickerScheduler(confirmer AutoConfirmer, interval time.Duration, logger *slog.Logger) *TickerScheduler {
	return &TickerScheduler{
		confirmer: confirmer,
		interval:  interval,
		logger:    logger.With(slog.String("component", "ticker_scheduler")),
	}
}

func (s *TickerScheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.logger.Info("auto-confirm scheduler started", slog.Duration("interval", s.interval))

		// первый прогон сразу при старте
		s.runOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
	return nil
}

func (s *TickerScheduler) runOnce(ctx context.Context) {
	if _, err := s.confirmer.AutoConfirmDue(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("scheduler: auto-confirm run failed", slog.Any("error", err))
	}
}

func (s *TickerScheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("auto-confirm scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
