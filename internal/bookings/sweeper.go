package bookings

import (
	"context"
	"sync"
	"time"

	"tiketku/pkg/logger"
)

// LotJanitor flags point lots whose expiry window has passed. Optional;
// wired from the rewards feature so both sweeps share one loop.
type LotJanitor interface {
	MarkExpiredLots(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically expires overdue bookings so seats and discounts held
// by abandoned checkouts flow back into availability.
type Sweeper struct {
	service  Service
	janitor  LotJanitor
	interval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewSweeper(service Service, janitor LotJanitor, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  service,
		janitor:  janitor,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. One pass runs immediately so a restart
// catches up on bookings that went overdue while the process was down.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		logger.GetDefault().Info("booking sweeper started", "interval", s.interval.String())
		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	logger.GetDefault().Info("booking sweeper stopped")
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()

	expired, err := s.service.ExpireOverdue(ctx, now)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "booking sweep failed", err, nil)
	} else if expired > 0 {
		logger.GetDefault().Info("expired overdue bookings", "count", expired)
	}

	if s.janitor == nil {
		return
	}
	flagged, err := s.janitor.MarkExpiredLots(ctx, now)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "point lot sweep failed", err, nil)
	} else if flagged > 0 {
		logger.GetDefault().Info("flagged expired point lots", "count", flagged)
	}
}
