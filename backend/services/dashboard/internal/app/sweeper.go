package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type expiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// sweeper removes expired rows from the Postgres session table; Redis and memory stores expire
// entries themselves.
type sweeper struct {
	store  expiredDeleter
	every  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func newSweeper(store expiredDeleter, every time.Duration, logger *zap.Logger) *sweeper {
	if every <= 0 {
		every = 10 * time.Minute
	}
	return &sweeper{store: store, every: every, now: time.Now, logger: logger}
}

func (s *sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Warn("session sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", zap.Int64("count", n))
	}
}
