package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often station data is refreshed when no interval is configured.
const DefaultInterval = 60 * time.Second

// ErrStopped is returned by fetches attempted after Stop.
var ErrStopped = errors.New("poller: stopped")

// FetchFunc loads one snapshot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// ApplyFunc receives snapshots that won the sequence check.
type ApplyFunc[T any] func(T)

type settings struct {
	interval time.Duration
	logger   *zap.Logger
}

// Option configures a Poller.
type Option func(*settings)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Poller fetches immediately, then on every tick until stopped. Responses are applied in
// sequence order only; a slow poll that returns after a newer refresh is dropped, and so is
// anything that arrives after Stop.
type Poller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	apply    ApplyFunc[T]
	interval time.Duration
	logger   *zap.Logger
	seq      *Sequencer

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New builds a poller. name only shows up in logs.
func New[T any](name string, fetch FetchFunc[T], apply ApplyFunc[T], opts ...Option) *Poller[T] {
	s := settings{interval: DefaultInterval, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		apply:    apply,
		interval: s.interval,
		logger:   s.logger.With(zap.String("poller", name)),
		seq:      NewSequencer(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called.
func (p *Poller[T]) Run(ctx context.Context) {
	defer close(p.done)
	defer p.Stop()

	if !p.seq.Live() {
		return
	}
	_, _ = p.PollOnce(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-timer.C:
			_, _ = p.PollOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

// PollOnce performs one sequenced fetch. It reports whether the result was applied.
// Errors are logged and leave the last applied state untouched.
func (p *Poller[T]) PollOnce(ctx context.Context) (bool, error) {
	if !p.seq.Live() {
		return false, ErrStopped
	}
	n := p.seq.Begin()

	value, err := p.fetch(ctx)
	if err != nil {
		if p.seq.Live() && ctx.Err() == nil {
			p.logger.Warn("poll failed, keeping last state", zap.Uint64("seq", n), zap.Error(err))
		}
		return false, err
	}

	applied := p.seq.Commit(n, func() { p.apply(value) })
	if !applied {
		p.logger.Debug("discarding stale poll response", zap.Uint64("seq", n))
	}
	return applied, nil
}

// Refresh is an out-of-band fetch triggered by the user. It races with ticks and wins over any
// poll that started before it.
func (p *Poller[T]) Refresh(ctx context.Context) (bool, error) {
	return p.PollOnce(ctx)
}

// Stop ends Run and discards every response still in flight. Safe to call more than once.
func (p *Poller[T]) Stop() {
	p.stopOnce.Do(func() {
		p.seq.Stop()
		close(p.stop)
	})
}

// Done is closed once Run has returned.
func (p *Poller[T]) Done() <-chan struct{} {
	return p.done
}

// Interval returns the tick period.
func (p *Poller[T]) Interval() time.Duration {
	return p.interval
}
