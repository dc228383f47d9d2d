package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RefreshScheduler runs at most one recurring timer. Starting a new timer cancels the
// previous one, so a role change never leaves two timers firing for the same owner.
type RefreshScheduler struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	name     string
	interval time.Duration
	log      zerolog.Logger
}

// NewRefreshScheduler creates an idle scheduler.
func NewRefreshScheduler(log zerolog.Logger) *RefreshScheduler {
	return &RefreshScheduler{log: log.With().Str("component", "scheduler").Logger()}
}

// Start arms a recurring timer that calls fire every interval, replacing any timer
// already armed. The first call happens one full interval after Start.
// A non-positive interval only stops the current timer.
func (s *RefreshScheduler) Start(name string, interval time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if interval <= 0 || fire == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.name = name
	s.interval = interval

	go s.run(ctx, done, name, interval, fire)

	s.log.Debug().
		Str("timer", name).
		Dur("interval", interval).
		Msg("refresh timer armed")
}

// Stop cancels the armed timer, if any, and waits for its goroutine to exit.
// It is idempotent. A fire callback already running is allowed to finish.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	done := s.done
	s.stopLocked()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Armed reports whether a timer is currently scheduled.
func (s *RefreshScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Interval returns the interval of the armed timer, or zero when idle.
func (s *RefreshScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *RefreshScheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.log.Debug().Str("timer", s.name).Msg("refresh timer stopped")
	s.cancel = nil
	s.done = nil
	s.name = ""
	s.interval = 0
}

func (s *RefreshScheduler) run(ctx context.Context, done chan<- struct{}, name string, interval time.Duration, fire func()) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A Stop that raced the tick wins.
			if ctx.Err() != nil {
				return
			}
			s.fire(name, fire)
		}
	}
}

func (s *RefreshScheduler) fire(name string, fire func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("timer", name).
				Interface("panic", r).
				Msg("refresh callback panicked")
		}
	}()
	fire()
}
