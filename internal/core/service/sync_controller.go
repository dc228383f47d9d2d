package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ictuniversity/erp-dashboard/internal/api/metrics"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// DefaultStaleThreshold is the age after which published data is flagged stale.
const DefaultStaleThreshold = 2 * time.Minute

const (
	triggerInitial    = "initial"
	triggerManual     = "manual"
	triggerScheduled  = "scheduled"
	triggerRoleChange = "role_change"
)

// SyncController owns the dashboard state of one consumer (one session). It decides
// when to fetch, applies results to the cache and publishes state to subscribers.
//
// Every dispatched fetch is tagged with a generation. Only the completion carrying the
// newest generation is applied; anything older is dropped, as is anything completing
// after Close.
type SyncController struct {
	// pubMu serialises state transitions together with their notification so
	// subscribers observe them in order. mu guards the fields below.
	pubMu sync.Mutex
	mu    sync.Mutex

	role        domain.Role
	status      domain.SyncStatus
	data        *domain.DashboardSnapshot
	loading     bool
	err         *domain.ClassifiedError
	lastUpdated *time.Time
	generation  uint64
	closed      bool
	subscribers []func(ports.DashboardState)

	fetcher   ports.RetryingFetcher
	cache     ports.SnapshotCache
	scheduler ports.RefreshScheduler

	staleThreshold time.Duration
	interval       time.Duration
	now            func() time.Time
	log            zerolog.Logger

	lifetime context.Context
	cancel   context.CancelFunc
}

// SyncOption configures a SyncController.
type SyncOption func(*SyncController)

// WithStaleThreshold overrides DefaultStaleThreshold.
func WithStaleThreshold(d time.Duration) SyncOption {
	return func(c *SyncController) {
		if d > 0 {
			c.staleThreshold = d
		}
	}
}

// WithRefreshInterval replaces the role's configured interval for every role.
func WithRefreshInterval(d time.Duration) SyncOption {
	return func(c *SyncController) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithSyncClock replaces time.Now.
func WithSyncClock(now func() time.Time) SyncOption {
	return func(c *SyncController) {
		if now != nil {
			c.now = now
		}
	}
}

// NewSyncController creates a controller for role. Nothing is fetched until Start.
func NewSyncController(
	role domain.Role,
	fetcher ports.RetryingFetcher,
	cache ports.SnapshotCache,
	scheduler ports.RefreshScheduler,
	log zerolog.Logger,
	opts ...SyncOption,
) *SyncController {
	ctx, cancel := context.WithCancel(context.Background())
	c := &SyncController{
		role:           role,
		status:         domain.StatusIdle,
		fetcher:        fetcher,
		cache:          cache,
		scheduler:      scheduler,
		staleThreshold: DefaultStaleThreshold,
		now:            time.Now,
		log:            log.With().Str("component", "sync").Logger(),
		lifetime:       ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive every published state. fn runs on the publishing
// goroutine and must not call Start, Refresh, SetRole or Close.
func (c *SyncController) Subscribe(fn func(ports.DashboardState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Role returns the role the controller currently serves.
func (c *SyncController) Role() domain.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// State returns a copy of the published state with IsStale evaluated now.
func (c *SyncController) State() ports.DashboardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Start loads the dashboard for the current role. A fresh cache entry is published
// immediately; otherwise a fetch is dispatched and Start waits for it or for ctx.
// With no role the controller stays idle.
func (c *SyncController) Start(ctx context.Context) ports.DashboardState {
	return c.start(ctx, triggerInitial)
}

// Refresh forces a fetch that bypasses the cache and waits for it or for ctx.
// It is accepted in every state, including after a non-retryable failure.
func (c *SyncController) Refresh(ctx context.Context) ports.DashboardState {
	c.await(ctx, c.dispatch(triggerManual))
	return c.State()
}

// RefreshAsync forces a fetch without waiting for it.
func (c *SyncController) RefreshAsync() {
	c.dispatch(triggerManual)
}

// SetRole re-initialises the controller for role: the cache is invalidated even when
// its entry is still fresh, the refresh timer is stopped and published data is reset
// before loading again. The empty role tears the controller down to idle.
func (c *SyncController) SetRole(ctx context.Context, role domain.Role) ports.DashboardState {
	var previous domain.Role
	changed := c.update(func() bool {
		if c.closed || c.role == role {
			return false
		}
		previous = c.role
		c.generation++
		c.role = role
		c.status = domain.StatusIdle
		c.data = nil
		c.err = nil
		c.loading = false
		c.lastUpdated = nil
		c.cache.Invalidate()
		return true
	})
	if !changed {
		return c.State()
	}

	c.scheduler.Stop()
	c.log.Info().
		Str("from", string(previous)).
		Str("role", string(role)).
		Msg("role changed")

	return c.start(ctx, triggerRoleChange)
}

// Close stops the refresh timer and cancels in-flight fetches. Results arriving
// afterwards are discarded. Close is idempotent.
func (c *SyncController) Close() {
	closing := false
	c.update(func() bool {
		if c.closed {
			return false
		}
		c.closed = true
		c.generation++
		c.loading = false
		closing = true
		return false
	})
	if !closing {
		return
	}

	c.cancel()
	c.scheduler.Stop()
	c.log.Debug().Str("role", string(c.Role())).Msg("sync controller closed")
}

func (c *SyncController) start(ctx context.Context, trigger string) ports.DashboardState {
	hit := false
	c.update(func() bool {
		if c.closed || c.role == domain.RoleNone {
			return false
		}
		snapshot, ok := c.cache.Read(c.role)
		if !ok {
			return false
		}
		// Supersede anything still in flight for this controller.
		c.generation++
		fetchedAt := snapshot.FetchedAt
		c.data = snapshot
		c.err = nil
		c.loading = false
		c.status = domain.StatusReady
		c.lastUpdated = &fetchedAt
		c.armLocked()
		hit = true
		return true
	})
	if hit {
		c.log.Debug().Str("role", string(c.Role())).Msg("served from cache")
		return c.State()
	}

	c.await(ctx, c.dispatch(trigger))
	return c.State()
}

// dispatch issues a new generation and runs one fetch cycle for it in the background.
// The returned channel is closed once the cycle has been applied or discarded.
func (c *SyncController) dispatch(trigger string) <-chan struct{} {
	done := make(chan struct{})

	var (
		generation uint64
		role       domain.Role
	)
	if !c.update(func() bool {
		if c.closed || c.role == domain.RoleNone {
			return false
		}
		c.generation++
		generation = c.generation
		role = c.role
		c.loading = true
		c.status = domain.StatusLoading
		return true
	}) {
		close(done)
		return done
	}

	metrics.RefreshesTotal.WithLabelValues(trigger).Inc()
	c.log.Debug().
		Str("role", string(role)).
		Uint64("generation", generation).
		Str("trigger", trigger).
		Msg("fetch dispatched")

	go func() {
		defer close(done)
		snapshot, ferr := c.fetcher.FetchWithRetry(c.lifetime, role)
		c.complete(generation, role, snapshot, ferr)
	}()
	return done
}

func (c *SyncController) complete(generation uint64, role domain.Role, snapshot *domain.DashboardSnapshot, ferr *domain.ClassifiedError) {
	c.update(func() bool {
		if c.closed || generation != c.generation {
			metrics.SupersededFetchesTotal.Inc()
			c.log.Debug().
				Str("role", string(role)).
				Uint64("generation", generation).
				Uint64("current", c.generation).
				Msg("discarding superseded fetch result")
			return false
		}

		c.loading = false
		if ferr != nil {
			// Previous data stays visible.
			c.err = ferr
			c.status = domain.StatusFailed
			return true
		}

		c.cache.Write(role, snapshot)
		updated := c.now()
		c.data = snapshot
		c.err = nil
		c.status = domain.StatusReady
		c.lastUpdated = &updated
		c.armLocked()
		return true
	})
}

// armLocked (re)arms the refresh timer for the current role.
func (c *SyncController) armLocked() {
	interval := c.interval
	if interval <= 0 {
		interval = domain.SettingsFor(c.role).RefreshInterval
	}
	c.scheduler.Start("dashboard-refresh:"+string(c.role), interval, func() {
		c.dispatch(triggerScheduled)
	})
}

// update applies fn and, when it reports a change, publishes the resulting state.
func (c *SyncController) update(fn func() bool) bool {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	changed := fn()
	state := c.stateLocked()
	subscribers := c.subscribers
	c.mu.Unlock()

	if changed {
		for _, sub := range subscribers {
			sub(state)
		}
	}
	return changed
}

func (c *SyncController) stateLocked() ports.DashboardState {
	state := ports.DashboardState{
		Role:    c.role,
		Status:  c.status,
		Data:    c.data,
		Loading: c.loading,
		Error:   c.err,
	}
	if c.lastUpdated != nil {
		t := *c.lastUpdated
		state.LastUpdated = &t
		state.IsStale = !c.now().Before(t.Add(c.staleThreshold))
	}
	return state
}

func (c *SyncController) await(ctx context.Context, done <-chan struct{}) {
	select {
	case <-done:
	case <-ctx.Done():
	}
}
