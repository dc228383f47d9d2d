// Package cache implements the last-result snapshot cache owned by a sync controller.
package cache

import (
	"sync"
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/api/metrics"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// DefaultDuration is how long a cached snapshot stays servable.
const DefaultDuration = 5 * time.Minute

// Entry is the content of the single slot.
type Entry struct {
	Snapshot   *domain.DashboardSnapshot
	Role       domain.Role
	Timestamp  time.Time
	Generation uint64
}

// SlotCache holds at most one snapshot, tagged with the role it was fetched for.
// Only one role is active per controller, so there is no eviction policy beyond
// replacing the slot.
type SlotCache struct {
	mu         sync.Mutex
	entry      *Entry
	generation uint64
	duration   time.Duration
	now        func() time.Time
}

// Option configures a SlotCache.
type Option func(*SlotCache)

// WithDuration sets the freshness window. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(c *SlotCache) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *SlotCache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewSlotCache(opts ...Option) *SlotCache {
	c := &SlotCache{duration: DefaultDuration, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the stored snapshot iff it was written for role and is younger than
// the cache duration. A role mismatch is a miss regardless of age.
func (c *SlotCache) Read(role domain.Role) (*domain.DashboardSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.entry == nil:
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	case c.entry.Role != role:
		metrics.CacheLookupsTotal.WithLabelValues("role_mismatch").Inc()
		return nil, false
	case c.now().Sub(c.entry.Timestamp) >= c.duration:
		metrics.CacheLookupsTotal.WithLabelValues("expired").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return c.entry.Snapshot, true
}

// Write replaces the slot unconditionally.
func (c *SlotCache) Write(role domain.Role, snapshot *domain.DashboardSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.entry = &Entry{
		Snapshot:   snapshot,
		Role:       role,
		Timestamp:  c.now(),
		Generation: c.generation,
	}
}

// Invalidate empties the slot.
func (c *SlotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// Peek returns a copy of the current entry without applying the hit rules.
func (c *SlotCache) Peek() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return Entry{}, false
	}
	return *c.entry, true
}
