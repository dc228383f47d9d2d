package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ictuniversity/erp-dashboard/internal/api/metrics"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// DefaultIdleTimeout is how long a session may go unseen before it is evicted.
const DefaultIdleTimeout = 30 * time.Minute

// ControllerFactory builds an unstarted controller with its own cache and scheduler.
type ControllerFactory func(role domain.Role) *SyncController

type session struct {
	controller *SyncController
	lastSeen   time.Time
}

// SessionManager keeps one SyncController per dashboard session. A session is mounted
// on first use and unmounted on sign-out or after being idle for too long.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*session
	factory     ControllerFactory
	idleTimeout time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewSessionManager returns a SessionManager. A non-positive idleTimeout uses
// DefaultIdleTimeout; a nil now uses time.Now.
func NewSessionManager(factory ControllerFactory, idleTimeout time.Duration, now func() time.Time, log zerolog.Logger) *SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		sessions:    make(map[string]*session),
		factory:     factory,
		idleTimeout: idleTimeout,
		now:         now,
		log:         log.With().Str("component", "sessions").Logger(),
	}
}

var _ ports.DashboardService = (*SessionManager)(nil)

// Acquire returns the controller of sessionID, mounting and starting it on first use.
// When the identity now carries a different role the controller is re-initialised.
func (m *SessionManager) Acquire(ctx context.Context, sessionID string, role domain.Role) (*SyncController, error) {
	if role == domain.RoleNone {
		return nil, domain.ErrNoRole
	}

	m.mu.Lock()
	if s, ok := m.sessions[sessionID]; ok {
		s.lastSeen = m.now()
		c := s.controller
		m.mu.Unlock()

		if c.Role() != role {
			c.SetRole(ctx, role)
		}
		return c, nil
	}

	c := m.factory(role)
	m.sessions[sessionID] = &session{controller: c, lastSeen: m.now()}
	metrics.ActiveSessions.Inc()
	m.mu.Unlock()

	m.log.Info().
		Str("session_id", sessionID).
		Str("role", string(role)).
		Msg("session mounted")

	c.Start(ctx)
	return c, nil
}

// State returns the published dashboard state of the session.
func (m *SessionManager) State(ctx context.Context, sessionID string, role domain.Role) (ports.DashboardState, error) {
	c, err := m.Acquire(ctx, sessionID, role)
	if err != nil {
		return ports.DashboardState{}, fmt.Errorf("dashboard state: %w", err)
	}
	return c.State(), nil
}

// Refresh forces a re-fetch for the session, waiting for it when wait is true.
func (m *SessionManager) Refresh(ctx context.Context, sessionID string, role domain.Role, wait bool) (ports.DashboardState, error) {
	c, err := m.Acquire(ctx, sessionID, role)
	if err != nil {
		return ports.DashboardState{}, fmt.Errorf("dashboard refresh: %w", err)
	}
	if wait {
		return c.Refresh(ctx), nil
	}
	c.RefreshAsync()
	return c.State(), nil
}

// Release unmounts the session and disposes of its controller.
func (m *SessionManager) Release(_ context.Context, sessionID string) error {
	if !m.detach(sessionID, func(*session) bool { return true }) {
		return fmt.Errorf("release session %s: %w", sessionID, domain.ErrSessionNotFound)
	}
	m.log.Info().Str("session_id", sessionID).Msg("session released")
	return nil
}

// releaseIdle releases sessionID only if it is still unseen since cutoff. A request
// that touched the session after the janitor's scan keeps it mounted.
func (m *SessionManager) releaseIdle(sessionID string, cutoff time.Time) bool {
	return m.detach(sessionID, func(s *session) bool { return !s.lastSeen.After(cutoff) })
}

// detach removes sessionID when cond holds, checked under m.mu, and closes its
// controller outside the lock.
func (m *SessionManager) detach(sessionID string, cond func(*session) bool) bool {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok && !cond(s) {
		ok = false
	}
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.controller.Close()
	metrics.ActiveSessions.Dec()
	return true
}

// Sessions lists the mounted sessions ordered by id.
func (m *SessionManager) Sessions() []ports.SessionSummary {
	m.mu.Lock()
	out := make([]ports.SessionSummary, 0, len(m.sessions))
	controllers := make([]*SyncController, 0, len(m.sessions))
	for id, s := range m.sessions {
		out = append(out, ports.SessionSummary{SessionID: id, LastSeen: s.lastSeen})
		controllers = append(controllers, s.controller)
	}
	m.mu.Unlock()

	for i, c := range controllers {
		st := c.State()
		out[i].Role = st.Role
		out[i].Status = st.Status
		out[i].LastUpdated = st.LastUpdated
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// EvictIdle releases every session unseen for the idle timeout and returns how many
// were evicted.
func (m *SessionManager) EvictIdle() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []string
	for id, s := range m.sessions {
		if !s.lastSeen.After(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.Unlock()

	evicted := 0
	for _, id := range idle {
		if m.releaseIdle(id, cutoff) {
			evicted++
		}
	}
	if evicted > 0 {
		m.log.Info().Int("evicted", evicted).Msg("idle sessions evicted")
	}
	return evicted
}

// StartJanitor evicts idle sessions every interval using s as the trigger source.
func (m *SessionManager) StartJanitor(s ports.RefreshScheduler, interval time.Duration) {
	s.Start("session-janitor", interval, func() { m.EvictIdle() })
}

// Close releases every session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.Release(context.Background(), id)
	}
}
