package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/infrastructure/cache"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// instantFetcher answers every fetch immediately with a snapshot for the role.
type instantFetcher struct {
	mu    sync.Mutex
	roles []domain.Role
}

func (f *instantFetcher) FetchWithRetry(_ context.Context, role domain.Role) (*domain.DashboardSnapshot, *domain.ClassifiedError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = append(f.roles, role)
	return snap(role, string(role)), nil
}

func (f *instantFetcher) Roles() []domain.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Role(nil), f.roles...)
}

type managerHarness struct {
	mgr        *SessionManager
	fetcher    *instantFetcher
	clock      *testClock
	mu         sync.Mutex
	schedulers []*stubScheduler
}

func newManagerHarness(idle time.Duration) *managerHarness {
	h := &managerHarness{fetcher: &instantFetcher{}, clock: newTestClock()}
	factory := func(role domain.Role) *SyncController {
		s := &stubScheduler{}
		h.mu.Lock()
		h.schedulers = append(h.schedulers, s)
		h.mu.Unlock()
		return NewSyncController(role, h.fetcher, cache.NewSlotCache(cache.WithClock(h.clock.Now)), s, zerolog.Nop(),
			WithSyncClock(h.clock.Now))
	}
	h.mgr = NewSessionManager(factory, idle, h.clock.Now, zerolog.Nop())
	return h
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSessionManager_AcquireMountsOnce(t *testing.T) {
	h := newManagerHarness(time.Hour)
	defer h.mgr.Close()
	ctx := context.Background()

	first, err := h.mgr.Acquire(ctx, "sid-1", domain.RoleStudent)
	require.NoError(t, err)
	second, err := h.mgr.Acquire(ctx, "sid-1", domain.RoleStudent)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, h.schedulers, 1)
	assert.Equal(t, []domain.Role{domain.RoleStudent}, h.fetcher.Roles(), "second acquire is served by the mounted controller")
	assert.Equal(t, domain.StatusReady, first.State().Status)
}

func TestSessionManager_EmptyRole(t *testing.T) {
	h := newManagerHarness(time.Hour)

	_, err := h.mgr.Acquire(context.Background(), "sid-1", domain.RoleNone)
	assert.ErrorIs(t, err, domain.ErrNoRole)

	_, err = h.mgr.State(context.Background(), "sid-1", domain.RoleNone)
	assert.ErrorIs(t, err, domain.ErrNoRole)
	assert.Empty(t, h.mgr.Sessions())
}

func TestSessionManager_RoleChangeReinitialises(t *testing.T) {
	h := newManagerHarness(time.Hour)
	defer h.mgr.Close()
	ctx := context.Background()

	_, err := h.mgr.State(ctx, "sid-1", domain.RoleStudent)
	require.NoError(t, err)

	st, err := h.mgr.State(ctx, "sid-1", domain.RoleHRPersonnel)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleHRPersonnel, st.Role)
	require.NotNil(t, st.Data)
	assert.Equal(t, domain.RoleHRPersonnel, st.Data.Role)
	assert.Equal(t, []domain.Role{domain.RoleStudent, domain.RoleHRPersonnel}, h.fetcher.Roles())
}

func TestSessionManager_RefreshModes(t *testing.T) {
	h := newManagerHarness(time.Hour)
	defer h.mgr.Close()
	ctx := context.Background()

	st, err := h.mgr.Refresh(ctx, "sid-1", domain.RoleStudent, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, st.Status)
	assert.Len(t, h.fetcher.Roles(), 2, "mount plus forced refresh")

	_, err = h.mgr.Refresh(ctx, "sid-1", domain.RoleStudent, false)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(h.fetcher.Roles()) == 3 }, time.Second, time.Millisecond)
}

func TestSessionManager_Release(t *testing.T) {
	h := newManagerHarness(time.Hour)
	ctx := context.Background()

	c, err := h.mgr.Acquire(ctx, "sid-1", domain.RoleStudent)
	require.NoError(t, err)

	require.NoError(t, h.mgr.Release(ctx, "sid-1"))
	assert.Empty(t, h.mgr.Sessions())
	assert.False(t, h.schedulers[0].Armed())

	// The disposed controller no longer fetches.
	before := len(h.fetcher.Roles())
	c.Refresh(ctx)
	assert.Len(t, h.fetcher.Roles(), before)

	err = h.mgr.Release(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionManager_SessionsSorted(t *testing.T) {
	h := newManagerHarness(time.Hour)
	defer h.mgr.Close()
	ctx := context.Background()

	for _, sid := range []string{"sid-c", "sid-a", "sid-b"} {
		_, err := h.mgr.Acquire(ctx, sid, domain.RoleSystemAdmin)
		require.NoError(t, err)
	}

	sessions := h.mgr.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, "sid-a", sessions[0].SessionID)
	assert.Equal(t, "sid-c", sessions[2].SessionID)
	for _, s := range sessions {
		assert.Equal(t, domain.RoleSystemAdmin, s.Role)
		assert.Equal(t, domain.StatusReady, s.Status)
		assert.NotNil(t, s.LastUpdated)
	}
}

func TestSessionManager_EvictIdle(t *testing.T) {
	h := newManagerHarness(10 * time.Minute)
	defer h.mgr.Close()
	ctx := context.Background()

	_, err := h.mgr.Acquire(ctx, "old", domain.RoleStudent)
	require.NoError(t, err)
	h.clock.Advance(6 * time.Minute)
	_, err = h.mgr.Acquire(ctx, "recent", domain.RoleStudent)
	require.NoError(t, err)
	h.clock.Advance(4 * time.Minute)

	assert.Equal(t, 1, h.mgr.EvictIdle())

	sessions := h.mgr.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "recent", sessions[0].SessionID)
}

func TestSessionManager_JanitorEvicts(t *testing.T) {
	h := newManagerHarness(time.Minute)
	defer h.mgr.Close()

	_, err := h.mgr.Acquire(context.Background(), "sid-1", domain.RoleStudent)
	require.NoError(t, err)

	janitor := &stubScheduler{}
	h.mgr.StartJanitor(janitor, 30*time.Second)
	assert.Equal(t, "session-janitor", janitor.LastName())
	assert.Equal(t, 30*time.Second, janitor.LastInterval())

	h.clock.Advance(time.Minute)
	janitor.Fire()
	assert.Empty(t, h.mgr.Sessions())
}

func TestSessionManager_CloseReleasesAll(t *testing.T) {
	h := newManagerHarness(time.Hour)
	ctx := context.Background()

	for _, sid := range []string{"a", "b"} {
		_, err := h.mgr.Acquire(ctx, sid, domain.RoleStudent)
		require.NoError(t, err)
	}
	h.mgr.Close()

	assert.Empty(t, h.mgr.Sessions())
	for _, s := range h.schedulers {
		assert.False(t, s.Armed())
	}
}

func TestSessionManager_EvictionSparesSessionTouchedAfterScan(t *testing.T) {
	h := newManagerHarness(10 * time.Minute)
	defer h.mgr.Close()
	ctx := context.Background()

	c, err := h.mgr.Acquire(ctx, "sid-1", domain.RoleStudent)
	require.NoError(t, err)
	h.clock.Advance(10 * time.Minute)

	// The janitor scanned with this cutoff, then the user came back before release.
	cutoff := h.clock.Now().Add(-10 * time.Minute)
	h.clock.Advance(time.Second)
	_, err = h.mgr.Acquire(ctx, "sid-1", domain.RoleStudent)
	require.NoError(t, err)

	assert.False(t, h.mgr.releaseIdle("sid-1", cutoff))
	require.Len(t, h.mgr.Sessions(), 1)
	assert.True(t, h.schedulers[0].Armed(), "controller must stay mounted")
	assert.Equal(t, domain.StatusReady, c.State().Status)

	assert.True(t, h.mgr.releaseIdle("sid-1", h.clock.Now()))
	assert.Empty(t, h.mgr.Sessions())
}
