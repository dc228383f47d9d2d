package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ictuniversity/erp-dashboard/internal/api/metrics"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// scriptedFetcher fails with errs[i] on call i and succeeds once the script runs out.
type scriptedFetcher struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (f *scriptedFetcher) Fetch(_ context.Context, role domain.Role) (*domain.DashboardSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.calls
	f.calls++
	if n < len(f.errs) && f.errs[n] != nil {
		return nil, f.errs[n]
	}
	return &domain.DashboardSnapshot{Role: role, FetchedAt: time.Now()}, nil
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func repeatErr(err error, n int) []error {
	out := make([]error, n)
	for i := range out {
		out[i] = err
	}
	return out
}

// recordingWait never sleeps; it only remembers what it was asked to wait.
type recordingWait struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (w *recordingWait) Wait(_ context.Context, d time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delays = append(w.delays, d)
	return w.err
}

func (w *recordingWait) Total() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	var total time.Duration
	for _, d := range w.delays {
		total += d
	}
	return total
}

func newTestRetry(f *scriptedFetcher, w *recordingWait, policy RetryPolicy) *RetryController {
	return NewRetryController(f, policy, w.Wait, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestFetchWithRetry_FirstAttemptSucceeds(t *testing.T) {
	f := &scriptedFetcher{}
	w := &recordingWait{}

	snap, ce := newTestRetry(f, w, DefaultRetryPolicy()).FetchWithRetry(context.Background(), domain.RoleStudent)

	require.Nil(t, ce)
	require.NotNil(t, snap)
	assert.Equal(t, 1, f.Calls())
	assert.Empty(t, w.delays)
}

func TestFetchWithRetry_RecoversFromNetworkErrors(t *testing.T) {
	f := &scriptedFetcher{errs: repeatErr(domain.ErrNetwork, 2)}
	w := &recordingWait{}

	snap, ce := newTestRetry(f, w, DefaultRetryPolicy()).FetchWithRetry(context.Background(), domain.RoleStudent)

	require.Nil(t, ce)
	require.NotNil(t, snap)
	assert.Equal(t, 3, f.Calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, w.delays)
	assert.Equal(t, 3*time.Second, w.Total())
}

func TestFetchWithRetry_ExhaustedDataErrors(t *testing.T) {
	f := &scriptedFetcher{errs: repeatErr(domain.ErrMalformedSnapshot, 3)}
	w := &recordingWait{}

	snap, ce := newTestRetry(f, w, DefaultRetryPolicy()).FetchWithRetry(context.Background(), domain.RoleSystemAdmin)

	assert.Nil(t, snap)
	require.NotNil(t, ce)
	assert.Equal(t, domain.KindData, ce.Kind)
	assert.False(t, ce.Retryable)
	assert.Equal(t, 3, ce.Attempts)
	assert.Equal(t, 3, f.Calls())
	assert.ErrorIs(t, ce, domain.ErrMalformedSnapshot)
}

func TestFetchWithRetry_ShortCircuitsAuthAndPermission(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domain.ErrorKind
	}{
		{"auth", domain.ErrUnauthorized, domain.KindAuth},
		{"permission", domain.ErrForbidden, domain.KindPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &scriptedFetcher{errs: repeatErr(tt.err, 3)}
			w := &recordingWait{}

			_, ce := newTestRetry(f, w, DefaultRetryPolicy()).FetchWithRetry(context.Background(), domain.RoleStudent)

			require.NotNil(t, ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.False(t, ce.Retryable)
			assert.Equal(t, 1, ce.Attempts)
			assert.Equal(t, 1, f.Calls())
			assert.Empty(t, w.delays)
		})
	}
}

func TestFetchWithRetry_NeverExceedsMaxAttempts(t *testing.T) {
	for _, attempts := range []int{1, 2, 3, 5} {
		f := &scriptedFetcher{errs: repeatErr(domain.ErrNetwork, 10)}
		w := &recordingWait{}
		policy := RetryPolicy{MaxAttempts: attempts, BaseDelay: 100 * time.Millisecond}

		_, ce := newTestRetry(f, w, policy).FetchWithRetry(context.Background(), domain.RoleStudent)

		require.NotNil(t, ce)
		assert.Equal(t, attempts, f.Calls())
		assert.Equal(t, attempts, ce.Attempts)
		require.Len(t, w.delays, attempts-1)
		for i, d := range w.delays {
			assert.Equal(t, policy.BaseDelay*time.Duration(i+1), d, "delay before attempt %d", i+2)
		}
	}
}

func TestFetchWithRetry_UnknownErrorsAreRetried(t *testing.T) {
	f := &scriptedFetcher{errs: []error{errors.New("boom")}}
	w := &recordingWait{}

	snap, ce := newTestRetry(f, w, DefaultRetryPolicy()).FetchWithRetry(context.Background(), domain.RoleStudent)

	require.Nil(t, ce)
	assert.NotNil(t, snap)
	assert.Equal(t, 2, f.Calls())
}

func TestFetchWithRetry_CancelledDuringBackoff(t *testing.T) {
	f := &scriptedFetcher{errs: repeatErr(domain.ErrNetwork, 3)}
	w := &recordingWait{err: context.Canceled}

	_, ce := newTestRetry(f, w, DefaultRetryPolicy()).FetchWithRetry(context.Background(), domain.RoleStudent)

	require.NotNil(t, ce)
	assert.Equal(t, domain.KindUnknown, ce.Kind)
	assert.False(t, ce.Retryable)
	assert.ErrorIs(t, ce, context.Canceled)
	assert.Equal(t, 1, f.Calls())
}

func TestFetchWithRetry_AlreadyCancelled(t *testing.T) {
	f := &scriptedFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ce := newTestRetry(f, &recordingWait{}, DefaultRetryPolicy()).FetchWithRetry(ctx, domain.RoleStudent)

	require.NotNil(t, ce)
	assert.ErrorIs(t, ce, context.Canceled)
	assert.Zero(t, f.Calls())
}

func TestFetchWithRetry_RealBackoffAbortsOnCancel(t *testing.T) {
	f := &scriptedFetcher{errs: repeatErr(domain.ErrNetwork, 3)}
	r := NewRetryController(f, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	_, ce := r.FetchWithRetry(ctx, domain.RoleStudent)

	require.NotNil(t, ce)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, ce, context.Canceled)
}

func TestNewRetryController_Defaults(t *testing.T) {
	r := NewRetryController(&scriptedFetcher{}, RetryPolicy{}, nil, zerolog.Nop())
	assert.Equal(t, 3, r.Policy().MaxAttempts)
	assert.Equal(t, 2*time.Second, DefaultRetryPolicy().Delay(2))
}

func TestFetchWithRetry_UnknownRolesShareOneMetricSeries(t *testing.T) {
	other := metrics.FetchAttemptsTotal.WithLabelValues("other", "success")
	before := testutil.ToFloat64(other)

	r := newTestRetry(&scriptedFetcher{}, &recordingWait{}, DefaultRetryPolicy())
	for _, role := range []domain.Role{"intruder-1", "intruder-2"} {
		_, ferr := r.FetchWithRetry(context.Background(), role)
		require.Nil(t, ferr)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(other))
	assert.Equal(t, "student", roleLabel(domain.RoleStudent))
	assert.Equal(t, "other", roleLabel("intruder-1"))
	assert.Equal(t, "other", roleLabel(domain.RoleNone))
}
