package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ictuniversity/erp-dashboard/internal/api/metrics"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// WaitFunc blocks for d or until ctx is done, whichever comes first.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the production WaitFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryPolicy bounds the attempts of one fetch cycle.
type RetryPolicy struct {
	// MaxAttempts includes the first attempt.
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number to get the wait before the next one.
	BaseDelay time.Duration
}

// DefaultRetryPolicy is three attempts with 1s, then 2s, of backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Delay returns the wait after the given failed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt)
}

// RetryAttempt describes one failed attempt. It is logged, never retained.
type RetryAttempt struct {
	Number    int
	LastError *domain.ClassifiedError
	NextDelay time.Duration
}

func (a RetryAttempt) MarshalZerologObject(e *zerolog.Event) {
	e.Int("attempt", a.Number).
		Str("kind", string(a.LastError.Kind)).
		Dur("next_delay", a.NextDelay)
}

// RetryController applies a RetryPolicy around a SnapshotFetcher.
type RetryController struct {
	fetcher ports.SnapshotFetcher
	policy  RetryPolicy
	wait    WaitFunc
	log     zerolog.Logger
}

// NewRetryController wraps fetcher. A zero policy falls back to DefaultRetryPolicy,
// and a nil wait to SleepContext.
func NewRetryController(fetcher ports.SnapshotFetcher, policy RetryPolicy, wait WaitFunc, log zerolog.Logger) *RetryController {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = 0
	}
	if wait == nil {
		wait = SleepContext
	}
	return &RetryController{
		fetcher: fetcher,
		policy:  policy,
		wait:    wait,
		log:     log.With().Str("component", "retry").Logger(),
	}
}

// Policy returns the effective policy.
func (r *RetryController) Policy() RetryPolicy { return r.policy }

// FetchWithRetry runs one fetch cycle. On failure it returns exactly one classified
// error, always marked non-retryable: the caller must not loop on it.
func (r *RetryController) FetchWithRetry(ctx context.Context, role domain.Role) (*domain.DashboardSnapshot, *domain.ClassifiedError) {
	start := time.Now()
	fetchID := uuid.NewString()
	log := r.log.With().Str("fetch_id", fetchID).Str("role", string(role)).Logger()
	defer func() {
		metrics.FetchDuration.WithLabelValues(roleLabel(role)).Observe(time.Since(start).Seconds())
	}()

	var last *domain.ClassifiedError
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, r.fail(log, aborted(err), attempt-1)
		}

		snapshot, err := r.fetcher.Fetch(ctx, role)
		if err == nil {
			metrics.FetchAttemptsTotal.WithLabelValues(roleLabel(role), "success").Inc()
			if attempt > 1 {
				log.Info().Int("attempts", attempt).Msg("fetch recovered after retry")
			}
			return snapshot, nil
		}
		metrics.FetchAttemptsTotal.WithLabelValues(roleLabel(role), "failure").Inc()

		// A fetch interrupted by disposal is not a data source failure.
		if ctx.Err() != nil {
			return nil, r.fail(log, aborted(err), attempt)
		}

		last = domain.Classify(err)
		if !last.Retryable || attempt == r.policy.MaxAttempts {
			return nil, r.fail(log, last, attempt)
		}

		next := RetryAttempt{Number: attempt, LastError: last, NextDelay: r.policy.Delay(attempt)}
		log.Warn().Err(err).EmbedObject(next).Msg("fetch attempt failed, retrying")

		if werr := r.wait(ctx, next.NextDelay); werr != nil {
			return nil, r.fail(log, aborted(werr), attempt)
		}
	}

	// Unreachable with MaxAttempts >= 1.
	return nil, r.fail(log, last, r.policy.MaxAttempts)
}

func (r *RetryController) fail(log zerolog.Logger, ce *domain.ClassifiedError, attempts int) *domain.ClassifiedError {
	final := ce.Final(attempts)
	metrics.FetchErrorsTotal.WithLabelValues(string(final.Kind)).Inc()
	log.Error().
		Err(final.Err).
		Str("kind", string(final.Kind)).
		Int("attempts", attempts).
		Msg("fetch failed")
	return final
}

// roleLabel bounds metric cardinality: roles come from token claims, so anything the
// identity provider does not issue is collapsed into one series.
func roleLabel(role domain.Role) string {
	if role.Known() {
		return string(role)
	}
	return "other"
}

func aborted(err error) *domain.ClassifiedError {
	return domain.NewClassifiedError(domain.KindUnknown, fmt.Errorf("fetch aborted: %w", err))
}
