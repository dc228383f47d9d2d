package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

const (
	// DefaultFetchLatency simulates the round trip to the data source.
	DefaultFetchLatency = 300 * time.Millisecond
	// MaxActivity bounds the activity feed of a snapshot.
	MaxActivity = 10
)

// snapshotFetcher assembles snapshots from the role strategies and, when configured,
// the announcements feed.
type snapshotFetcher struct {
	strategies ports.StrategyResolver
	feed       ports.AnnouncementFeed
	validate   *validator.Validate
	latency    time.Duration
	wait       WaitFunc
	now        func() time.Time
	log        zerolog.Logger
}

// FetcherOption configures the snapshot fetcher.
type FetcherOption func(*snapshotFetcher)

// WithLatency sets the simulated data source latency. Zero disables it.
func WithLatency(d time.Duration) FetcherOption {
	return func(f *snapshotFetcher) {
		if d >= 0 {
			f.latency = d
		}
	}
}

// WithAnnouncements merges announcements targeted at the role into the activity feed.
func WithAnnouncements(feed ports.AnnouncementFeed) FetcherOption {
	return func(f *snapshotFetcher) { f.feed = feed }
}

// WithFetcherClock replaces time.Now for FetchedAt and strategy activity.
func WithFetcherClock(now func() time.Time) FetcherOption {
	return func(f *snapshotFetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithFetcherWait replaces the latency wait.
func WithFetcherWait(wait WaitFunc) FetcherOption {
	return func(f *snapshotFetcher) {
		if wait != nil {
			f.wait = wait
		}
	}
}

// NewSnapshotFetcher returns a SnapshotFetcher backed by strategies.
func NewSnapshotFetcher(strategies ports.StrategyResolver, log zerolog.Logger, opts ...FetcherOption) ports.SnapshotFetcher {
	f := &snapshotFetcher{
		strategies: strategies,
		validate:   validator.New(),
		latency:    DefaultFetchLatency,
		wait:       SleepContext,
		now:        time.Now,
		log:        log.With().Str("component", "fetcher").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch builds a fresh snapshot for role. The result is never cached here.
func (f *snapshotFetcher) Fetch(ctx context.Context, role domain.Role) (*domain.DashboardSnapshot, error) {
	strategy := f.strategies.Get(role)

	if f.latency > 0 {
		if err := f.wait(ctx, f.latency); err != nil {
			return nil, fmt.Errorf("fetch snapshot: %w", err)
		}
	}

	now := f.now()
	activity := strategy.Activity(now)

	if f.feed != nil {
		activity = append(f.announcements(ctx, role, activity), activity...)
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	if len(activity) > MaxActivity {
		activity = activity[:MaxActivity]
	}

	actions := strategy.QuickActions()
	if limit := domain.SettingsFor(role).MaxQuickActions; len(actions) > limit {
		actions = actions[:limit]
	}

	snapshot := &domain.DashboardSnapshot{
		Statistics: strategy.Statistics(),
		Activity:   activity,
		Actions:    actions,
		Role:       role,
		FetchedAt:  now,
	}

	if err := f.check(snapshot); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	f.log.Debug().
		Str("role", string(role)).
		Str("strategy", strategy.Name()).
		Int("stats", len(snapshot.Statistics)).
		Int("activity", len(snapshot.Activity)).
		Int("actions", len(snapshot.Actions)).
		Msg("snapshot assembled")

	return snapshot, nil
}

// announcements loads the role's announcements and keeps only those that can be
// shown next to base activity. The feed is supplementary: its failures are logged and
// never fail the snapshot.
func (f *snapshotFetcher) announcements(ctx context.Context, role domain.Role, base []domain.ActivityEvent) []domain.ActivityEvent {
	events, err := f.feed.Recent(ctx, role, MaxActivity)
	if err != nil {
		f.log.Warn().
			Err(err).
			Str("role", string(role)).
			Msg("announcements unavailable, serving strategy activity only")
		return nil
	}

	seen := make(map[string]struct{}, len(base)+len(events))
	for _, ev := range base {
		seen[ev.ID] = struct{}{}
	}

	kept := make([]domain.ActivityEvent, 0, len(events))
	for _, ev := range events {
		if err := f.validate.Struct(ev); err != nil {
			f.log.Warn().
				Err(err).
				Str("role", string(role)).
				Str("activity_id", ev.ID).
				Msg("dropping invalid announcement")
			continue
		}
		if _, dup := seen[ev.ID]; dup {
			f.log.Warn().
				Str("role", string(role)).
				Str("activity_id", ev.ID).
				Msg("dropping duplicate announcement")
			continue
		}
		seen[ev.ID] = struct{}{}
		kept = append(kept, ev)
	}
	return kept
}

// check rejects snapshots that the rendering layer could not display.
func (f *snapshotFetcher) check(s *domain.DashboardSnapshot) error {
	if err := f.validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}

	for _, st := range s.Statistics {
		if st.Value == nil {
			return fmt.Errorf("%w: stat %q has no value", domain.ErrMalformedSnapshot, st.ID)
		}
	}

	seen := make(map[string]struct{}, len(s.Activity))
	for _, ev := range s.Activity {
		if _, dup := seen[ev.ID]; dup {
			return fmt.Errorf("%w: duplicate activity id %q", domain.ErrMalformedSnapshot, ev.ID)
		}
		seen[ev.ID] = struct{}{}
	}
	return nil
}
