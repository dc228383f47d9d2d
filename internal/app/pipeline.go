// Package app assembles the sync layer from configuration. Both the HTTP server and
// the CLI build their controllers through it. Loggers passed in must not carry a
// component field; every constructor adds its own.
package app

import (
	"github.com/rs/zerolog"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
	"github.com/ictuniversity/erp-dashboard/internal/core/service"
	"github.com/ictuniversity/erp-dashboard/internal/core/strategy"
	"github.com/ictuniversity/erp-dashboard/internal/infrastructure/cache"
	"github.com/ictuniversity/erp-dashboard/internal/infrastructure/scheduler"
	"github.com/ictuniversity/erp-dashboard/internal/pkg/config"
)

// NewRetryingFetcher builds the strategy registry, the snapshot fetcher and the
// retry controller around it. feed may be nil.
func NewRetryingFetcher(cfg config.DashboardConfig, feed ports.AnnouncementFeed, log zerolog.Logger) *service.RetryController {
	opts := []service.FetcherOption{service.WithLatency(cfg.FetchLatency)}
	if feed != nil && cfg.Announcements {
		opts = append(opts, service.WithAnnouncements(feed))
	}
	fetcher := service.NewSnapshotFetcher(strategy.NewRegistry(), log, opts...)

	policy := service.RetryPolicy{MaxAttempts: cfg.MaxRetryAttempts, BaseDelay: cfg.BaseRetryDelay}
	return service.NewRetryController(fetcher, policy, service.SleepContext, log)
}

// NewControllerFactory returns a factory giving every controller its own cache slot
// and refresh timer. opts are applied after the configured stale threshold.
func NewControllerFactory(cfg config.DashboardConfig, fetcher ports.RetryingFetcher, log zerolog.Logger, opts ...service.SyncOption) service.ControllerFactory {
	opts = append([]service.SyncOption{service.WithStaleThreshold(cfg.StaleThreshold)}, opts...)
	return func(role domain.Role) *service.SyncController {
		return service.NewSyncController(
			role,
			fetcher,
			cache.NewSlotCache(cache.WithDuration(cfg.CacheDuration)),
			scheduler.NewRefreshScheduler(log),
			log,
			opts...,
		)
	}
}
