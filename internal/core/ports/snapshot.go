package ports

import (
	"context"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// SnapshotFetcher assembles a fresh snapshot for a role. It neither caches nor schedules.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, role domain.Role) (*domain.DashboardSnapshot, error)
}

// RetryingFetcher wraps a SnapshotFetcher with the retry policy. A non-nil error is
// always final: the caller must not retry it on its own.
type RetryingFetcher interface {
	FetchWithRetry(ctx context.Context, role domain.Role) (*domain.DashboardSnapshot, *domain.ClassifiedError)
}

// SnapshotCache is the single-slot, role-tagged snapshot cache.
type SnapshotCache interface {
	// Read returns the cached snapshot when it was stored for role and is still fresh.
	Read(role domain.Role) (*domain.DashboardSnapshot, bool)
	Write(role domain.Role, snapshot *domain.DashboardSnapshot)
	Invalidate()
}

// AnnouncementFeed returns published announcements targeted at a role, mapped to
// activity events, newest first.
type AnnouncementFeed interface {
	Recent(ctx context.Context, role domain.Role, limit int) ([]domain.ActivityEvent, error)
}
