package ports

import (
	"context"
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// DashboardState is what the rendering layer reads. It is a value copy; mutating it
// has no effect on the controller that published it.
type DashboardState struct {
	Role        domain.Role
	Status      domain.SyncStatus
	Data        *domain.DashboardSnapshot
	Loading     bool
	Error       *domain.ClassifiedError
	IsStale     bool
	LastUpdated *time.Time
}

// SessionSummary describes one live dashboard session.
type SessionSummary struct {
	SessionID   string
	Role        domain.Role
	Status      domain.SyncStatus
	LastUpdated *time.Time
	LastSeen    time.Time
}

// DashboardService is the use-case surface the transport layer talks to.
type DashboardService interface {
	// State returns the published state for the session, mounting a controller on
	// first use and re-initialising it when the role changed.
	State(ctx context.Context, sessionID string, role domain.Role) (DashboardState, error)
	// Refresh forces a re-fetch. When wait is false it returns without waiting for it.
	Refresh(ctx context.Context, sessionID string, role domain.Role, wait bool) (DashboardState, error)
	// Release tears the session's controller down (sign-out / unmount).
	Release(ctx context.Context, sessionID string) error
	Sessions() []SessionSummary
}
