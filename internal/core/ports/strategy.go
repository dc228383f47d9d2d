package ports

import (
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// ContentStrategy produces the dashboard content for one role.
// Implementations are stateless and safe for concurrent use.
type ContentStrategy interface {
	Name() string
	Statistics() domain.Statistics
	// Activity returns the role's activity feed relative to now, newest first.
	Activity(now time.Time) []domain.ActivityEvent
	QuickActions() []domain.QuickAction
}

// StrategyResolver maps a role to its ContentStrategy. It never fails.
type StrategyResolver interface {
	Get(role domain.Role) ContentStrategy
}
