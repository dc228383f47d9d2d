package ports

import (
	"context"
	"time"
)

// RefreshScheduler is a pure trigger source: one recurring timer at a time.
type RefreshScheduler interface {
	// Start arms a recurring timer, cancelling any timer already armed.
	Start(name string, interval time.Duration, fire func())
	Stop()
}

// SessionRevoker records signed-out sessions so stale tokens cannot reopen them.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
