package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRevocationTTL outlives any access token the identity provider issues.
const DefaultRevocationTTL = 24 * time.Hour

// RevocationList stores signed-out dashboard sessions.
// Key format: dashboard:revoked:<session_id>
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke marks sessionID as signed out until ttl elapses. A non-positive ttl uses
// DefaultRevocationTTL.
func (r *RevocationList) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultRevocationTTL
	}
	if err := r.client.Set(ctx, key(sessionID), time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether sessionID has been signed out.
func (r *RevocationList) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether Redis is reachable.
func (r *RevocationList) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func key(sessionID string) string {
	return "dashboard:revoked:" + sessionID
}
