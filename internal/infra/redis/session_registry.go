package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRegistry marks live sessions in Redis so other instances can see
// them. Writes are best-effort liveness markers with TTL; the engine never
// depends on them for correctness.
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{client: client, ttl: ttl}
}

func (r *SessionRegistry) MarkLive(ctx context.Context, sessionID, userID string) {
	_ = r.client.Set(ctx, r.key(sessionID), userID, r.ttl).Err()
}

func (r *SessionRegistry) Drop(ctx context.Context, sessionID string) {
	_ = r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *SessionRegistry) key(sessionID string) string {
	return "study:session:" + sessionID
}
