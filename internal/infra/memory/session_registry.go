package memory

import (
	"context"
	"sync"
)

// SessionRegistry tracks live session ids in process memory.
type SessionRegistry struct {
	mu   sync.RWMutex
	live map[string]string // sessionID -> userID
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{live: make(map[string]string)}
}

func (r *SessionRegistry) MarkLive(_ context.Context, sessionID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[sessionID] = userID
}

func (r *SessionRegistry) Drop(_ context.Context, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, sessionID)
}

// IsLive reports whether the session is currently registered.
func (r *SessionRegistry) IsLive(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.live[sessionID]
	return ok
}
