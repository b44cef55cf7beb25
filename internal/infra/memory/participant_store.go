package memory

import (
	"context"
	"sync"
	"time"

	"study-session-service/internal/domain"
)

// ParticipantStore keeps progress records in memory. It backs demo mode and
// tests; production uses the postgres store.
type ParticipantStore struct {
	mu      sync.RWMutex
	records map[string]domain.ParticipantProgress
}

func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{records: make(map[string]domain.ParticipantProgress)}
}

func (s *ParticipantStore) GetProgress(_ context.Context, userID string) (*domain.ParticipantProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[userID]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return &record, nil
}

// Seed installs or replaces a progress record.
func (s *ParticipantStore) Seed(progress domain.ParticipantProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[progress.UserID] = progress
}

// advance applies a phase completion to the stored record, creating it when
// absent, and returns the updated copy.
func (s *ParticipantStore) advance(userID string, phase domain.Phase, completedAt time.Time) domain.ParticipantProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.records[userID]
	record.UserID = userID
	record.ApplyCompletion(phase, completedAt)
	s.records[userID] = record
	return record
}
