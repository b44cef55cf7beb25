package memory

import (
	"context"
	"sync"

	"study-session-service/internal/domain"
)

// AttemptRecorder accepts finalized attempts, advances the participant's
// progress flags and hands the updated record back to the engine.
type AttemptRecorder struct {
	participants *ParticipantStore

	mu       sync.Mutex
	attempts []domain.QuizAttempt
}

func NewAttemptRecorder(participants *ParticipantStore) *AttemptRecorder {
	return &AttemptRecorder{participants: participants}
}

func (r *AttemptRecorder) RecordAttempt(_ context.Context, attempt domain.QuizAttempt) (*domain.ParticipantProgress, error) {
	r.mu.Lock()
	r.attempts = append(r.attempts, attempt)
	r.mu.Unlock()

	updated := r.participants.advance(attempt.UserID, attempt.Phase, attempt.CompletedAt)
	return &updated, nil
}

// Attempts returns a copy of everything recorded so far.
func (r *AttemptRecorder) Attempts() []domain.QuizAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.QuizAttempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}
