package memory

import (
	"context"
	"testing"
	"time"

	"study-session-service/internal/domain"
)

func TestRecorderAdvancesProgress(t *testing.T) {
	participants := NewParticipantStore()
	participants.Seed(domain.ParticipantProgress{
		UserID:               "u1",
		ConsentCompleted:     true,
		PreQuizCompleted:     true,
		InteractionCompleted: true,
	})
	recorder := NewAttemptRecorder(participants)

	completedAt := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	updated, err := recorder.RecordAttempt(context.Background(), domain.QuizAttempt{
		UserID:      "u1",
		Phase:       domain.PhaseImmediateRecall,
		CompletedAt: completedAt,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !updated.PostQuizCompleted {
		t.Fatalf("expected post-quiz flag set, got %+v", updated)
	}
	if updated.PostQuizCompletedAt == nil || !updated.PostQuizCompletedAt.Equal(completedAt) {
		t.Fatalf("expected completion timestamp recorded, got %+v", updated.PostQuizCompletedAt)
	}

	// A repeated completion must not move the timestamp; flags are monotonic.
	later := completedAt.Add(2 * time.Hour)
	updated, _ = recorder.RecordAttempt(context.Background(), domain.QuizAttempt{
		UserID:      "u1",
		Phase:       domain.PhaseImmediateRecall,
		CompletedAt: later,
	})
	if !updated.PostQuizCompletedAt.Equal(completedAt) {
		t.Fatalf("timestamp moved on repeat completion: %v", updated.PostQuizCompletedAt)
	}

	if len(recorder.Attempts()) != 2 {
		t.Fatalf("expected both attempts kept, got %d", len(recorder.Attempts()))
	}
}

func TestParticipantStoreMiss(t *testing.T) {
	store := NewParticipantStore()
	if _, err := store.GetProgress(context.Background(), "nobody"); err != domain.ErrParticipantNotFound {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestSessionRegistryLifecycle(t *testing.T) {
	registry := NewSessionRegistry()
	registry.MarkLive(context.Background(), "s1", "u1")
	if !registry.IsLive("s1") {
		t.Fatalf("expected session live after mark")
	}
	registry.Drop(context.Background(), "s1")
	if registry.IsLive("s1") {
		t.Fatalf("expected session dropped")
	}
}
