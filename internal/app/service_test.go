package app_test

import (
	"context"
	"testing"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
	"study-session-service/internal/gate"
)

func TestCheckEligibilityMissingParticipant(t *testing.T) {
	svc := app.NewSessionServiceWithClock(
		&stubContent{}, &stubFallback{}, &stubRecorder{},
		&stubParticipants{}, nil,
		func() time.Time { return testNow }, 0,
	)
	result, err := svc.CheckEligibility(context.Background(), "ghost", domain.PhasePreAssessment)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if result.Allowed || result.Reason != gate.ReasonSignedOut {
		t.Fatalf("expected signed-out denial for unknown participant, got %+v", result)
	}
}

func TestCheckEligibilityUsesStoredProgress(t *testing.T) {
	participants := &stubParticipants{progress: &domain.ParticipantProgress{
		UserID:           "u1",
		ConsentCompleted: true,
	}}
	svc := app.NewSessionServiceWithClock(
		&stubContent{}, &stubFallback{}, &stubRecorder{},
		participants, nil,
		func() time.Time { return testNow }, 0,
	)
	result, err := svc.CheckEligibility(context.Background(), "u1", domain.PhasePreAssessment)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("expected access with consent signed, got %+v", result)
	}
}
