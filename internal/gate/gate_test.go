package gate_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"study-session-service/internal/domain"
	"study-session-service/internal/gate"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNilProgressDenied(t *testing.T) {
	for _, phase := range []domain.Phase{domain.PhasePreAssessment, domain.PhaseImmediateRecall, domain.PhaseTransfer} {
		result, err := gate.Evaluate(nil, phase, now)
		if err != nil {
			t.Fatalf("evaluate %s: %v", phase, err)
		}
		if result.Allowed {
			t.Fatalf("expected %s denied without a participant", phase)
		}
		if result.Reason != gate.ReasonSignedOut {
			t.Fatalf("expected signed-out reason, got %q", result.Reason)
		}
		if len(result.Steps) == 0 {
			t.Fatalf("expected checklist even when signed out")
		}
		for _, step := range result.Steps {
			if step.Done {
				t.Fatalf("step %q should be open without a participant", step.Label)
			}
		}
	}
}

func TestUnknownPhaseFailsLoudly(t *testing.T) {
	_, err := gate.Evaluate(&domain.ParticipantProgress{}, domain.Phase("final-exam"), now)
	if !errors.Is(err, domain.ErrUnknownPhase) {
		t.Fatalf("expected ErrUnknownPhase, got %v", err)
	}
}

func TestPreAssessmentRules(t *testing.T) {
	result, _ := gate.Evaluate(&domain.ParticipantProgress{}, domain.PhasePreAssessment, now)
	if result.Allowed || !strings.Contains(result.Reason, "consent") {
		t.Fatalf("expected consent denial, got %+v", result)
	}

	result, _ = gate.Evaluate(&domain.ParticipantProgress{ConsentCompleted: true}, domain.PhasePreAssessment, now)
	if !result.Allowed || result.Reason != "" {
		t.Fatalf("expected access with consent, got %+v", result)
	}

	result, _ = gate.Evaluate(&domain.ParticipantProgress{ConsentCompleted: true, PreQuizCompleted: true}, domain.PhasePreAssessment, now)
	if result.Allowed || !strings.Contains(result.Reason, "already completed") {
		t.Fatalf("expected already-done denial, got %+v", result)
	}
}

func TestImmediateRecallRules(t *testing.T) {
	progress := &domain.ParticipantProgress{ConsentCompleted: true, PreQuizCompleted: true}
	result, _ := gate.Evaluate(progress, domain.PhaseImmediateRecall, now)
	if result.Allowed || !strings.Contains(result.Reason, "learning activity") {
		t.Fatalf("expected learning-activity denial, got %+v", result)
	}

	progress.InteractionCompleted = true
	result, _ = gate.Evaluate(progress, domain.PhaseImmediateRecall, now)
	if !result.Allowed {
		t.Fatalf("expected access, got %+v", result)
	}

	progress.PostQuizCompleted = true
	result, _ = gate.Evaluate(progress, domain.PhaseImmediateRecall, now)
	if result.Allowed {
		t.Fatalf("expected denial after completion, got %+v", result)
	}
}

func TestTransferCooldown(t *testing.T) {
	at := func(ago time.Duration) *domain.ParticipantProgress {
		completed := now.Add(-ago)
		return &domain.ParticipantProgress{
			ConsentCompleted:     true,
			PreQuizCompleted:     true,
			InteractionCompleted: true,
			PostQuizCompleted:    true,
			PostQuizCompletedAt:  &completed,
		}
	}

	result, _ := gate.Evaluate(at(23*time.Hour), domain.PhaseTransfer, now)
	if result.Allowed {
		t.Fatalf("expected denial at 23h elapsed")
	}
	if !strings.Contains(result.Reason, "1 hour") {
		t.Fatalf("expected 1 remaining hour in reason, got %q", result.Reason)
	}

	result, _ = gate.Evaluate(at(24*time.Hour), domain.PhaseTransfer, now)
	if !result.Allowed {
		t.Fatalf("expected access at 24h elapsed, got %q", result.Reason)
	}

	result, _ = gate.Evaluate(at(30*time.Minute), domain.PhaseTransfer, now)
	if result.Allowed || !strings.Contains(result.Reason, "24 hour") {
		t.Fatalf("expected 24 remaining hours, got %+v", result)
	}
}

func TestTransferWithoutTimestamp(t *testing.T) {
	progress := &domain.ParticipantProgress{
		ConsentCompleted:     true,
		PreQuizCompleted:     true,
		InteractionCompleted: true,
		PostQuizCompleted:    true,
	}
	result, _ := gate.Evaluate(progress, domain.PhaseTransfer, now)
	if result.Allowed || !strings.Contains(result.Reason, "24 hours after") {
		t.Fatalf("expected generic cooldown denial, got %+v", result)
	}
}

func TestTransferStudyCompleted(t *testing.T) {
	completed := now.Add(-48 * time.Hour)
	progress := &domain.ParticipantProgress{
		ConsentCompleted:    true,
		PreQuizCompleted:    true,
		PostQuizCompleted:   true,
		PostQuizCompletedAt: &completed,
		StudyCompleted:      true,
	}
	result, _ := gate.Evaluate(progress, domain.PhaseTransfer, now)
	if result.Allowed {
		t.Fatalf("expected denial after study completion")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	completed := now.Add(-10 * time.Hour)
	progress := &domain.ParticipantProgress{
		ConsentCompleted:    true,
		PreQuizCompleted:    true,
		PostQuizCompleted:   true,
		PostQuizCompletedAt: &completed,
	}
	first, _ := gate.Evaluate(progress, domain.PhaseTransfer, now)
	second, _ := gate.Evaluate(progress, domain.PhaseTransfer, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical inputs: %+v vs %+v", first, second)
	}
}

func TestChecklistIndependentOfOutcome(t *testing.T) {
	denied, _ := gate.Evaluate(&domain.ParticipantProgress{}, domain.PhaseTransfer, now)
	completed := now.Add(-25 * time.Hour)
	allowed, _ := gate.Evaluate(&domain.ParticipantProgress{
		ConsentCompleted:     true,
		PreQuizCompleted:     true,
		InteractionCompleted: true,
		PostQuizCompleted:    true,
		PostQuizCompletedAt:  &completed,
	}, domain.PhaseTransfer, now)

	if len(denied.Steps) != len(allowed.Steps) {
		t.Fatalf("checklist shape should not depend on the verdict: %d vs %d", len(denied.Steps), len(allowed.Steps))
	}
	for i := range denied.Steps {
		if denied.Steps[i].Label != allowed.Steps[i].Label {
			t.Fatalf("step %d label differs: %q vs %q", i, denied.Steps[i].Label, allowed.Steps[i].Label)
		}
	}
}
