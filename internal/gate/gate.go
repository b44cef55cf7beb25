// Package gate decides whether a participant may enter a study phase.
// Evaluation is a pure function of the progress record and the clock; all
// I/O (loading the record, rendering the checklist) belongs to callers.
package gate

import (
	"fmt"
	"math"
	"time"

	"study-session-service/internal/domain"
)

// ReasonSignedOut is the denial reason when no participant record exists.
const ReasonSignedOut = "You must be signed in to take part in the study."

// Evaluate applies the phase entry rules to a progress record at the given
// instant. A nil progress means no signed-in participant. The returned
// checklist is fixed per phase and is populated regardless of the verdict.
// Unknown phases are a caller error.
func Evaluate(progress *domain.ParticipantProgress, phase domain.Phase, now time.Time) (domain.Eligibility, error) {
	if _, err := domain.ParsePhase(string(phase)); err != nil {
		return domain.Eligibility{}, err
	}

	result := domain.Eligibility{Steps: checklist(progress, phase)}
	if progress == nil {
		result.Reason = ReasonSignedOut
		return result, nil
	}

	if reason := denialReason(progress, phase, now); reason != "" {
		result.Reason = reason
		return result, nil
	}
	result.Allowed = true
	return result, nil
}

// denialReason walks the phase's checks in priority order and returns the
// first failure, or "" when access is granted.
func denialReason(p *domain.ParticipantProgress, phase domain.Phase, now time.Time) string {
	switch phase {
	case domain.PhasePreAssessment:
		if !p.ConsentCompleted {
			return "You must sign the consent form before starting the pre-assessment."
		}
		if p.PreQuizCompleted {
			return "You have already completed the pre-assessment quiz."
		}
	case domain.PhaseImmediateRecall:
		if !p.ConsentCompleted {
			return "You must sign the consent form first."
		}
		if !p.PreQuizCompleted {
			return "Complete the pre-assessment quiz before the learning activity."
		}
		if !p.InteractionCompleted {
			return "Complete the learning activity before the immediate recall quiz."
		}
		if p.PostQuizCompleted {
			return "You have already completed the immediate recall quiz."
		}
	case domain.PhaseTransfer:
		if !p.PostQuizCompleted {
			return "Complete the immediate recall quiz before the transfer quiz."
		}
		if p.StudyCompleted {
			return "You have already completed the study. Thank you for participating!"
		}
		if p.PostQuizCompletedAt == nil {
			return "The transfer quiz becomes available 24 hours after the immediate recall quiz."
		}
		if remaining := hoursUntilUnlock(*p.PostQuizCompletedAt, now); remaining > 0 {
			return fmt.Sprintf("The transfer quiz unlocks in %d hour(s).", remaining)
		}
	}
	return ""
}

// hoursUntilUnlock returns the whole hours left in the transfer cooldown,
// rounded up; zero or negative means the cooldown has elapsed.
func hoursUntilUnlock(postQuizAt, now time.Time) int {
	elapsed := now.Sub(postQuizAt).Hours()
	return int(math.Ceil(domain.TransferCooldown.Hours() - elapsed))
}

// checklist builds the fixed prerequisite list for a phase. Done flags come
// straight from the progress record; a nil record leaves every step open.
func checklist(p *domain.ParticipantProgress, phase domain.Phase) []domain.EligibilityStep {
	var blank domain.ParticipantProgress
	if p == nil {
		p = &blank
	}

	consent := domain.EligibilityStep{Label: "Sign the consent form", Done: p.ConsentCompleted}
	preQuiz := domain.EligibilityStep{Label: "Complete the pre-assessment quiz", Done: p.PreQuizCompleted}
	interaction := domain.EligibilityStep{Label: "Complete the learning activity", Done: p.InteractionCompleted}
	postQuiz := domain.EligibilityStep{Label: "Complete the immediate recall quiz", Done: p.PostQuizCompleted}

	switch phase {
	case domain.PhasePreAssessment:
		return []domain.EligibilityStep{consent}
	case domain.PhaseImmediateRecall:
		return []domain.EligibilityStep{consent, preQuiz, interaction}
	case domain.PhaseTransfer:
		return []domain.EligibilityStep{consent, preQuiz, interaction, postQuiz}
	}
	return nil
}
