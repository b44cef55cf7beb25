package domain

import (
	"fmt"
	"time"
)

// Phase identifies one of the three ordered study milestones.
type Phase string

const (
	PhasePreAssessment   Phase = "pre-assessment"
	PhaseImmediateRecall Phase = "immediate-recall"
	PhaseTransfer        Phase = "transfer"
)

// TransferCooldown is the wall-clock delay between completing the immediate
// recall quiz and unlocking the transfer quiz.
const TransferCooldown = 24 * time.Hour

// ParsePhase validates a raw phase identifier. Unknown identifiers are a
// caller error and never default silently.
func ParsePhase(raw string) (Phase, error) {
	switch Phase(raw) {
	case PhasePreAssessment, PhaseImmediateRecall, PhaseTransfer:
		return Phase(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPhase, raw)
}

// PhaseInfo carries the fixed presentation defaults for a phase. Content
// sources may override any field; blanks fall back to these values.
type PhaseInfo struct {
	QuizID           string
	Title            string
	Description      string
	TimeLimitMinutes int
}

// Info returns the default quiz metadata for the phase.
func (p Phase) Info() PhaseInfo {
	switch p {
	case PhasePreAssessment:
		return PhaseInfo{
			QuizID:           "pre-assessment-quiz",
			Title:            "Pre-Assessment Quiz",
			Description:      "Assess your current knowledge before the learning activity.",
			TimeLimitMinutes: 15,
		}
	case PhaseImmediateRecall:
		return PhaseInfo{
			QuizID:           "immediate-recall-quiz",
			Title:            "Immediate Recall Quiz",
			Description:      "Check what you remember right after the learning activity.",
			TimeLimitMinutes: 15,
		}
	case PhaseTransfer:
		return PhaseInfo{
			QuizID:           "transfer-quiz",
			Title:            "Transfer Quiz",
			Description:      "Apply what you learned to new problems.",
			TimeLimitMinutes: 10,
		}
	}
	return PhaseInfo{}
}
