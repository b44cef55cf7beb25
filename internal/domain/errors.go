package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPhase is returned for phase identifiers outside the closed
	// enumeration. Unknown phases fail loudly, they never default.
	ErrUnknownPhase = errors.New("unknown study phase")
	// ErrNoQuestions indicates both the primary content source and the local
	// fallback yielded an empty question set.
	ErrNoQuestions = errors.New("no questions available for phase")
	// ErrSessionNotActive is returned when an operation requires an active
	// session (e.g. submitting after completion).
	ErrSessionNotActive = errors.New("quiz session is not active")
	// ErrSubmitInFlight guards against re-entrant submissions while one is
	// already outstanding.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrParticipantNotFound is returned when no progress record exists for
	// the given user.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrContentNotFound indicates the backing store has no quiz for a phase.
	ErrContentNotFound = errors.New("quiz content not found")
)

// ValidationError blocks submission while required questions remain
// unanswered. It is inline and non-fatal; the session stays active.
type ValidationError struct {
	MissingRequired int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d required question(s) unanswered", e.MissingRequired)
}
