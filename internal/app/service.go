package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"study-session-service/internal/domain"
	"study-session-service/internal/gate"
)

// ContentRepository fetches the authoritative question set for a phase
// (from cache/backing store).
type ContentRepository interface {
	FetchQuestions(ctx context.Context, phase domain.Phase) (domain.QuizContent, error)
}

// FallbackProvider serves the locally bundled question sets. It is consulted
// only after the primary content source fails, never first.
type FallbackProvider interface {
	FixedQuestions(phase domain.Phase) []domain.Question
}

// ResultRecorder is the submission transport. A returned error means the
// attempt was not accepted and the session may retry; on success it may hand
// back an updated participant record.
type ResultRecorder interface {
	RecordAttempt(ctx context.Context, attempt domain.QuizAttempt) (*domain.ParticipantProgress, error)
}

// ParticipantStore supplies the current progress record for a participant.
// Read-only from the core's perspective.
type ParticipantStore interface {
	GetProgress(ctx context.Context, userID string) (*domain.ParticipantProgress, error)
}

// SessionRegistry marks live sessions in shared infrastructure so other
// instances can observe them. Implementations are best-effort.
type SessionRegistry interface {
	MarkLive(ctx context.Context, sessionID, userID string)
	Drop(ctx context.Context, sessionID string)
}

// SessionService wires the eligibility gate and the session engine to their
// collaborators. One service serves many concurrent sessions; each session
// owns independent state.
type SessionService struct {
	content      ContentRepository
	fallback     FallbackProvider
	recorder     ResultRecorder
	participants ParticipantStore
	registry     SessionRegistry
	now          func() time.Time
	tickEvery    time.Duration
}

func NewSessionService(content ContentRepository, fallback FallbackProvider, recorder ResultRecorder, participants ParticipantStore, registry SessionRegistry) *SessionService {
	return &SessionService{
		content:      content,
		fallback:     fallback,
		recorder:     recorder,
		participants: participants,
		registry:     registry,
		now:          time.Now,
		tickEvery:    time.Second,
	}
}

// NewSessionServiceWithClock is test-only: a deterministic clock plus a tick
// interval of zero disables the background ticker so tests drive Tick
// themselves.
func NewSessionServiceWithClock(content ContentRepository, fallback FallbackProvider, recorder ResultRecorder, participants ParticipantStore, registry SessionRegistry, now func() time.Time, tickEvery time.Duration) *SessionService {
	s := NewSessionService(content, fallback, recorder, participants, registry)
	s.now = now
	s.tickEvery = tickEvery
	return s
}

// CheckEligibility loads the participant's progress and evaluates the gate
// for a phase. A missing participant record evaluates as signed-out rather
// than erroring, so the checklist still renders.
func (s *SessionService) CheckEligibility(ctx context.Context, userID string, phase domain.Phase) (domain.Eligibility, error) {
	var progress *domain.ParticipantProgress
	if userID != "" {
		loaded, err := s.participants.GetProgress(ctx, userID)
		switch {
		case err == nil:
			progress = loaded
		case errors.Is(err, domain.ErrParticipantNotFound):
		default:
			return domain.Eligibility{}, err
		}
	}
	return gate.Evaluate(progress, phase, s.now())
}

// StartSession creates a session for a phase and loads its questions. On an
// unrecoverable load failure the returned session is terminal LoadFailed and
// the error tells the caller to leave. onComplete fires exactly once, with
// the final attempt, unless the session was closed first.
func (s *SessionService) StartSession(ctx context.Context, userID string, phase domain.Phase, onComplete func(domain.QuizAttempt)) (*Session, error) {
	if _, err := domain.ParsePhase(string(phase)); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	session := newSession(sessionID, userID, phase, s.recorder, s.now, s.tickEvery)
	session.onComplete = onComplete

	content, err := s.loadQuestions(ctx, phase)
	if err != nil {
		session.failLoad()
		return session, err
	}

	if s.registry != nil {
		s.registry.MarkLive(ctx, sessionID, userID)
		registry := s.registry
		session.onClose = func() {
			registry.Drop(context.Background(), sessionID)
		}
	}

	session.activate(content)
	return session, nil
}

// loadQuestions is the single two-tier loading path: primary source first,
// fixed fallback on failure. Session initialization never forks on the tier
// that supplied the questions.
func (s *SessionService) loadQuestions(ctx context.Context, phase domain.Phase) (domain.QuizContent, error) {
	content, err := s.content.FetchQuestions(ctx, phase)
	if err != nil || len(content.Questions) == 0 {
		if err != nil {
			log.Printf("content source failed for %s, using fixed set: %v", phase, err)
		}
		content = domain.QuizContent{Questions: s.fallback.FixedQuestions(phase)}
	}
	if len(content.Questions) == 0 {
		return domain.QuizContent{}, domain.ErrNoQuestions
	}
	content.ApplyDefaults(phase)
	return content, nil
}
