package app

import (
	"context"
	"math"
	"sync"
	"time"

	"study-session-service/internal/domain"
)

// SessionState names the engine's lifecycle states.
type SessionState string

const (
	StateLoading      SessionState = "loading"
	StateActive       SessionState = "active"
	StateSubmitting   SessionState = "submitting"
	StateCompleted    SessionState = "completed"
	StateLoadFailed   SessionState = "load-failed"
	StateSubmitFailed SessionState = "submit-failed"
)

// QuestionStatus is the display status of one question. Answered takes
// precedence over Current.
type QuestionStatus string

const (
	StatusAnswered   QuestionStatus = "answered"
	StatusCurrent    QuestionStatus = "current"
	StatusUnanswered QuestionStatus = "unanswered"
)

// Snapshot is a point-in-time view of a session, safe to hand to transports.
type Snapshot struct {
	SessionID           string           `json:"sessionId"`
	Phase               domain.Phase     `json:"phase"`
	State               SessionState     `json:"state"`
	CurrentIndex        int              `json:"currentIndex"`
	TotalQuestions      int              `json:"totalQuestions"`
	AnsweredCount       int              `json:"answeredCount"`
	ProgressPercent     int              `json:"progressPercent"`
	TotalElapsedSeconds int              `json:"totalElapsedSeconds"`
	CurrentElapsed      int              `json:"currentElapsedSeconds"`
	Statuses            []QuestionStatus `json:"statuses"`
}

// Session drives one quiz attempt for a single phase: question navigation,
// per-question and total timing, answer recording, scoring and submission.
// All mutation happens under one mutex; discrete events run to completion.
type Session struct {
	id     string
	userID string
	phase  domain.Phase

	recorder   ResultRecorder
	now        func() time.Time
	tickEvery  time.Duration
	onComplete func(domain.QuizAttempt)
	onClose    func()

	mu          sync.Mutex
	state       SessionState
	content     domain.QuizContent
	current     int
	responses   map[string]domain.Response
	perQuestion map[string]int
	totalSecs   int
	startedAt   time.Time
	tickStop    chan struct{}
	closed      bool
	fired       bool
	progress    *domain.ParticipantProgress
	subscribers map[chan Snapshot]struct{}
}

func newSession(id, userID string, phase domain.Phase, recorder ResultRecorder, now func() time.Time, tickEvery time.Duration) *Session {
	return &Session{
		id:          id,
		userID:      userID,
		phase:       phase,
		recorder:    recorder,
		now:         now,
		tickEvery:   tickEvery,
		state:       StateLoading,
		responses:   make(map[string]domain.Response),
		perQuestion: make(map[string]int),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the phase this session was started for.
func (s *Session) Phase() domain.Phase { return s.phase }

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Content returns the loaded question set and its metadata.
func (s *Session) Content() domain.QuizContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Response returns the recorded answer for a question, if any.
func (s *Session) Response(questionID string) (domain.Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.responses[questionID]
	return r, ok
}

// UpdatedProgress returns the participant record handed back by the result
// recorder after a successful submission, nil before completion.
func (s *Session) UpdatedProgress() *domain.ParticipantProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// activate installs the loaded content and enters Active. Per-session state
// is reset in one place regardless of which content tier supplied the
// questions.
func (s *Session) activate(content domain.QuizContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	s.current = 0
	s.responses = make(map[string]domain.Response)
	s.perQuestion = make(map[string]int)
	s.totalSecs = 0
	s.startedAt = s.now()
	s.state = StateActive
	s.startTickingLocked()
	s.broadcastLocked()
}

func (s *Session) failLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateLoadFailed
	s.broadcastLocked()
}

// SelectAnswer records the participant's choice for a question. It is a
// no-op unless the session is Active and both identifiers resolve. The last
// selection wins; no history is kept.
func (s *Session) SelectAnswer(questionID, choiceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.closed {
		return
	}
	question := s.questionLocked(questionID)
	if question == nil {
		return
	}
	var choice *domain.Choice
	for i := range question.Choices {
		if question.Choices[i].ID == choiceID {
			choice = &question.Choices[i]
			break
		}
	}
	if choice == nil {
		return
	}
	s.responses[questionID] = domain.Response{
		QuestionID:       questionID,
		ChoiceID:         choiceID,
		IsCorrect:        choice.IsCorrect,
		TimeSpentSeconds: s.perQuestion[questionID],
		AnsweredAt:       s.now(),
	}
	s.broadcastLocked()
}

// Navigate moves the cursor to the given question index, clamped to the
// valid range. Responses and timers are untouched beyond tick semantics.
func (s *Session) Navigate(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	switch s.state {
	case StateActive, StateSubmitting, StateSubmitFailed:
	default:
		return
	}
	if index < 0 {
		index = 0
	}
	if max := len(s.content.Questions) - 1; index > max {
		index = max
	}
	s.current = index
	s.broadcastLocked()
}

// Tick advances the active question's elapsed time and the session total by
// one second. Timing follows the cursor: switching questions resumes that
// question's own counter, while the total accumulates monotonically.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.closed || len(s.content.Questions) == 0 {
		return
	}
	s.perQuestion[s.content.Questions[s.current].ID]++
	s.totalSecs++
	s.broadcastLocked()
}

// Submit finalizes the session. It validates required answers, builds the
// attempt, and delivers it to the result recorder. A transport failure moves
// the session to SubmitFailed with every piece of local state untouched, so
// the caller may retry without re-answering; retries are unlimited.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateActive, StateSubmitFailed:
	case StateSubmitting:
		s.mu.Unlock()
		return domain.ErrSubmitInFlight
	default:
		s.mu.Unlock()
		return domain.ErrSessionNotActive
	}
	missing := 0
	for _, q := range s.content.Questions {
		if q.Required {
			if _, ok := s.responses[q.ID]; !ok {
				missing++
			}
		}
	}
	if missing > 0 {
		s.mu.Unlock()
		return &domain.ValidationError{MissingRequired: missing}
	}
	s.state = StateSubmitting
	s.stopTickingLocked()
	attempt := s.buildAttemptLocked()
	s.broadcastLocked()
	s.mu.Unlock()

	updated, err := s.recorder.RecordAttempt(ctx, attempt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateSubmitFailed
		s.broadcastLocked()
		return err
	}
	s.state = StateCompleted
	s.progress = updated
	s.broadcastLocked()
	if !s.closed && !s.fired && s.onComplete != nil {
		s.fired = true
		s.onComplete(attempt)
	}
	return nil
}

// Close tears the session down: the ticker stops, subscribers are released
// and the completion callback becomes a no-op. An in-flight submission is
// still allowed to resolve so its result is not lost.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTickingLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	onClose := s.onClose
	s.mu.Unlock()
	if onClose != nil {
		onClose()
	}
}

// Subscribe returns a channel of snapshots pushed on every state change and
// tick. The caller must invoke the cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// Send while holding the lock so no concurrent broadcast can slip a newer
	// snapshot ahead of the initial one. The fresh buffered channel cannot
	// block here.
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Snapshot reports the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	total := len(s.content.Questions)
	statuses := make([]QuestionStatus, total)
	for i, q := range s.content.Questions {
		switch {
		case s.hasResponseLocked(q.ID):
			statuses[i] = StatusAnswered
		case i == s.current:
			statuses[i] = StatusCurrent
		default:
			statuses[i] = StatusUnanswered
		}
	}
	currentElapsed := 0
	if total > 0 {
		currentElapsed = s.perQuestion[s.content.Questions[s.current].ID]
	}
	return Snapshot{
		SessionID:           s.id,
		Phase:               s.phase,
		State:               s.state,
		CurrentIndex:        s.current,
		TotalQuestions:      total,
		AnsweredCount:       len(s.responses),
		ProgressPercent:     roundPercent(len(s.responses), total),
		TotalElapsedSeconds: s.totalSecs,
		CurrentElapsed:      currentElapsed,
		Statuses:            statuses,
	}
}

func (s *Session) hasResponseLocked(questionID string) bool {
	_, ok := s.responses[questionID]
	return ok
}

func (s *Session) questionLocked(questionID string) *domain.Question {
	for i := range s.content.Questions {
		if s.content.Questions[i].ID == questionID {
			return &s.content.Questions[i]
		}
	}
	return nil
}

// buildAttemptLocked assembles the terminal artifact from session state.
// Answers follow question order so retries produce identical payloads.
func (s *Session) buildAttemptLocked() domain.QuizAttempt {
	correct := 0
	answers := make([]domain.Response, 0, len(s.responses))
	for _, q := range s.content.Questions {
		response, ok := s.responses[q.ID]
		if !ok {
			continue
		}
		answers = append(answers, response)
		if response.IsCorrect {
			correct++
		}
	}
	return domain.QuizAttempt{
		QuizID:           s.content.QuizID,
		UserID:           s.userID,
		SessionID:        s.id,
		Phase:            s.phase,
		StartedAt:        s.startedAt,
		CompletedAt:      s.now(),
		ScorePercent:     roundPercent(correct, len(s.content.Questions)),
		TotalQuestions:   len(s.content.Questions),
		CorrectAnswers:   correct,
		TimeTakenSeconds: s.totalSecs,
		Answers:          answers,
	}
}

// startTickingLocked schedules the per-second tick for the current Active
// stint. The goroutine stops rescheduling the moment the session leaves
// Active, so timing fields are never mutated after submission or teardown.
func (s *Session) startTickingLocked() {
	if s.tickEvery <= 0 || s.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	s.tickStop = stop
	go func() {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Session) stopTickingLocked() {
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow reader never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// roundPercent computes round(100*n/d) with half-up integer rounding.
func roundPercent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(d)))
}
