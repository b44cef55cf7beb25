package domain

import (
	"sort"
	"time"
)

// ParticipantProgress is the externally owned record of a participant's path
// through the study. The core only reads it; flags are monotonic and are
// advanced exclusively by the result recorder after a successful submission.
type ParticipantProgress struct {
	UserID               string     `json:"userId"`
	ConsentCompleted     bool       `json:"consentCompleted"`
	PreQuizCompleted     bool       `json:"preQuizCompleted"`
	InteractionCompleted bool       `json:"interactionCompleted"`
	PostQuizCompleted    bool       `json:"postQuizCompleted"`
	PostQuizCompletedAt  *time.Time `json:"postQuizCompletedAt,omitempty"`
	StudyCompleted       bool       `json:"studyCompleted"`
}

// ApplyCompletion advances the progress flags for a finished phase. Flags only
// ever move forward; completing a phase twice is harmless.
func (p *ParticipantProgress) ApplyCompletion(phase Phase, completedAt time.Time) {
	switch phase {
	case PhasePreAssessment:
		p.PreQuizCompleted = true
	case PhaseImmediateRecall:
		if !p.PostQuizCompleted {
			at := completedAt
			p.PostQuizCompletedAt = &at
		}
		p.PostQuizCompleted = true
	case PhaseTransfer:
		p.StudyCompleted = true
	}
}

// EligibilityStep is one entry of the prerequisite checklist shown to the
// participant for a phase.
type EligibilityStep struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Eligibility is the gate's verdict for one (participant, phase) pair.
// Reason is set only when Allowed is false and is a human-actionable sentence.
type Eligibility struct {
	Allowed bool              `json:"allowed"`
	Reason  string            `json:"reason,omitempty"`
	Steps   []EligibilityStep `json:"steps"`
}

// QuestionType distinguishes the supported question renderings.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
)

// Choice is one selectable answer for a question.
type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

// Question models a single quiz item. Choices render in ascending Order;
// ties keep their original sequence position.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Choices     []Choice     `json:"choices"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Category    string       `json:"category,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// SortChoices orders the choices for display.
func (q *Question) SortChoices() {
	sort.SliceStable(q.Choices, func(i, j int) bool {
		return q.Choices[i].Order < q.Choices[j].Order
	})
}

// QuizContent is an ordered question set plus its presentation metadata.
type QuizContent struct {
	QuizID           string     `json:"quizId"`
	Phase            Phase      `json:"phase"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	Questions        []Question `json:"questions"`
}

// ApplyDefaults fills blank metadata from the phase's fixed defaults and
// normalizes choice ordering.
func (c *QuizContent) ApplyDefaults(phase Phase) {
	info := phase.Info()
	c.Phase = phase
	if c.QuizID == "" {
		c.QuizID = info.QuizID
	}
	if c.Title == "" {
		c.Title = info.Title
	}
	if c.Description == "" {
		c.Description = info.Description
	}
	if c.TimeLimitMinutes == 0 {
		c.TimeLimitMinutes = info.TimeLimitMinutes
	}
	for i := range c.Questions {
		c.Questions[i].SortChoices()
	}
}

// Response records the participant's latest answer to one question.
// Re-selecting overwrites the previous response; no history is kept.
type Response struct {
	QuestionID       string    `json:"questionId"`
	ChoiceID         string    `json:"choiceId"`
	IsCorrect        bool      `json:"isCorrect"`
	TimeSpentSeconds int       `json:"timeSpentSeconds"`
	AnsweredAt       time.Time `json:"answeredAt"`
}

// QuizAttempt is the finalized record of a completed session. It is built
// exactly once at submission time and is immutable afterward.
type QuizAttempt struct {
	QuizID           string     `json:"quizId"`
	UserID           string     `json:"userId"`
	SessionID        string     `json:"sessionId"`
	Phase            Phase      `json:"phase"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      time.Time  `json:"completedAt"`
	ScorePercent     int        `json:"scorePercent"`
	TotalQuestions   int        `json:"totalQuestions"`
	CorrectAnswers   int        `json:"correctAnswers"`
	TimeTakenSeconds int        `json:"timeTakenSeconds"`
	Answers          []Response `json:"answers"`
}
