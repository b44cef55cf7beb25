package memory

import (
	"study-session-service/internal/domain"
)

// FixedQuestionProvider serves the locally bundled question sets used when
// the authoritative content source is unreachable. The sets are copied on
// every call so sessions can never share question slices.
type FixedQuestionProvider struct{}

func NewFixedQuestionProvider() *FixedQuestionProvider {
	return &FixedQuestionProvider{}
}

func (p *FixedQuestionProvider) FixedQuestions(phase domain.Phase) []domain.Question {
	source := fixedSets[phase]
	questions := make([]domain.Question, len(source))
	copy(questions, source)
	for i := range questions {
		choices := make([]domain.Choice, len(source[i].Choices))
		copy(choices, source[i].Choices)
		questions[i].Choices = choices
	}
	return questions
}

// DefaultPhaseContent exposes the bundled sets as full quiz content, used to
// seed the static loader when no backing store is configured.
func DefaultPhaseContent() map[domain.Phase]domain.QuizContent {
	provider := NewFixedQuestionProvider()
	content := make(map[domain.Phase]domain.QuizContent, len(fixedSets))
	for phase := range fixedSets {
		c := domain.QuizContent{Questions: provider.FixedQuestions(phase)}
		c.ApplyDefaults(phase)
		content[phase] = c
	}
	return content
}

var fixedSets = map[domain.Phase][]domain.Question{
	domain.PhasePreAssessment: {
		{
			ID:       "pre-1",
			Text:     "Which memory system holds information for only a few seconds without rehearsal?",
			Type:     domain.QuestionMultipleChoice,
			Required: true,
			Choices: []domain.Choice{
				{ID: "pre-1-a", Text: "Sensory memory", Order: 1},
				{ID: "pre-1-b", Text: "Short-term memory", IsCorrect: true, Order: 2},
				{ID: "pre-1-c", Text: "Long-term memory", Order: 3},
				{ID: "pre-1-d", Text: "Procedural memory", Order: 4},
			},
			Difficulty:  "easy",
			Category:    "memory-systems",
			Explanation: "Short-term memory decays within seconds unless the material is rehearsed.",
		},
		{
			ID:       "pre-2",
			Text:     "Re-reading a chapter several times is the most effective way to remember it long term.",
			Type:     domain.QuestionTrueFalse,
			Required: true,
			Choices: []domain.Choice{
				{ID: "pre-2-a", Text: "True", Order: 1},
				{ID: "pre-2-b", Text: "False", IsCorrect: true, Order: 2},
			},
			Difficulty:  "medium",
			Category:    "study-strategies",
			Explanation: "Passive re-reading produces weaker retention than active retrieval practice.",
		},
		{
			ID:       "pre-3",
			Text:     "Spreading study sessions across several days, rather than cramming, tends to:",
			Type:     domain.QuestionMultipleChoice,
			Required: false,
			Choices: []domain.Choice{
				{ID: "pre-3-a", Text: "Improve long-term retention", IsCorrect: true, Order: 1},
				{ID: "pre-3-b", Text: "Reduce long-term retention", Order: 2},
				{ID: "pre-3-c", Text: "Have no measurable effect", Order: 3},
			},
			Difficulty:  "easy",
			Category:    "study-strategies",
			Explanation: "The spacing effect is one of the most robust findings in memory research.",
		},
	},
	domain.PhaseImmediateRecall: {
		{
			ID:       "recall-1",
			Text:     "According to the lesson, what is the main benefit of retrieval practice?",
			Type:     domain.QuestionMultipleChoice,
			Required: true,
			Choices: []domain.Choice{
				{ID: "recall-1-a", Text: "It makes studying feel easier", Order: 1},
				{ID: "recall-1-b", Text: "It strengthens the memory trace each time it is recalled", IsCorrect: true, Order: 2},
				{ID: "recall-1-c", Text: "It shortens total study time", Order: 3},
			},
			Difficulty:  "easy",
			Category:    "retrieval-practice",
			Explanation: "Each successful retrieval consolidates the memory and slows forgetting.",
		},
		{
			ID:       "recall-2",
			Text:     "The lesson described forgetting as fastest immediately after learning.",
			Type:     domain.QuestionTrueFalse,
			Required: true,
			Choices: []domain.Choice{
				{ID: "recall-2-a", Text: "True", IsCorrect: true, Order: 1},
				{ID: "recall-2-b", Text: "False", Order: 2},
			},
			Difficulty:  "easy",
			Category:    "forgetting-curve",
			Explanation: "Ebbinghaus's forgetting curve drops steeply in the first hours after learning.",
		},
		{
			ID:       "recall-3",
			Text:     "Which practice schedule did the lesson recommend for durable learning?",
			Type:     domain.QuestionMultipleChoice,
			Required: true,
			Choices: []domain.Choice{
				{ID: "recall-3-a", Text: "One long session the night before a test", Order: 1},
				{ID: "recall-3-b", Text: "Short sessions spaced over several days", IsCorrect: true, Order: 2},
				{ID: "recall-3-c", Text: "Reviewing notes only when they feel forgotten", Order: 3},
			},
			Difficulty:  "medium",
			Category:    "study-strategies",
			Explanation: "Spaced short sessions outperform massed practice for long-term retention.",
		},
	},
	domain.PhaseTransfer: {
		{
			ID:       "transfer-1",
			Text:     "A student has two weeks before an exam. Which plan best applies the spacing effect?",
			Type:     domain.QuestionMultipleChoice,
			Required: true,
			Choices: []domain.Choice{
				{ID: "transfer-1-a", Text: "Study everything in one session the day before", Order: 1},
				{ID: "transfer-1-b", Text: "Review the material in short sessions every few days", IsCorrect: true, Order: 2},
				{ID: "transfer-1-c", Text: "Read the textbook once at the start and rest", Order: 3},
			},
			Difficulty:  "medium",
			Category:    "application",
			Explanation: "Distributing the same study time across the two weeks maximizes retention.",
		},
		{
			ID:       "transfer-2",
			Text:     "Closing the book and writing down everything you remember is a form of retrieval practice.",
			Type:     domain.QuestionTrueFalse,
			Required: true,
			Choices: []domain.Choice{
				{ID: "transfer-2-a", Text: "True", IsCorrect: true, Order: 1},
				{ID: "transfer-2-b", Text: "False", Order: 2},
			},
			Difficulty:  "easy",
			Category:    "application",
			Explanation: "Free recall forces retrieval from memory rather than recognition from the page.",
		},
		{
			ID:       "transfer-3",
			Text:     "A language app shows a word again just before you would forget it. Which principle is it using?",
			Type:     domain.QuestionMultipleChoice,
			Required: true,
			Choices: []domain.Choice{
				{ID: "transfer-3-a", Text: "Expanding spaced repetition", IsCorrect: true, Order: 1},
				{ID: "transfer-3-b", Text: "Massed practice", Order: 2},
				{ID: "transfer-3-c", Text: "Passive review", Order: 3},
			},
			Difficulty:  "hard",
			Category:    "application",
			Explanation: "Scheduling reviews at the edge of forgetting is spaced repetition with expanding intervals.",
		},
	},
}
