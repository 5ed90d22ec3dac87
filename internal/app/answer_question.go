package app

import "kyoto-kentei/internal/domain"

// AnswerOutcome is the immediate feedback for one answer.
type AnswerOutcome struct {
	IsCorrect          bool
	CorrectAnswerIndex int
	// Explanation is nil when the answer was correct.
	Explanation *string
}

// AnswerQuestion grades and records an answer for the quiz's current question.
type AnswerQuestion struct{}

func (AnswerQuestion) Execute(quiz *domain.Quiz, index int) (AnswerOutcome, error) {
	current, ok := quiz.CurrentQuestion()
	if !ok {
		return AnswerOutcome{}, domain.ErrQuizCompleted
	}
	isCorrect := current.IsCorrectAnswer(index)

	if err := quiz.AnswerCurrentQuestion(index); err != nil {
		return AnswerOutcome{}, err
	}

	outcome := AnswerOutcome{
		IsCorrect:          isCorrect,
		CorrectAnswerIndex: current.CorrectAnswerIndex(),
	}
	if !isCorrect {
		explanation := current.Explanation()
		outcome.Explanation = &explanation
	}
	return outcome, nil
}
