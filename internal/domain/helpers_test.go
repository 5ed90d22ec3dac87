package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

var fixedNow = time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

func newQuestion(t *testing.T, id, category string, correct int) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(domain.QuestionParams{
		ID:                 id,
		Level:              "3級",
		Category:           category,
		ExamYear:           "2023",
		Text:               "question " + id,
		Options:            []string{"a", "b", "c", "d"},
		CorrectAnswerIndex: correct,
		Explanation:        "because " + id,
	})
	require.NoError(t, err)
	return q
}

func newQuiz(t *testing.T, questions ...domain.Question) *domain.Quiz {
	t.Helper()
	quiz, err := domain.NewQuiz("quiz-1", domain.Level3, questions, fixedNow)
	require.NoError(t, err)
	return quiz
}

// play answers every question in order and completes the quiz.
func play(t *testing.T, quiz *domain.Quiz, answers ...int) {
	t.Helper()
	for _, a := range answers {
		require.NoError(t, quiz.AnswerCurrentQuestion(a))
		require.NoError(t, quiz.MoveToNextQuestion())
	}
}
