package app

import (
	"time"

	"kyoto-kentei/internal/domain"
)

// CalculateResult turns a completed quiz into a QuizResult.
type CalculateResult struct {
	now func() time.Time
}

func NewCalculateResult(now func() time.Time) *CalculateResult {
	if now == nil {
		now = time.Now
	}
	return &CalculateResult{now: now}
}

// Execute fails with domain.ErrQuizNotCompleted on an unfinished quiz.
// The result's completion time is the clock at this call, which can lag the
// moment the last question was answered if the caller waits.
func (uc *CalculateResult) Execute(quiz *domain.Quiz) (domain.QuizResult, error) {
	if !quiz.IsCompleted() {
		return domain.QuizResult{}, domain.ErrQuizNotCompleted
	}
	return domain.NewQuizResult(quiz, domain.ScoreCategories(quiz), uc.now())
}
