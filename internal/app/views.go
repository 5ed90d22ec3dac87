package app

import (
	"time"

	"kyoto-kentei/internal/domain"
)

// QuestionView is what a player sees of a question. The answer key is omitted.
type QuestionView struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	ExamYear string   `json:"examYear"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizState describes where a player is in a quiz.
type QuizState struct {
	QuizID          string        `json:"quizId"`
	Level           string        `json:"level"`
	CurrentQuestion int           `json:"currentQuestion"`
	TotalQuestions  int           `json:"totalQuestions"`
	Question        *QuestionView `json:"question,omitempty"`
	CanMoveNext     bool          `json:"canMoveNext"`
	Completed       bool          `json:"completed"`
}

// Feedback is returned right after an answer.
type Feedback struct {
	QuestionID         string  `json:"questionId"`
	SelectedIndex      int     `json:"selectedIndex"`
	IsCorrect          bool    `json:"isCorrect"`
	CorrectAnswerIndex int     `json:"correctAnswerIndex"`
	Explanation        *string `json:"explanation,omitempty"`
	IsLastQuestion     bool    `json:"isLastQuestion"`
}

// CategoryResult is one row of the per-category breakdown.
type CategoryResult struct {
	Category     string `json:"category"`
	CorrectCount int    `json:"correctCount"`
	TotalCount   int    `json:"totalCount"`
	Accuracy     int    `json:"accuracy"`
}

// ResultView is the result screen of a finished quiz.
type ResultView struct {
	QuizID          string           `json:"quizId"`
	Level           string           `json:"level"`
	CorrectCount    int              `json:"correctCount"`
	TotalQuestions  int              `json:"totalQuestions"`
	Accuracy        int              `json:"accuracy"`
	CategoryResults []CategoryResult `json:"categoryResults"`
	WeakCategories  []CategoryResult `json:"weakCategories"`
	CompletedAt     time.Time        `json:"completedAt"`
}

func newQuestionView(q domain.Question) *QuestionView {
	return &QuestionView{
		ID:       q.ID().String(),
		Category: q.Category().String(),
		ExamYear: q.ExamYear(),
		Text:     q.Text(),
		Options:  q.Options(),
	}
}

func newQuizState(quiz *domain.Quiz) QuizState {
	state := QuizState{
		QuizID:          quiz.ID().String(),
		Level:           quiz.Level().String(),
		CurrentQuestion: quiz.CurrentQuestionIndex() + 1,
		TotalQuestions:  quiz.TotalQuestions(),
		Completed:       quiz.IsCompleted(),
	}
	if current, ok := quiz.CurrentQuestion(); ok {
		state.Question = newQuestionView(current)
		_, state.CanMoveNext = quiz.Answer(current.ID())
	} else {
		state.CurrentQuestion = quiz.TotalQuestions()
	}
	return state
}

func newCategoryResults(stats []domain.CategoryStatistics) []CategoryResult {
	rows := make([]CategoryResult, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, CategoryResult{
			Category:     s.Category().String(),
			CorrectCount: s.CorrectCount(),
			TotalCount:   s.TotalCount(),
			Accuracy:     s.Accuracy().Value(),
		})
	}
	return rows
}

func newResultView(result domain.QuizResult, weakThreshold int) ResultView {
	return ResultView{
		QuizID:          result.Quiz().ID().String(),
		Level:           result.Quiz().Level().String(),
		CorrectCount:    result.CorrectCount(),
		TotalQuestions:  result.TotalQuestions(),
		Accuracy:        result.Accuracy().Value(),
		CategoryResults: newCategoryResults(result.CategoryStatistics()),
		WeakCategories:  newCategoryResults(result.WeakCategories(weakThreshold)),
		CompletedAt:     result.CompletedAt(),
	}
}
