package app

import (
	"context"

	"kyoto-kentei/internal/domain"
)

// QuestionRepository is the read-only question bank.
type QuestionRepository interface {
	FindAll(ctx context.Context) ([]domain.Question, error)
	FindByLevel(ctx context.Context, level domain.Level) ([]domain.Question, error)
	FindByID(ctx context.Context, id domain.QuestionID) (domain.Question, bool, error)
}

// HistoryRepository is the append-only log of finished quizzes.
// Implementations log and swallow storage failures; reads fall back to empty.
type HistoryRepository interface {
	Save(ctx context.Context, record domain.ResultRecord)
	FindAll(ctx context.Context) []domain.ResultRecord
	Clear(ctx context.Context)
}

// QuestionReportRepository stores question reports keyed by question id.
// Same failure contract as HistoryRepository.
type QuestionReportRepository interface {
	FindByQuestionID(ctx context.Context, id domain.QuestionID) (*domain.QuestionReport, bool)
	Save(ctx context.Context, report *domain.QuestionReport)
	FindAll(ctx context.Context) []*domain.QuestionReport
	Clear(ctx context.Context)
}

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id domain.QuizID) (*Session, bool)
	Delete(id domain.QuizID)
}

// RandomSource is the randomness StartQuiz samples with. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Metrics receives quiz lifecycle events.
type Metrics interface {
	QuizStarted(level domain.Level)
	QuizFinished(level domain.Level, accuracy domain.Accuracy)
	QuestionReported()
}

type noopMetrics struct{}

func (noopMetrics) QuizStarted(domain.Level)                   {}
func (noopMetrics) QuizFinished(domain.Level, domain.Accuracy) {}
func (noopMetrics) QuestionReported()                          {}
