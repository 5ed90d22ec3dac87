package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/domain"
	"kyoto-kentei/internal/infra/memory"
)

var fixedNow = time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// firstPick makes StartQuiz keep the bank order.
type firstPick struct{}

func (firstPick) Intn(int) int { return 0 }

type failingLoader struct{}

func (failingLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	return nil, errors.New("fetch questions.json: 503")
}

func newQuestion(t *testing.T, id, level, category string, correct int) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(domain.QuestionParams{
		ID:                 id,
		Level:              level,
		Category:           category,
		ExamYear:           "2022",
		Text:               "question " + id,
		Options:            []string{"金閣寺", "銀閣寺", "清水寺", "東寺"},
		CorrectAnswerIndex: correct,
		Explanation:        "explanation " + id,
	})
	require.NoError(t, err)
	return q
}

// bank holds five 3級 questions alternating between two categories, all keyed 0,
// plus one 2級 question.
func bank(t *testing.T) []domain.Question {
	t.Helper()
	qs := make([]domain.Question, 0, 6)
	for i := 1; i <= 5; i++ {
		category := "歴史"
		if i%2 == 0 {
			category = "寺院"
		}
		qs = append(qs, newQuestion(t, fmt.Sprintf("q%d", i), "3級", category, 0))
	}
	return append(qs, newQuestion(t, "q6", "2級", "行事", 1))
}

func questionRepo(t *testing.T) *memory.QuestionRepository {
	t.Helper()
	return memory.NewQuestionRepository(memory.NewStaticQuestionLoader(bank(t)), 0)
}

type fixture struct {
	service  *app.QuizService
	history  *memory.HistoryStore
	reports  *memory.ReportStore
	sessions *memory.SessionStore
	metrics  *recordingMetrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		history:  memory.NewHistoryStore(),
		reports:  memory.NewReportStore(),
		sessions: memory.NewSessionStore(),
		metrics:  &recordingMetrics{},
	}
	f.service = app.NewQuizService(f.sessions, questionRepo(t), f.history, f.reports,
		app.WithRandom(firstPick{}),
		app.WithClock(clock),
		app.WithMetrics(f.metrics),
	)
	return f
}

type recordingMetrics struct {
	started, finished, reported int
}

func (m *recordingMetrics) QuizStarted(domain.Level)                   { m.started++ }
func (m *recordingMetrics) QuizFinished(domain.Level, domain.Accuracy) { m.finished++ }
func (m *recordingMetrics) QuestionReported()                          { m.reported++ }
