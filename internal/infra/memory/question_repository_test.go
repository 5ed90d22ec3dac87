package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleQuestions(t))}
	repo := NewQuestionRepository(loader, 0)

	_, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	_, err = repo.FindByLevel(context.Background(), domain.Level3)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.count())
}

func TestQuestionRepositoryReloadsAfterTTL(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleQuestions(t))}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loader.count(), "cache hit within ttl")

	// ttl plus the largest possible jitter
	now = now.Add(2 * time.Minute)
	_, err = repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loader.count(), "reload after ttl")
}

func TestQuestionRepositoryDoesNotCacheFailures(t *testing.T) {
	loader := &flakyLoader{questions: sampleQuestions(t), failures: 1}
	repo := NewQuestionRepository(loader, 0)

	_, err := repo.FindAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
	assert.ErrorIs(t, err, domain.ErrIO)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestQuestionRepositoryRejectsRepeatedIDs(t *testing.T) {
	questions := append(sampleQuestions(t), newQuestion(t, "q1", "3級", "庭園"))
	repo := NewQuestionRepository(NewStaticQuestionLoader(questions), 0)

	_, err := repo.FindByLevel(context.Background(), domain.Level3)
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
	assert.ErrorIs(t, err, domain.ErrDuplicateQuestionID)
	assert.ErrorContains(t, err, `"q1"`)
}

func TestQuestionRepositoryQueries(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(sampleQuestions(t)), 0)
	ctx := context.Background()

	level3, err := repo.FindByLevel(ctx, domain.Level3)
	require.NoError(t, err)
	require.Len(t, level3, 2)
	assert.Equal(t, domain.QuestionID("q1"), level3[0].ID())
	assert.Equal(t, domain.QuestionID("q3"), level3[1].ID())

	q, ok, err := repo.FindByID(ctx, "q2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.Level2, q.Level())

	_, ok, err = repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuestionRepositoryConcurrentLoadsCollapse(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(sampleQuestions(t)),
		delay:          20 * time.Millisecond,
	}
	repo := NewQuestionRepository(loader, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.FindAll(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, loader.count())
}

type countingLoader struct {
	QuestionLoader
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	time.Sleep(l.delay)
	return l.QuestionLoader.LoadQuestions(ctx)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type flakyLoader struct {
	questions []domain.Question
	failures  int
}

func (l *flakyLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	if l.failures > 0 {
		l.failures--
		return nil, errors.New("connection refused")
	}
	return l.questions, nil
}

func sampleQuestions(t *testing.T) []domain.Question {
	t.Helper()
	return []domain.Question{
		newQuestion(t, "q1", "3級", "歴史"),
		newQuestion(t, "q2", "2級", "寺院"),
		newQuestion(t, "q3", "3級", "行事"),
	}
}

func newQuestion(t *testing.T, id, level, category string) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(domain.QuestionParams{
		ID:                 id,
		Level:              level,
		Category:           category,
		ExamYear:           "2023",
		Text:               "question " + id,
		Options:            []string{"a", "b", "c", "d"},
		CorrectAnswerIndex: 0,
		Explanation:        "explanation " + id,
	})
	require.NoError(t, err)
	return q
}
