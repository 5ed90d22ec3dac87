package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"kyoto-kentei/internal/domain"
)

// StartQuiz samples a new quiz from the question bank.
type StartQuiz struct {
	questions QuestionRepository
	now       func() time.Time

	mu  sync.Mutex
	rnd RandomSource
}

func NewStartQuiz(questions QuestionRepository, rnd RandomSource, now func() time.Time) *StartQuiz {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &StartQuiz{questions: questions, rnd: rnd, now: now}
}

// Execute picks count questions of the given level uniformly at random, without replacement.
func (uc *StartQuiz) Execute(ctx context.Context, rawLevel string, count int) (*domain.Quiz, error) {
	level, err := domain.ParseLevel(rawLevel)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuestionCount, count)
	}

	available, err := uc.questions.FindByLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	if len(available) < count {
		return nil, fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientQuestions, count, len(available))
	}

	return domain.NewQuiz(domain.NewQuizID(), level, uc.sample(available, count), uc.now())
}

// sample runs the first count steps of a Fisher-Yates shuffle over a copy of pool.
func (uc *StartQuiz) sample(pool []domain.Question, count int) []domain.Question {
	shuffled := make([]domain.Question, len(pool))
	copy(shuffled, pool)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := 0; i < count; i++ {
		j := i + uc.rnd.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:count]
}
