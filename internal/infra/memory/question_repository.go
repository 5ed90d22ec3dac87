package memory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"kyoto-kentei/internal/domain"
)

// QuestionLoader fetches the whole question bank from a backing source
// (JSON file, HTTP, Postgres, ...).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the question bank to avoid repeated loads.
// A zero TTL keeps the first successful load for the life of the process.
// Failed loads are never cached.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu        sync.RWMutex
	rnd       *rand.Rand
	bank      *bank
	expiresAt time.Time
}

type bank struct {
	all     []domain.Question
	byLevel map[domain.Level][]domain.Question
	byID    map[domain.QuestionID]domain.Question
}

const bankKey = "bank"

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]domain.Question, error) {
	b, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return clone(b.all), nil
}

func (r *QuestionRepository) FindByLevel(ctx context.Context, level domain.Level) ([]domain.Question, error) {
	b, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return clone(b.byLevel[level]), nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id domain.QuestionID) (domain.Question, bool, error) {
	b, err := r.load(ctx)
	if err != nil {
		return domain.Question{}, false, err
	}
	q, ok := b.byID[id]
	return q, ok, nil
}

// Invalidate drops the cached bank so the next read reloads it.
func (r *QuestionRepository) Invalidate() {
	r.mu.Lock()
	r.bank = nil
	r.mu.Unlock()
}

func (r *QuestionRepository) cached(now time.Time) *bank {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.bank == nil {
		return nil
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return nil
	}
	return r.bank
}

func (r *QuestionRepository) load(ctx context.Context) (*bank, error) {
	if b := r.cached(r.clock()); b != nil {
		return b, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		now := r.clock()
		if b := r.cached(now); b != nil {
			return b, nil
		}

		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrIO) {
				err = fmt.Errorf("%w: %v", domain.ErrQuestionBankLoad, err)
			}
			return nil, err
		}

		if err := domain.UniqueQuestionIDs(questions); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrQuestionBankLoad, err)
		}
		b := index(questions)
		ttl := r.ttlWithJitter()
		r.mu.Lock()
		r.bank = b
		r.expiresAt = now.Add(ttl)
		r.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*bank), nil
}

func index(questions []domain.Question) *bank {
	b := &bank{
		all:     clone(questions),
		byLevel: make(map[domain.Level][]domain.Question),
		byID:    make(map[domain.QuestionID]domain.Question, len(questions)),
	}
	for _, q := range questions {
		b.byLevel[q.Level()] = append(b.byLevel[q.Level()], q)
		b.byID[q.ID()] = q
	}
	return b
}

// ttlWithJitter adds up to 10% to spread reloads. Must be called without r.mu held.
func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func clone(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out
}

// StaticQuestionLoader serves a fixed slice (useful for tests/demos).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: clone(questions)}
}

func (l *StaticQuestionLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	return clone(l.questions), nil
}
