package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"kyoto-kentei/internal/domain"
	"kyoto-kentei/internal/infra/bank"
)

// QuestionLoader fetches the question bank from its source of truth.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the question bank in Redis as one JSON document
// and falls back to the loader on a miss. Instances sharing a Redis server
// share the cache.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

const questionsKey = "kyoto-kentei:questions"

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration, logger *zap.Logger) *QuestionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]domain.Question, error) {
	return r.load(ctx)
}

func (r *QuestionRepository) FindByLevel(ctx context.Context, level domain.Level) ([]domain.Question, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(all))
	for _, q := range all {
		if q.Level() == level {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id domain.QuestionID) (domain.Question, bool, error) {
	all, err := r.load(ctx)
	if err != nil {
		return domain.Question{}, false, err
	}
	for _, q := range all {
		if q.ID() == id {
			return q, true, nil
		}
	}
	return domain.Question{}, false, nil
}

// Invalidate removes the cached bank.
func (r *QuestionRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, questionsKey).Err()
}

func (r *QuestionRepository) load(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := r.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(questionsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx); ok {
			return questions, nil
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
		r.fill(ctx, questions)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, questionsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("read cached questions", zap.Error(err))
		}
		return nil, false
	}
	doc, err := bank.Decode(bytes.NewReader(raw))
	if err != nil {
		r.logger.Warn("decode cached questions", zap.Error(err))
		return nil, false
	}
	questions, err := doc.ToQuestions()
	if err != nil {
		r.logger.Warn("cached questions are invalid", zap.Error(err))
		return nil, false
	}
	return questions, true
}

// fill is best-effort: a failed write only costs a reload later.
func (r *QuestionRepository) fill(ctx context.Context, questions []domain.Question) {
	doc := bank.Document{Questions: make([]bank.Entry, 0, len(questions))}
	for _, q := range questions {
		doc.Questions = append(doc.Questions, bank.FromQuestion(q))
	}
	var buf bytes.Buffer
	if err := bank.Encode(&buf, doc); err != nil {
		r.logger.Warn("encode questions for cache", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, questionsKey, buf.Bytes(), r.ttlWithJitter()).Err(); err != nil {
		r.logger.Warn("cache questions", zap.Error(err))
	}
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
