package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

const historyKey = "kyoto-quiz-history"

// HistoryStore appends results to a Redis list, one JSON record per element.
// Failures are logged and swallowed; a corrupt element is skipped on read.
type HistoryStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewHistoryStore(client *redis.Client, logger *zap.Logger) *HistoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryStore{client: client, logger: logger}
}

func (s *HistoryStore) Save(ctx context.Context, record domain.ResultRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("encode history record", zap.String("quiz_id", record.QuizID), zap.Error(err))
		return
	}
	if err := s.client.RPush(ctx, historyKey, payload).Err(); err != nil {
		s.logger.Error("save history record", zap.String("quiz_id", record.QuizID), zap.Error(err))
	}
}

func (s *HistoryStore) FindAll(ctx context.Context) []domain.ResultRecord {
	raw, err := s.client.LRange(ctx, historyKey, 0, -1).Result()
	if err != nil {
		s.logger.Error("load history", zap.Error(err))
		return []domain.ResultRecord{}
	}
	records := make([]domain.ResultRecord, 0, len(raw))
	for i, item := range raw {
		var rec domain.ResultRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			s.logger.Warn("skip corrupt history record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := rec.Validate(); err != nil {
			s.logger.Warn("skip invalid history record", zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (s *HistoryStore) Clear(ctx context.Context) {
	if err := s.client.Del(ctx, historyKey).Err(); err != nil {
		s.logger.Error("clear history", zap.Error(err))
	}
}
