package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

// HistoryStore keeps finished quiz results in the quiz_history table.
// Errors are logged and swallowed, matching the other history stores.
type HistoryStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewHistoryStore(pool *pgxpool.Pool, logger *zap.Logger) *HistoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryStore{pool: pool, logger: logger}
}

func (s *HistoryStore) Save(ctx context.Context, record domain.ResultRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("encode history record", zap.String("quiz_id", record.QuizID), zap.Error(err))
		return
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_history (quiz_id, level, accuracy, completed_at, data) VALUES ($1, $2, $3, $4, $5)`,
		record.QuizID, record.Level, record.Accuracy, record.CompletedAt, data)
	if err != nil {
		s.logger.Error("save history record", zap.String("quiz_id", record.QuizID), zap.Error(err))
	}
}

func (s *HistoryStore) FindAll(ctx context.Context) []domain.ResultRecord {
	records := []domain.ResultRecord{}
	rows, err := s.pool.Query(ctx, `SELECT seq, data FROM quiz_history ORDER BY seq`)
	if err != nil {
		s.logger.Error("load history", zap.Error(err))
		return records
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq int64
			raw []byte
		)
		if err := rows.Scan(&seq, &raw); err != nil {
			s.logger.Error("scan history record", zap.Error(err))
			return []domain.ResultRecord{}
		}
		var rec domain.ResultRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			s.logger.Warn("skip corrupt history record", zap.Int64("seq", seq), zap.Error(err))
			continue
		}
		if err := rec.Validate(); err != nil {
			s.logger.Warn("skip invalid history record", zap.Int64("seq", seq), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("read history", zap.Error(err))
		return []domain.ResultRecord{}
	}
	return records
}

func (s *HistoryStore) Clear(ctx context.Context) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM quiz_history`); err != nil {
		s.logger.Error("clear history", zap.Error(err))
	}
}
