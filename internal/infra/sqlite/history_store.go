package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

// HistoryStore keeps finished quiz results in the quiz_history table.
type HistoryStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewHistoryStore(db *sql.DB, logger *zap.Logger) *HistoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryStore{db: db, logger: logger}
}

func (s *HistoryStore) Save(ctx context.Context, record domain.ResultRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("encode history record", zap.String("quiz_id", record.QuizID), zap.Error(err))
		return
	}
	q, args, err := sqlBuilder.Insert("quiz_history").
		Columns("quiz_id", "level", "accuracy", "completed_at", "data").
		Values(record.QuizID, record.Level, record.Accuracy, record.CompletedAt.UTC().Format(time.RFC3339Nano), string(data)).
		ToSql()
	if err != nil {
		s.logger.Error("build history insert", zap.Error(err))
		return
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logger.Error("save history record", zap.String("quiz_id", record.QuizID), zap.Error(err))
	}
}

func (s *HistoryStore) FindAll(ctx context.Context) []domain.ResultRecord {
	return s.find(ctx, nil)
}

// FindByLevel returns the history of a single level, oldest first.
func (s *HistoryStore) FindByLevel(ctx context.Context, level domain.Level) []domain.ResultRecord {
	return s.find(ctx, &level)
}

func (s *HistoryStore) find(ctx context.Context, level *domain.Level) []domain.ResultRecord {
	records := []domain.ResultRecord{}
	query := sqlBuilder.Select("seq", "data").From("quiz_history").OrderBy("seq")
	if level != nil {
		query = query.Where("level = ?", level.String())
	}
	q, args, err := query.ToSql()
	if err != nil {
		s.logger.Error("build history query", zap.Error(err))
		return records
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.logger.Error("load history", zap.Error(err))
		return records
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq int64
			raw string
		)
		if err := rows.Scan(&seq, &raw); err != nil {
			s.logger.Error("scan history record", zap.Error(err))
			return []domain.ResultRecord{}
		}
		var rec domain.ResultRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
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
	q, args, err := sqlBuilder.Delete("quiz_history").ToSql()
	if err != nil {
		s.logger.Error("build history delete", zap.Error(err))
		return
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logger.Error("clear history", zap.Error(err))
	}
}
