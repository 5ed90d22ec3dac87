package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

const reportsKey = "kyoto-kentei-question-reports"

// ReportStore keeps one hash field per reported question:
// HSET kyoto-kentei-question-reports {questionID} {json record}
type ReportStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewReportStore(client *redis.Client, logger *zap.Logger) *ReportStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportStore{client: client, logger: logger}
}

func (s *ReportStore) FindByQuestionID(ctx context.Context, id domain.QuestionID) (*domain.QuestionReport, bool) {
	raw, err := s.client.HGet(ctx, reportsKey, id.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Error("load report", zap.String("question_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	report, err := decodeReport(raw)
	if err != nil {
		s.logger.Warn("skip corrupt report", zap.String("question_id", id.String()), zap.Error(err))
		return nil, false
	}
	return report, true
}

func (s *ReportStore) Save(ctx context.Context, report *domain.QuestionReport) {
	payload, err := json.Marshal(domain.NewReportRecord(report))
	if err != nil {
		s.logger.Error("encode report", zap.Error(err))
		return
	}
	if err := s.client.HSet(ctx, reportsKey, report.QuestionID().String(), payload).Err(); err != nil {
		s.logger.Error("save report", zap.String("question_id", report.QuestionID().String()), zap.Error(err))
	}
}

// FindAll returns reports ordered by first report time, then question id.
func (s *ReportStore) FindAll(ctx context.Context) []*domain.QuestionReport {
	fields, err := s.client.HGetAll(ctx, reportsKey).Result()
	if err != nil {
		s.logger.Error("load reports", zap.Error(err))
		return []*domain.QuestionReport{}
	}
	reports := make([]*domain.QuestionReport, 0, len(fields))
	for id, raw := range fields {
		report, err := decodeReport(raw)
		if err != nil {
			s.logger.Warn("skip corrupt report", zap.String("question_id", id), zap.Error(err))
			continue
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if !a.FirstReportedAt().Equal(b.FirstReportedAt()) {
			return a.FirstReportedAt().Before(b.FirstReportedAt())
		}
		return a.QuestionID() < b.QuestionID()
	})
	return reports
}

func (s *ReportStore) Clear(ctx context.Context) {
	if err := s.client.Del(ctx, reportsKey).Err(); err != nil {
		s.logger.Error("clear reports", zap.Error(err))
	}
}

func decodeReport(raw string) (*domain.QuestionReport, error) {
	var rec domain.ReportRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return rec.Report()
}
