package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

// ReportStore keeps question reports in the question_reports table.
type ReportStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewReportStore(pool *pgxpool.Pool, logger *zap.Logger) *ReportStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportStore{pool: pool, logger: logger}
}

func (s *ReportStore) FindByQuestionID(ctx context.Context, id domain.QuestionID) (*domain.QuestionReport, bool) {
	row := s.pool.QueryRow(ctx,
		`SELECT question_id, report_count, first_reported_at, last_reported_at FROM question_reports WHERE question_id = $1`,
		id.String())
	report, err := scanReport(row)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("load report", zap.String("question_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	return report, true
}

func (s *ReportStore) Save(ctx context.Context, report *domain.QuestionReport) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO question_reports (question_id, report_count, first_reported_at, last_reported_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id) DO UPDATE SET
			report_count = EXCLUDED.report_count,
			last_reported_at = EXCLUDED.last_reported_at`,
		report.QuestionID().String(), report.ReportCount(), report.FirstReportedAt().UTC(), report.LastReportedAt().UTC())
	if err != nil {
		s.logger.Error("save report", zap.String("question_id", report.QuestionID().String()), zap.Error(err))
	}
}

func (s *ReportStore) FindAll(ctx context.Context) []*domain.QuestionReport {
	reports := []*domain.QuestionReport{}
	rows, err := s.pool.Query(ctx,
		`SELECT question_id, report_count, first_reported_at, last_reported_at FROM question_reports ORDER BY first_reported_at, question_id`)
	if err != nil {
		s.logger.Error("load reports", zap.Error(err))
		return reports
	}
	defer rows.Close()

	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			s.logger.Warn("skip corrupt report", zap.Error(err))
			continue
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("read reports", zap.Error(err))
		return []*domain.QuestionReport{}
	}
	return reports
}

func (s *ReportStore) Clear(ctx context.Context) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM question_reports`); err != nil {
		s.logger.Error("clear reports", zap.Error(err))
	}
}

func scanReport(row pgx.Row) (*domain.QuestionReport, error) {
	var (
		id          string
		count       int
		first, last time.Time
	)
	if err := row.Scan(&id, &count, &first, &last); err != nil {
		return nil, err
	}
	return domain.ReportRecord{
		QuestionID:      id,
		ReportCount:     count,
		FirstReportedAt: first.UTC(),
		LastReportedAt:  last.UTC(),
	}.Report()
}
