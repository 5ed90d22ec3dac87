package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

// ReportStore keeps question reports in the question_reports table.
type ReportStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewReportStore(db *sql.DB, logger *zap.Logger) *ReportStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportStore{db: db, logger: logger}
}

var reportColumns = []string{"question_id", "report_count", "first_reported_at", "last_reported_at"}

func (s *ReportStore) FindByQuestionID(ctx context.Context, id domain.QuestionID) (*domain.QuestionReport, bool) {
	q, args, err := sqlBuilder.Select(reportColumns...).
		From("question_reports").
		Where(squirrel.Eq{"question_id": id.String()}).
		ToSql()
	if err != nil {
		s.logger.Error("build report query", zap.Error(err))
		return nil, false
	}
	report, err := scanReport(s.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("load report", zap.String("question_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	return report, true
}

func (s *ReportStore) Save(ctx context.Context, report *domain.QuestionReport) {
	rec := domain.NewReportRecord(report)
	q, args, err := sqlBuilder.Insert("question_reports").
		Columns(append(reportColumns, "created_seq")...).
		Values(
			rec.QuestionID,
			rec.ReportCount,
			rec.FirstReportedAt.Format(time.RFC3339Nano),
			rec.LastReportedAt.Format(time.RFC3339Nano),
			squirrel.Expr("(SELECT COALESCE(MAX(created_seq), 0) + 1 FROM question_reports)"),
		).
		Suffix("ON CONFLICT (question_id) DO UPDATE SET report_count = excluded.report_count, last_reported_at = excluded.last_reported_at").
		ToSql()
	if err != nil {
		s.logger.Error("build report upsert", zap.Error(err))
		return
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logger.Error("save report", zap.String("question_id", rec.QuestionID), zap.Error(err))
	}
}

// FindAll returns reports in the order they were first saved.
func (s *ReportStore) FindAll(ctx context.Context) []*domain.QuestionReport {
	reports := []*domain.QuestionReport{}
	q, args, err := sqlBuilder.Select(reportColumns...).From("question_reports").OrderBy("created_seq").ToSql()
	if err != nil {
		s.logger.Error("build reports query", zap.Error(err))
		return reports
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM question_reports`); err != nil {
		s.logger.Error("clear reports", zap.Error(err))
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.QuestionReport, error) {
	var (
		rec         domain.ReportRecord
		first, last string
	)
	if err := row.Scan(&rec.QuestionID, &rec.ReportCount, &first, &last); err != nil {
		return nil, err
	}
	var err error
	if rec.FirstReportedAt, err = time.Parse(time.RFC3339Nano, first); err != nil {
		return nil, err
	}
	if rec.LastReportedAt, err = time.Parse(time.RFC3339Nano, last); err != nil {
		return nil, err
	}
	return rec.Report()
}
