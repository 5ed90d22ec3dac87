package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"kyoto-kentei/internal/domain"
)

// ReportQuestion flags a question as defective. Repeated calls accumulate.
// Calls on one ReportQuestion are serialized so concurrent reports of the same
// question are all counted.
type ReportQuestion struct {
	mu      sync.Mutex
	reports QuestionReportRepository
	now     func() time.Time
}

func NewReportQuestion(reports QuestionReportRepository, now func() time.Time) *ReportQuestion {
	if now == nil {
		now = time.Now
	}
	return &ReportQuestion{reports: reports, now: now}
}

func (uc *ReportQuestion) Execute(ctx context.Context, rawID string) (*domain.QuestionReport, error) {
	id, err := domain.NewQuestionID(rawID)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	report, ok := uc.reports.FindByQuestionID(ctx, id)
	if ok {
		report.Increment(uc.now())
	} else {
		report = domain.NewQuestionReport(id, uc.now())
	}
	uc.reports.Save(ctx, report)
	return report, nil
}

// ReportView is the admin listing shape of a report.
type ReportView struct {
	QuestionID      string `json:"questionId"`
	ReportCount     int    `json:"reportCount"`
	FirstReportedAt string `json:"firstReportedAt"`
	LastReportedAt  string `json:"lastReportedAt"`
}

// GetQuestionReports lists every report, most reported first.
type GetQuestionReports struct {
	reports QuestionReportRepository
}

func NewGetQuestionReports(reports QuestionReportRepository) *GetQuestionReports {
	return &GetQuestionReports{reports: reports}
}

func (uc *GetQuestionReports) Execute(ctx context.Context) []ReportView {
	reports := uc.reports.FindAll(ctx)
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ReportCount() > reports[j].ReportCount()
	})

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, ReportView{
			QuestionID:      r.QuestionID().String(),
			ReportCount:     r.ReportCount(),
			FirstReportedAt: r.FirstReportedAt().UTC().Format(time.RFC3339),
			LastReportedAt:  r.LastReportedAt().UTC().Format(time.RFC3339),
		})
	}
	return views
}
