package memory

import (
	"context"
	"sync"

	"kyoto-kentei/internal/domain"
)

// ReportStore keeps question reports in process memory, in first-report order.
type ReportStore struct {
	mu      sync.RWMutex
	order   []domain.QuestionID
	records map[domain.QuestionID]domain.ReportRecord
}

func NewReportStore() *ReportStore {
	return &ReportStore{records: make(map[domain.QuestionID]domain.ReportRecord)}
}

func (s *ReportStore) FindByQuestionID(_ context.Context, id domain.QuestionID) (*domain.QuestionReport, bool) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	report, err := rec.Report()
	if err != nil {
		return nil, false
	}
	return report, true
}

// Save stores a snapshot; later changes to report are not visible until saved again.
func (s *ReportStore) Save(_ context.Context, report *domain.QuestionReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := report.QuestionID()
	if _, ok := s.records[id]; !ok {
		s.order = append(s.order, id)
	}
	s.records[id] = domain.NewReportRecord(report)
}

func (s *ReportStore) FindAll(context.Context) []*domain.QuestionReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.QuestionReport, 0, len(s.order))
	for _, id := range s.order {
		if report, err := s.records[id].Report(); err == nil {
			out = append(out, report)
		}
	}
	return out
}

func (s *ReportStore) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.records = make(map[domain.QuestionID]domain.ReportRecord)
}
