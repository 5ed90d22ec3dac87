package memory

import (
	"context"
	"sync"

	"kyoto-kentei/internal/domain"
)

// HistoryStore keeps finished quiz results in process memory.
type HistoryStore struct {
	mu      sync.RWMutex
	records []domain.ResultRecord
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

func (s *HistoryStore) Save(_ context.Context, record domain.ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, cloneRecord(record))
}

// FindAll returns records oldest first.
func (s *HistoryStore) FindAll(context.Context) []domain.ResultRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, cloneRecord(rec))
	}
	return out
}

func (s *HistoryStore) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func cloneRecord(rec domain.ResultRecord) domain.ResultRecord {
	stats := make([]domain.CategoryRecord, len(rec.CategoryStatistics))
	copy(stats, rec.CategoryStatistics)
	rec.CategoryStatistics = stats
	return rec
}
