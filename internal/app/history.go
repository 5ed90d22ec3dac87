package app

import (
	"context"

	"kyoto-kentei/internal/domain"
)

// SummarizeHistory computes cumulative statistics over the history store.
type SummarizeHistory struct {
	history HistoryRepository
}

func NewSummarizeHistory(history HistoryRepository) *SummarizeHistory {
	return &SummarizeHistory{history: history}
}

func (uc *SummarizeHistory) Execute(ctx context.Context) domain.HistorySummary {
	return domain.SummarizeHistory(uc.history.FindAll(ctx))
}
