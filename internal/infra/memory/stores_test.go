package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

func TestHistoryStoreAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore()

	store.Save(ctx, domain.ResultRecord{QuizID: "quiz-1", Level: "3級", CorrectCount: 1, TotalQuestions: 2, Accuracy: 50})
	store.Save(ctx, domain.ResultRecord{QuizID: "quiz-2", Level: "2級", CorrectCount: 2, TotalQuestions: 2, Accuracy: 100})

	records := store.FindAll(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "quiz-1", records[0].QuizID)
	assert.Equal(t, "quiz-2", records[1].QuizID)

	store.Clear(ctx)
	assert.Empty(t, store.FindAll(ctx))
}

func TestHistoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore()
	store.Save(ctx, domain.ResultRecord{
		QuizID:             "quiz-1",
		CategoryStatistics: []domain.CategoryRecord{{Category: "歴史", CorrectCount: 1, TotalCount: 1, Accuracy: 100}},
	})

	first := store.FindAll(ctx)
	first[0].CategoryStatistics[0].Category = "mutated"

	assert.Equal(t, "歴史", store.FindAll(ctx)[0].CategoryStatistics[0].Category)
}

func TestReportStoreSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewReportStore()
	now := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

	report := domain.NewQuestionReport("q1", now)
	store.Save(ctx, report)
	report.Increment(now.Add(time.Minute))

	stored, ok := store.FindByQuestionID(ctx, "q1")
	require.True(t, ok)
	assert.Equal(t, 1, stored.ReportCount(), "unsaved increment is invisible")

	store.Save(ctx, report)
	stored, _ = store.FindByQuestionID(ctx, "q1")
	assert.Equal(t, 2, stored.ReportCount())
	assert.True(t, stored.LastReportedAt().Equal(now.Add(time.Minute)))
}

func TestReportStoreFindAllAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewReportStore()
	now := time.Now()

	store.Save(ctx, domain.NewQuestionReport("q2", now))
	store.Save(ctx, domain.NewQuestionReport("q1", now))
	store.Save(ctx, domain.NewQuestionReport("q2", now))

	all := store.FindAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, domain.QuestionID("q2"), all[0].QuestionID())
	assert.Equal(t, domain.QuestionID("q1"), all[1].QuestionID())

	store.Clear(ctx)
	_, ok := store.FindByQuestionID(ctx, "q2")
	assert.False(t, ok)
	assert.Empty(t, store.FindAll(ctx))
}
