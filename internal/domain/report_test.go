package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

func TestNewQuestionReport(t *testing.T) {
	r := domain.NewQuestionReport("q001", fixedNow)

	assert.Equal(t, domain.QuestionID("q001"), r.QuestionID())
	assert.Equal(t, 1, r.ReportCount())
	assert.Equal(t, fixedNow, r.FirstReportedAt())
	assert.Equal(t, fixedNow, r.LastReportedAt())
}

func TestIncrementKeepsFirstReportedAt(t *testing.T) {
	r := domain.NewQuestionReport("q001", fixedNow)
	later := fixedNow.Add(time.Hour)

	r.Increment(later)
	assert.Equal(t, 2, r.ReportCount())
	assert.Equal(t, fixedNow, r.FirstReportedAt())
	assert.Equal(t, later, r.LastReportedAt())

	r.Increment(fixedNow.Add(-time.Hour))
	assert.Equal(t, 3, r.ReportCount())
	assert.Equal(t, later, r.LastReportedAt(), "last reported time must not move backwards")
}

func TestRestoreQuestionReportRejectsZeroCount(t *testing.T) {
	_, err := domain.RestoreQuestionReport("q001", 0, fixedNow, fixedNow)
	assert.ErrorIs(t, err, domain.ErrReportCount)

	r, err := domain.RestoreQuestionReport("q001", 4, fixedNow, fixedNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 4, r.ReportCount())
}

func TestReportRecordRoundTrip(t *testing.T) {
	r := domain.NewQuestionReport("q001", fixedNow)
	r.Increment(fixedNow.Add(time.Minute))

	restored, err := domain.NewReportRecord(r).Report()
	require.NoError(t, err)
	assert.Equal(t, r.ReportCount(), restored.ReportCount())
	assert.True(t, r.FirstReportedAt().Equal(restored.FirstReportedAt()))
	assert.True(t, r.LastReportedAt().Equal(restored.LastReportedAt()))

	_, err = domain.ReportRecord{QuestionID: "", ReportCount: 1}.Report()
	assert.ErrorIs(t, err, domain.ErrEmptyQuestionID)
}
