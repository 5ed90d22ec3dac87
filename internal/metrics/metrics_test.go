package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.QuizStarted(domain.Level3)
	r.QuizStarted(domain.Level3)
	r.QuizStarted(domain.Level2)
	accuracy, _ := domain.AccuracyFromPercentage(80)
	r.QuizFinished(domain.Level3, accuracy)
	r.QuestionReported()
	r.ObserveRequest("/api/quizzes", "201")

	body := scrape(t, r)
	for _, want := range []string{
		`kentei_quizzes_started_total{level="3級"} 2`,
		`kentei_quizzes_started_total{level="2級"} 1`,
		`kentei_quizzes_finished_total{level="3級"} 1`,
		`kentei_quiz_accuracy_percent_sum{level="3級"} 80`,
		`kentei_questions_reported_total 1`,
		`kentei_http_requests_total{code="201",route="/api/quizzes"} 1`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestRecordersAreIsolated(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.QuestionReported()

	assert.Contains(t, scrape(t, b), "kentei_questions_reported_total 0")
}
