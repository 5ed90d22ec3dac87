package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/domain"
	"kyoto-kentei/internal/infra/memory"
	"kyoto-kentei/internal/metrics"
)

// inOrder makes StartQuiz keep the bank order.
type inOrder struct{}

func (inOrder) Intn(int) int { return 0 }

type brokenLoader struct{}

func (brokenLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	return nil, errors.New("bank offline")
}

// sampleBank has four 3級 questions, every answer key 1.
func sampleBank(t *testing.T) []domain.Question {
	t.Helper()
	categories := []string{"歴史", "寺院", "歴史", "庭園"}
	out := make([]domain.Question, 0, len(categories))
	for i, category := range categories {
		q, err := domain.NewQuestion(domain.QuestionParams{
			ID:                 fmt.Sprintf("q%d", i+1),
			Level:              "3級",
			Category:           category,
			ExamYear:           "2023",
			Text:               fmt.Sprintf("question %d", i+1),
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: 1,
			Explanation:        fmt.Sprintf("explanation %d", i+1),
		})
		require.NoError(t, err)
		out = append(out, q)
	}
	return out
}

func newTestService(t *testing.T, loader memory.QuestionLoader) *app.QuizService {
	t.Helper()
	if loader == nil {
		loader = memory.NewStaticQuestionLoader(sampleBank(t))
	}
	return app.NewQuizService(
		memory.NewSessionStore(),
		memory.NewQuestionRepository(loader, 0),
		memory.NewHistoryStore(),
		memory.NewReportStore(),
		app.WithRandom(inOrder{}),
	)
}

func newTestServer(t *testing.T, loader memory.QuestionLoader) *httptest.Server {
	t.Helper()
	handler := NewRouter(newTestService(t, loader), RouterConfig{
		Metrics:              metrics.NewRecorder(),
		DefaultQuestionCount: 2,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// do sends body as JSON (when non-nil), checks the status and decodes into out (when non-nil).
func do(t *testing.T, srv *httptest.Server, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err, "%s %s", method, path)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "%s %s: decode %s", method, path, raw)
	}
}
