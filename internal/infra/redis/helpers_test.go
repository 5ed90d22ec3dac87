package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

func runMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func sampleQuestions(t *testing.T) []domain.Question {
	t.Helper()
	out := make([]domain.Question, 0, 3)
	for _, p := range []domain.QuestionParams{
		{ID: "q1", Level: "3級", Category: "歴史", ExamYear: "2020", Text: "平安京に遷都したのは何年？"},
		{ID: "q2", Level: "2級", Category: "寺院", ExamYear: "2021", Text: "東寺の正式名称は？"},
		{ID: "q3", Level: "3級", Category: "祭と行事", ExamYear: "2022", Text: "祇園祭は何月？"},
	} {
		p.Options = []string{"a", "b", "c", "d"}
		p.CorrectAnswerIndex = 2
		p.Explanation = "explanation " + p.ID
		q, err := domain.NewQuestion(p)
		require.NoError(t, err)
		out = append(out, q)
	}
	return out
}
