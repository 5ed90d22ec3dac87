package bank

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/domain"
)

const sampleDoc = `{
  "questions": [
    {
      "id": "q001",
      "level": "3級",
      "category": "寺院",
      "exam-year": "2019",
      "question": "金閣寺の正式名称は？",
      "options": ["鹿苑寺", "慈照寺", "仁和寺", "天龍寺"],
      "correctAnswer": 0,
      "explanation": "金閣寺の正式名称は鹿苑寺です。"
    },
    {
      "id": "q002",
      "level": "2級",
      "category": "祭と行事",
      "exam-year": "2021",
      "question": "葵祭が行われる月は？",
      "options": ["4月", "5月", "7月", "10月"],
      "correctAnswer": 1,
      "explanation": "葵祭は毎年5月15日に行われます。"
    }
  ]
}`

func TestDecodeAndConvert(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	questions, err := doc.ToQuestions()
	require.NoError(t, err)
	require.Len(t, questions, 2)

	q := questions[1]
	assert.Equal(t, domain.QuestionID("q002"), q.ID())
	assert.Equal(t, domain.Level2, q.Level())
	assert.Equal(t, "2021", q.ExamYear())
	assert.Equal(t, 1, q.CorrectAnswerIndex())
}

func TestEncodeRoundTripsEntries(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	questions, err := doc.ToQuestions()
	require.NoError(t, err)

	var out Document
	for _, q := range questions {
		out.Questions = append(out.Questions, FromQuestion(q))
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, out))
	assert.Contains(t, buf.String(), `"exam-year": "2019"`)
	assert.Contains(t, buf.String(), "鹿苑寺")

	again, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, again.Questions, 2)
	assert.Equal(t, doc.Questions[0].Explanation, again.Questions[0].Explanation)
}

func TestToQuestionsFailsOnInvalidEntry(t *testing.T) {
	doc := Document{Questions: []Entry{{ID: "q1", Level: "1級", Category: "歴史", Question: "?", Options: []string{"a", "b", "c", "d"}}}}
	_, err := doc.ToQuestions()
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
	assert.ErrorContains(t, err, "q1")
}

func TestToQuestionsRejectsRepeatedIDs(t *testing.T) {
	entry := func(id, text string) Entry {
		return Entry{ID: id, Level: "3級", Category: "歴史", Question: text, Options: []string{"a", "b", "c", "d"}}
	}
	doc := Document{Questions: []Entry{
		entry("q1", "平安京遷都は何年？"),
		entry("q2", "応仁の乱が始まった年は？"),
		entry("q1", "金閣寺を建てたのは？"),
	}}

	_, err := doc.ToQuestions()
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
	assert.ErrorContains(t, err, `"q1"`)

	path := filepath.Join(t.TempDir(), "questions.json")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	_, err = NewFileLoader(path).LoadQuestions(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"questions": [`))
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	questions, err := NewFileLoader(path).LoadQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	_, err = NewFileLoader(filepath.Join(t.TempDir(), "missing.json")).LoadQuestions(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/questions.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	questions, err := NewHTTPLoader(srv.URL+"/data/questions.json", time.Second).LoadQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	_, err = NewHTTPLoader(srv.URL+"/missing.json", time.Second).LoadQuestions(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuestionBankLoad)
	assert.ErrorContains(t, err, "404")
}

func TestCheckFindsProblems(t *testing.T) {
	valid := func(id, text string) Entry {
		return Entry{ID: id, Level: "3級", Category: "歴史", Question: text, Options: []string{"a", "b", "c", "d"}}
	}
	doc := Document{Questions: []Entry{
		valid("q1", "平安京遷都は何年？"),
		valid("q2", " 平安京遷都は何年？ "),
		valid("q1", "応仁の乱が始まった年は？"),
		{ID: "q4", Level: "3級", Category: "寺院", Question: "三つしか選択肢がない", Options: []string{"a", "b", "c"}},
	}}

	report := Check(doc)
	assert.False(t, report.OK())
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 4, report.ByLevel["3級"])
	assert.Equal(t, 3, report.ByCategory["歴史"])

	require.Len(t, report.DuplicateIDs, 1)
	assert.Equal(t, 0, report.DuplicateIDs[0].First.Index)
	assert.Equal(t, 2, report.DuplicateIDs[0].Duplicate.Index)

	require.Len(t, report.DuplicateTexts, 1)
	assert.Equal(t, "q2", report.DuplicateTexts[0].Duplicate.ID)

	require.Len(t, report.Invalid, 1)
	assert.Equal(t, "q4", report.Invalid[0].ID)

	assert.Equal(t, []string{"歴史", "寺院"}, report.Categories())
}

func TestCheckCleanBank(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.True(t, Check(doc).OK())
}
