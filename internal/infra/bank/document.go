// Package bank reads and checks the JSON question bank document.
package bank

import (
	"encoding/json"
	"fmt"
	"io"

	"kyoto-kentei/internal/domain"
)

// Document is the top-level shape of questions.json.
type Document struct {
	Questions []Entry `json:"questions"`
}

// Entry is one question as stored in the bank document.
type Entry struct {
	ID            string   `json:"id"`
	Level         string   `json:"level"`
	Category      string   `json:"category"`
	ExamYear      string   `json:"exam-year"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Decode reads a bank document. It does not validate entries.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: decode: %v", domain.ErrQuestionBankLoad, err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON, keeping non-ASCII text readable.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ToQuestion validates e into a domain question.
func (e Entry) ToQuestion() (domain.Question, error) {
	return domain.NewQuestion(domain.QuestionParams{
		ID:                 e.ID,
		Level:              e.Level,
		Category:           e.Category,
		ExamYear:           e.ExamYear,
		Text:               e.Question,
		Options:            e.Options,
		CorrectAnswerIndex: e.CorrectAnswer,
		Explanation:        e.Explanation,
	})
}

// FromQuestion is the inverse of Entry.ToQuestion.
func FromQuestion(q domain.Question) Entry {
	p := q.Params()
	return Entry{
		ID:            p.ID,
		Level:         p.Level,
		Category:      p.Category,
		ExamYear:      p.ExamYear,
		Question:      p.Text,
		Options:       p.Options,
		CorrectAnswer: p.CorrectAnswerIndex,
		Explanation:   p.Explanation,
	}
}

// ToQuestions converts every entry. One invalid entry or a repeated id fails
// the whole bank.
func (d Document) ToQuestions() ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(d.Questions))
	for i, e := range d.Questions {
		q, err := e.ToQuestion()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d (id %q): %v", domain.ErrQuestionBankLoad, i, e.ID, err)
		}
		out = append(out, q)
	}
	if err := domain.UniqueQuestionIDs(out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionBankLoad, err)
	}
	return out, nil
}
