package domain

import (
	"fmt"
	"strings"
)

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// QuestionParams is the raw, unvalidated shape of a bank entry.
type QuestionParams struct {
	ID                 string
	Level              string
	Category           string
	ExamYear           string
	Text               string
	Options            []string
	CorrectAnswerIndex int
	Explanation        string
}

// Question is one immutable multiple-choice item with its answer key.
type Question struct {
	id          QuestionID
	level       Level
	category    Category
	examYear    string
	text        string
	options     [OptionCount]string
	correct     int
	explanation string
}

// NewQuestion validates p and builds a Question.
func NewQuestion(p QuestionParams) (Question, error) {
	if strings.TrimSpace(p.Text) == "" {
		return Question{}, ErrEmptyQuestionText
	}
	if len(p.Options) != OptionCount {
		return Question{}, fmt.Errorf("%w: got %d", ErrOptionCount, len(p.Options))
	}
	if p.CorrectAnswerIndex < 0 || p.CorrectAnswerIndex >= OptionCount {
		return Question{}, fmt.Errorf("%w: got %d", ErrCorrectIndexRange, p.CorrectAnswerIndex)
	}
	id, err := NewQuestionID(p.ID)
	if err != nil {
		return Question{}, err
	}
	level, err := ParseLevel(p.Level)
	if err != nil {
		return Question{}, err
	}
	category, err := NewCategory(p.Category)
	if err != nil {
		return Question{}, err
	}

	q := Question{
		id:          id,
		level:       level,
		category:    category,
		examYear:    p.ExamYear,
		text:        p.Text,
		correct:     p.CorrectAnswerIndex,
		explanation: p.Explanation,
	}
	copy(q.options[:], p.Options)
	return q, nil
}

func (q Question) ID() QuestionID          { return q.id }
func (q Question) Level() Level            { return q.level }
func (q Question) Category() Category      { return q.category }
func (q Question) ExamYear() string        { return q.examYear }
func (q Question) Text() string            { return q.text }
func (q Question) CorrectAnswerIndex() int { return q.correct }
func (q Question) Explanation() string     { return q.explanation }

// Options returns a copy of the four choices.
func (q Question) Options() []string {
	out := make([]string, OptionCount)
	copy(out, q.options[:])
	return out
}

// IsCorrectAnswer reports whether index matches the answer key.
func (q Question) IsCorrectAnswer(index int) bool {
	return index == q.correct
}

// Params returns the raw form of q, used when writing it back to a store.
func (q Question) Params() QuestionParams {
	return QuestionParams{
		ID:                 q.id.String(),
		Level:              q.level.String(),
		Category:           q.category.String(),
		ExamYear:           q.examYear,
		Text:               q.text,
		Options:            q.Options(),
		CorrectAnswerIndex: q.correct,
		Explanation:        q.explanation,
	}
}

// UniqueQuestionIDs fails on the first id that appears more than once.
func UniqueQuestionIDs(questions []Question) error {
	seen := make(map[QuestionID]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID()]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateQuestionID, q.ID())
		}
		seen[q.ID()] = struct{}{}
	}
	return nil
}
