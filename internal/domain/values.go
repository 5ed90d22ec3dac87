package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Level is the exam difficulty tier.
type Level string

const (
	Level2 Level = "2級"
	Level3 Level = "3級"
)

// Levels lists every accepted tier, hardest first.
var Levels = []Level{Level2, Level3}

// ParseLevel validates raw against the known tiers.
func ParseLevel(raw string) (Level, error) {
	for _, l := range Levels {
		if string(l) == raw {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be either %q or %q", ErrInvalidLevel, raw, Level2, Level3)
}

func (l Level) String() string { return string(l) }

// Category is the topical grouping of a question (history, temples, ...).
type Category string

func NewCategory(raw string) (Category, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyCategory
	}
	return Category(raw), nil
}

func (c Category) String() string { return string(c) }

// QuestionID identifies a question in the bank.
type QuestionID string

func NewQuestionID(raw string) (QuestionID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyQuestionID
	}
	return QuestionID(raw), nil
}

func (id QuestionID) String() string { return string(id) }

// QuizID identifies one quiz run.
type QuizID string

// NewQuizID generates a fresh, unique quiz id.
func NewQuizID() QuizID {
	return QuizID("quiz-" + uuid.NewString())
}

// ParseQuizID wraps an existing id, e.g. one read back from storage or a URL.
func ParseQuizID(raw string) (QuizID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyQuizID
	}
	return QuizID(raw), nil
}

func (id QuizID) String() string { return string(id) }
