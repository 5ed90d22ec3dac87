package domain

import (
	"fmt"
	"time"
)

// QuizStatus is the lifecycle state of a quiz.
type QuizStatus int

const (
	QuizInProgress QuizStatus = iota
	QuizCompleted
)

func (s QuizStatus) String() string {
	switch s {
	case QuizInProgress:
		return "in_progress"
	case QuizCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Quiz is one run through a fixed, ordered set of questions.
// A Quiz is owned by a single session and is not safe for concurrent use.
type Quiz struct {
	id        QuizID
	level     Level
	questions []Question
	cursor    int
	answers   map[QuestionID]int
	startedAt time.Time
}

// NewQuiz builds an in-progress quiz positioned at the first question.
func NewQuiz(id QuizID, level Level, questions []Question, startedAt time.Time) (*Quiz, error) {
	if id == "" {
		return nil, ErrEmptyQuizID
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if err := UniqueQuestionIDs(questions); err != nil {
		return nil, err
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Quiz{
		id:        id,
		level:     level,
		questions: qs,
		answers:   make(map[QuestionID]int, len(qs)),
		startedAt: startedAt,
	}, nil
}

func (q *Quiz) ID() QuizID                { return q.id }
func (q *Quiz) Level() Level              { return q.level }
func (q *Quiz) StartedAt() time.Time      { return q.startedAt }
func (q *Quiz) TotalQuestions() int       { return len(q.questions) }
func (q *Quiz) CurrentQuestionIndex() int { return q.cursor }

// Questions returns the fixed question order.
func (q *Quiz) Questions() []Question {
	out := make([]Question, len(q.questions))
	copy(out, q.questions)
	return out
}

func (q *Quiz) Status() QuizStatus {
	if q.cursor >= len(q.questions) {
		return QuizCompleted
	}
	return QuizInProgress
}

func (q *Quiz) IsCompleted() bool {
	return q.Status() == QuizCompleted
}

// CurrentQuestion returns the question under the cursor; ok is false once completed.
func (q *Quiz) CurrentQuestion() (Question, bool) {
	if q.IsCompleted() {
		return Question{}, false
	}
	return q.questions[q.cursor], true
}

// AnswerCurrentQuestion records index for the current question, replacing any earlier answer.
func (q *Quiz) AnswerCurrentQuestion(index int) error {
	if q.IsCompleted() {
		return ErrQuizCompleted
	}
	if index < 0 || index >= OptionCount {
		return fmt.Errorf("%w: got %d", ErrAnswerIndexRange, index)
	}
	q.answers[q.questions[q.cursor].ID()] = index
	return nil
}

// MoveToNextQuestion advances the cursor; advancing past the last question completes the quiz.
func (q *Quiz) MoveToNextQuestion() error {
	if q.IsCompleted() {
		return ErrNoMoreQuestions
	}
	q.cursor++
	return nil
}

// Answer returns the recorded answer for id; ok is false when unanswered.
func (q *Quiz) Answer(id QuestionID) (int, bool) {
	index, ok := q.answers[id]
	return index, ok
}

// Answers returns a copy of every recorded answer.
func (q *Quiz) Answers() map[QuestionID]int {
	out := make(map[QuestionID]int, len(q.answers))
	for id, index := range q.answers {
		out[id] = index
	}
	return out
}

// CorrectCount replays recorded answers against each question's key.
func (q *Quiz) CorrectCount() int {
	correct := 0
	for _, question := range q.questions {
		if answer, ok := q.answers[question.ID()]; ok && question.IsCorrectAnswer(answer) {
			correct++
		}
	}
	return correct
}
